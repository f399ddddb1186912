package handler

import (
	"net/http"

	authmw "ticketbooking/internal/auth/middleware"
	"ticketbooking/internal/bookings/service"
	httputil "ticketbooking/pkg/http"
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// ManagerHandler serves the front desk: booking overview plus check-in and check-out.
type ManagerHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewManagerHandler(service service.BookingService, log *logger.Logger) *ManagerHandler {
	return &ManagerHandler{
		service: service,
		log:     log,
	}
}

func (h *ManagerHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := model.BookingFilter{
		Status:  query.Get("status"),
		HotelID: query.Get("hotel_id"),
		UserID:  query.Get("user_id"),
	}

	resp, err := h.service.ListForManager(r.Context(), filter)
	if err != nil {
		h.writeError(w, "ListBookings", err)
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBookings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ManagerHandler) CheckIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.CheckIn(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CheckIn", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckIn", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ManagerHandler) CheckOut(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.CheckOut(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "CheckOut", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckOut", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ManagerHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ManagerHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/manager/bookings", authmw.RequireManager(h.ListBookings))
	router.POST("/api/manager/check-in/:id", authmw.RequireManager(h.CheckIn))
	router.POST("/api/manager/check-out/:id", authmw.RequireManager(h.CheckOut))
}
