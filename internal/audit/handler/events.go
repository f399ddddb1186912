package handler

import (
	"net/http"

	"ticketbooking/internal/audit/repository"
	authmw "ticketbooking/internal/auth/middleware"
	apperrors "ticketbooking/pkg/errors"
	httputil "ticketbooking/pkg/http"
	"ticketbooking/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventHandler exposes the audit trail recorded by the booking-audit consumer.
type EventHandler struct {
	repo repository.EventRepository
	log  *logger.Logger
}

func NewEventHandler(repo repository.EventRepository, log *logger.Logger) *EventHandler {
	return &EventHandler{
		repo: repo,
		log:  log,
	}
}

func (h *EventHandler) ListForBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if !primitive.IsValidObjectID(id) {
		h.writeError(w, apperrors.InvalidInput("Invalid booking ID format"))
		return
	}

	events, err := h.repo.FindByBooking(r.Context(), id)
	if err != nil {
		h.log.Error("Failed to load booking events", "booking_id", id, "error", err)
		h.writeError(w, apperrors.Internal("Failed to retrieve booking events", err))
		return
	}

	if err := httputil.WriteSuccess(w, events); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *EventHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "ListForBooking", "operation", "WriteError", "error", writeErr)
	}
}

func (h *EventHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/manager/bookings/:id/events", authmw.RequireManager(h.ListForBooking))
}
