package handler

import (
	"net/http"

	"ticketbooking/internal/blogs/service"
	httputil "ticketbooking/pkg/http"
	"ticketbooking/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type BlogHandler struct {
	service service.BlogService
	log     *logger.Logger
}

func NewBlogHandler(service service.BlogService, log *logger.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		log:     log,
	}
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	blogs, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, blogs); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	blog, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		h.writeError(w, "GetBySlug", err)
		return
	}

	if err := httputil.WriteSuccess(w, blog); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBySlug", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BlogHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BlogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/blogs", h.List)
	router.GET("/api/blogs/:slug", h.GetBySlug)
}
