package handler

import (
	"net/http"
	"time"

	authmw "ticketbooking/internal/auth/middleware"
	"ticketbooking/internal/auth/service"
	"ticketbooking/pkg/config"
	apperrors "ticketbooking/pkg/errors"
	httputil "ticketbooking/pkg/http"
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AuthResponse struct {
	User model.PublicUser `json:"user"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}

type AuthHandler struct {
	service      service.AuthService
	cookieName   string
	cookieSecure bool
	sessionTTL   time.Duration
	log          *logger.Logger
}

func NewAuthHandler(service service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieName:   cfg.SessionCookieName,
		cookieSecure: cfg.SessionCookieSecure,
		sessionTTL:   cfg.SessionTTL,
		log:          cfg.Log,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SignupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Signup", err)
		return
	}

	user, sess, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Signup", err)
		return
	}

	h.setSessionCookie(w, sess)
	if err := httputil.WriteCreated(w, AuthResponse{User: user.Public()}); err != nil {
		h.log.Error("failed to write created response", "handler", "Signup", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Login", err)
		return
	}

	user, sess, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	h.setSessionCookie(w, sess)
	if err := httputil.WriteSuccess(w, AuthResponse{User: user.Public()}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.service.Logout(r.Context(), authmw.SessionIDFromContext(r.Context())); err != nil {
		h.writeError(w, "Logout", err)
		return
	}

	h.clearSessionCookie(w)
	if err := httputil.WriteSuccess(w, LogoutResponse{OK: true}); err != nil {
		h.log.Error("failed to write success response", "handler", "Logout", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user := authmw.UserFromContext(r.Context())
	if user == nil {
		h.writeError(w, "Me", apperrors.Unauthorized("Not authenticated"))
		return
	}

	if err := httputil.WriteSuccess(w, AuthResponse{User: user.Public()}); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sess *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(h.sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/auth/signup", h.Signup)
	router.POST("/api/auth/login", h.Login)
	router.POST("/api/auth/logout", h.Logout)
	router.GET("/api/auth/me", authmw.RequireAuth(h.Me))
}
