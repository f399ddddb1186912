package middleware

import (
	"context"
	"net/http"

	"ticketbooking/internal/auth/service"
	apperrors "ticketbooking/pkg/errors"
	httputil "ticketbooking/pkg/http"
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type contextKey string

const (
	userKey      contextKey = "auth_user"
	sessionIDKey contextKey = "auth_session_id"
)

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user or nil for anonymous requests.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// Session resolves the session cookie on every request. An invalid cookie leaves
// the request anonymous; guards decide whether that is acceptable.
func Session(auth service.AuthService, cookieName string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDKey, cookie.Value)
			user, err := auth.Authenticate(ctx, cookie.Value)
			if err != nil {
				if apperrors.AsAppError(err).StatusCode() != http.StatusUnauthorized {
					log.Error("Failed to resolve session", "path", r.URL.Path, "error", err)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}

func RequireAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if UserFromContext(r.Context()) == nil {
			_ = httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
			return
		}
		next(w, r, ps)
	}
}

func RequireManager(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		user := UserFromContext(r.Context())
		if user == nil {
			_ = httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
			return
		}
		if !user.IsManager() {
			_ = httputil.WriteError(w, apperrors.Forbidden("Manager role required"))
			return
		}
		next(w, r, ps)
	}
}
