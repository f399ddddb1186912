package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authmw "ticketbooking/internal/auth/middleware"
	"ticketbooking/pkg/config"
	apperrors "ticketbooking/pkg/errors"
	"ticketbooking/pkg/logger"
	"ticketbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockAuthService struct {
	signupFunc func(ctx context.Context, req *model.SignupRequest) (*model.User, *model.Session, error)
	loggedOut  string
}

func (m *mockAuthService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, *model.Session, error) {
	return m.signupFunc(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.Session, error) {
	if req.Password != "secret1" {
		return nil, nil, apperrors.Unauthorized("Invalid username or password")
	}
	return &model.User{ID: "u1", Username: req.Username, Role: model.RoleCustomer},
		&model.Session{ID: "sess-login", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	m.loggedOut = sessionID
	return nil
}

func (m *mockAuthService) Authenticate(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "sess-login" {
		return &model.User{ID: "u1", Username: "maria", Role: model.RoleCustomer}, nil
	}
	return nil, apperrors.Unauthorized("Session expired")
}

func setup(svc *mockAuthService) http.Handler {
	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	cfg := &config.Config{
		Log:               log,
		SessionCookieName: "ticket.sid",
		SessionTTL:        time.Hour,
	}
	router := httprouter.New()
	NewAuthHandler(svc, cfg).RegisterRoutes(router)
	return authmw.Session(svc, cfg.SessionCookieName, log)(router)
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignupHandler(t *testing.T) {
	svc := &mockAuthService{
		signupFunc: func(ctx context.Context, req *model.SignupRequest) (*model.User, *model.Session, error) {
			return &model.User{ID: "u1", Username: req.Username, PasswordHash: "$2a$hash", Role: model.RoleCustomer},
				&model.Session{ID: "sess-new", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	h := setup(svc)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{"username":"maria","password":"secret1"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "hash") {
		t.Error("password hash leaked")
	}

	c := findCookie(w, "ticket.sid")
	if c == nil || c.Value != "sess-new" {
		t.Fatalf("session cookie missing: %v", w.Result().Cookies())
	}
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.MaxAge != 3600 {
		t.Errorf("unexpected cookie attributes: %+v", c)
	}

	var body struct {
		Data AuthResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Data.User.Username != "maria" {
		t.Errorf("body = %s (%v)", w.Body.String(), err)
	}
}

func TestSignupHandler_Conflict(t *testing.T) {
	svc := &mockAuthService{
		signupFunc: func(ctx context.Context, req *model.SignupRequest) (*model.User, *model.Session, error) {
			return nil, nil, apperrors.Conflict("Username already taken")
		},
	}
	w := httptest.NewRecorder()
	setup(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{"username":"maria","password":"secret1"}`)))
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d", w.Code)
	}
	if findCookie(w, "ticket.sid") != nil {
		t.Error("no cookie on failure")
	}
}

func TestLoginMeLogout(t *testing.T) {
	svc := &mockAuthService{}
	h := setup(svc)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"maria","password":"wrong"}`)))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"maria","password":"secret1"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d", w.Code)
	}
	cookie := findCookie(w, "ticket.sid")
	if cookie == nil {
		t.Fatal("login must set the session cookie")
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me status = %d", w.Code)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"username":"maria"`) {
		t.Errorf("me = %d %s", w.Code, w.Body.String())
	}

	r = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Errorf("logout = %d %s", w.Code, w.Body.String())
	}
	if svc.loggedOut != "sess-login" {
		t.Errorf("server-side session not deleted, got %q", svc.loggedOut)
	}
	if c := findCookie(w, "ticket.sid"); c == nil || c.MaxAge >= 0 {
		t.Error("logout must expire the cookie")
	}
}
