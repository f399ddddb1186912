package service

import (
	"context"
	"errors"
	"strings"

	autherrors "ticketbooking/internal/auth/errors"
	"ticketbooking/internal/auth/repository"
	"ticketbooking/internal/auth/session"
	"ticketbooking/internal/auth/validator"
	"ticketbooking/pkg/config"
	apperrors "ticketbooking/pkg/errors"
	"ticketbooking/pkg/model"
	"ticketbooking/pkg/sanitizer"
	"ticketbooking/pkg/validation"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid username or password"

type AuthService interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.User, *model.Session, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, sessionID string) (*model.User, error)
}

type authService struct {
	users     repository.UserRepository
	sessions  session.Store
	validator *validator.AuthValidator
	cfg       *config.Config

	// dummyHash keeps login timing flat for unknown usernames.
	dummyHash []byte
}

func NewAuthService(
	users repository.UserRepository,
	sessions session.Store,
	validator *validator.AuthValidator,
	cfg *config.Config,
) AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)
	if err != nil {
		cfg.Log.Fatal("Failed to prepare password hasher", "error", err)
	}
	return &authService{
		users:     users,
		sessions:  sessions,
		validator: validator,
		cfg:       cfg,
		dummyHash: dummy,
	}
}

func (s *authService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, *model.Session, error) {
	req.Username = sanitizer.NormalizeUsername(req.Username)
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.ValidateSignup(req); err != nil {
		return nil, nil, validationError("Signup validation failed", err)
	}

	if err := s.ensureAvailable(ctx, req); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         s.roleFor(req.Username),
	}
	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, autherrors.ErrDuplicateUsername):
			return nil, nil, apperrors.Conflict("Username already taken")
		case errors.Is(err, autherrors.ErrDuplicateEmail):
			return nil, nil, apperrors.Conflict("Email already registered")
		}
		s.cfg.Log.Error("Failed to create user", "username", user.Username, "error", err)
		return nil, nil, apperrors.Internal("Failed to create user", err)
	}

	sess, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.cfg.Log.Info("User signed up", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, sess, nil
}

// ensureAvailable gives a precise 409 before insert. The unique indexes remain the final guard.
func (s *authService) ensureAvailable(ctx context.Context, req *model.SignupRequest) error {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return apperrors.Conflict("Username already taken")
	} else if !errors.Is(err, autherrors.ErrNotFound) {
		return apperrors.Internal("Failed to check username", err)
	}

	if req.Email == "" {
		return nil
	}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return apperrors.Conflict("Email already registered")
	} else if !errors.Is(err, autherrors.ErrNotFound) {
		return apperrors.Internal("Failed to check email", err)
	}
	return nil
}

func (s *authService) roleFor(username string) string {
	for _, manager := range s.cfg.ManagerUsernames {
		if strings.EqualFold(manager, username) {
			return model.RoleManager
		}
	}
	return model.RoleCustomer
}

func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.Session, error) {
	req.Username = sanitizer.NormalizeUsername(req.Username)

	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, nil, validationError("Login validation failed", err)
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
			return nil, nil, apperrors.Unauthorized(invalidCredentials)
		}
		return nil, nil, apperrors.Internal("Failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.cfg.Log.Warn("Login failed", "username", req.Username, "reason", "password mismatch")
		return nil, nil, apperrors.Unauthorized(invalidCredentials)
	}

	sess, err := s.startSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.cfg.Log.Info("User logged in", "user_id", user.ID)
	return user, sess, nil
}

func (s *authService) startSession(ctx context.Context, user *model.User) (*model.Session, error) {
	sess, err := s.sessions.Create(ctx, user.ID, s.cfg.SessionTTL)
	if err != nil {
		s.cfg.Log.Error("Failed to create session", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to create session", err)
	}
	return sess, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.cfg.Log.Error("Failed to delete session", "error", err)
		return apperrors.Internal("Failed to log out", err)
	}
	return nil
}

// Authenticate resolves a session id to its user. Missing, expired and orphaned
// sessions all yield 401.
func (s *authService) Authenticate(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, apperrors.Unauthorized("Not authenticated")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, autherrors.ErrSessionNotFound) {
			return nil, apperrors.Unauthorized("Session expired")
		}
		return nil, apperrors.Unavailable("Session store")
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, autherrors.ErrNotFound) || errors.Is(err, autherrors.ErrInvalidID) {
			return nil, apperrors.Unauthorized("Not authenticated")
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}
	return user, nil
}

func validationError(message string, err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
