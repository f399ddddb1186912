package session

import (
	"context"
	"time"

	"ticketbooking/pkg/config"
	"ticketbooking/pkg/model"

	"github.com/google/uuid"
)

// Store keeps server-side sessions. Get returns autherrors.ErrSessionNotFound
// for unknown and expired ids alike.
type Store interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

// NewStore picks Redis when a client is configured, else the Mongo Sessions collection.
func NewStore(cfg *config.Config) Store {
	if cfg.Client.Redis != nil {
		cfg.Log.Info("Using Redis session store")
		return NewRedisStore(cfg.Client.Redis, cfg)
	}
	cfg.Log.Info("Using MongoDB session store")
	return NewMongoStore(cfg)
}

func newSession(userID string, ttl time.Duration, now time.Time) *model.Session {
	return &model.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
