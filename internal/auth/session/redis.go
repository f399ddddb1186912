package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	autherrors "ticketbooking/internal/auth/errors"
	"ticketbooking/pkg/config"
	mongotx "ticketbooking/pkg/db/mongo"
	"ticketbooking/pkg/model"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

type redisStore struct {
	client *redis.Client
	cfg    *config.Config
}

func NewRedisStore(client *redis.Client, cfg *config.Config) Store {
	return &redisStore{client: client, cfg: cfg}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

func (s *redisStore) Create(ctx context.Context, userID string, ttl time.Duration) (*model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	sess := newSession(userID, ttl, mongotx.Now())
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(sess.ID), data, ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return sess, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, autherrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return nil, autherrors.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
