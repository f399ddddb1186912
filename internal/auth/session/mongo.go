package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	autherrors "ticketbooking/internal/auth/errors"
	"ticketbooking/pkg/config"
	mongotx "ticketbooking/pkg/db/mongo"
	"ticketbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Sessions"

// mongoStore relies on a TTL index on expires_at for cleanup. The TTL monitor
// runs about once a minute, so Get also checks the expiry itself.
type mongoStore struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStore(cfg *config.Config) Store {
	return &mongoStore{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName),
	}
}

func (s *mongoStore) Create(ctx context.Context, userID string, ttl time.Duration) (*model.Session, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	sess := newSession(userID, ttl, mongotx.Now())
	if _, err := s.collection.InsertOne(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return sess, nil
}

func (s *mongoStore) Get(ctx context.Context, id string) (*model.Session, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var sess model.Session
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sess); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, autherrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return nil, autherrors.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
