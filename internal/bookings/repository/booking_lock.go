package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "ticketbooking/internal/bookings/errors"
	"ticketbooking/pkg/config"
	mongotx "ticketbooking/pkg/db/mongo"
	"ticketbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository manages advisory locks on hotel rooms. Locks expire
// through a TTL index on expires_at.
type BookingLockRepository interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) error
	Release(ctx context.Context, lockID string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(LockCollectionName),
	}
}

func LockID(hotelID, roomNumber string) string {
	return fmt.Sprintf("booking_lock_%s_%s", hotelID, roomNumber)
}

// Acquire returns ErrLockHeld when a live lock exists. A lock whose expiry has passed
// but which the TTL monitor has not yet removed is taken over.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lockID string, ttl time.Duration) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := mongotx.Now()
	lock := &model.BookingLock{ID: lockID, ExpiresAt: now.Add(ttl), CreatedAt: now}

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}

	result, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": lockID, "expires_at": bson.M{"$lte": now}},
		lock,
	)
	if err != nil {
		return fmt.Errorf("failed to take over expired booking lock: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrLockHeld, lockID)
	}
	return nil
}

func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID}); err != nil {
		return fmt.Errorf("failed to release booking lock: %w", err)
	}
	return nil
}
