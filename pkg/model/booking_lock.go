package model

import "time"

// BookingLock is a short lived advisory lock on one hotel room.
// Its expiry is enforced by a TTL index so a crashed request cannot hold a room forever.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
