package errors

import "errors"

var (
	ErrNotFound = errors.New("hotel not found")

	ErrInvalidID = errors.New("invalid hotel ID format")

	ErrRoomNotFound = errors.New("room not found in hotel")
)
