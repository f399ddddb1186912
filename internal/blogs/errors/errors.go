package errors

import "errors"

var (
	ErrNotFound = errors.New("blog not found")

	ErrCacheMiss = errors.New("cache miss")
)
