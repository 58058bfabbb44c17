package engine

import "errors"

var (
	ErrWorldNotFound = errors.New("world not found")
	ErrBadWorldID    = errors.New("malformed world id")
)
