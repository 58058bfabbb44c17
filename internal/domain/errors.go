package domain

import "errors"

var (
	ErrUnknownTerrain = errors.New("unknown terrain")
	ErrEntityNotFound = errors.New("entity not found")
	ErrEntityExists   = errors.New("entity already placed")
)
