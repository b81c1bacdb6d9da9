package services

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for requests the store would accept but the domain does not
	ErrInvalidInput = errors.New("invalid input")
)
