package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidEvent = errors.New("invalid event")
	ErrInvalidUser  = errors.New("invalid user")
	ErrInvalidPatch = errors.New("invalid patch")
)
