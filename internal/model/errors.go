package model

import "errors"

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a row with the same id already exists.
	ErrConflict = errors.New("already exists")
	// ErrInvalidLevel is returned for a level outside the known set.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrIllegalState is returned when a level has no successor.
	ErrIllegalState = errors.New("illegal state")
	// ErrTransaction is returned when a transaction cannot be started, committed or rolled back.
	ErrTransaction = errors.New("transaction failure")
)

// ErrInvalidUser is returned when a user cannot be stored as given.
var ErrInvalidUser = errors.New("invalid user")
