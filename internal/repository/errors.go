package repository

import "errors"

var (
	// ErrNotFound is returned when a game, player or card row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRaceLost is returned by conditional writes when the row no longer
	// matches the state the caller read.
	ErrRaceLost = errors.New("race lost")
	// ErrDuplicate is returned when a row with the same id already exists.
	ErrDuplicate = errors.New("duplicate id")
)
