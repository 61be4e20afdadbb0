package service

import (
	"errors"

	"bingo_webapp/internal/repository"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidConfig      = errors.New("invalid config")
	ErrInvalidNumber      = errors.New("invalid number")
	ErrInvalidInterval    = errors.New("invalid auto-call interval")
	ErrSessionFull        = errors.New("session is full")
	ErrGameNotActive      = errors.New("game is not active")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrDrawExhausted      = errors.New("all numbers have been called")
	ErrAlreadyCalled      = errors.New("number already called")
	ErrNoCardsFound       = errors.New("no cards found")
	ErrNoWinningPattern   = errors.New("no winning pattern")
	ErrTooManyCards       = errors.New("too many cards")

	// ErrRaceLost means a concurrent writer got there first; the caller's
	// request had no effect and can be treated as coalesced.
	ErrRaceLost = repository.ErrRaceLost
)
