package models

import "errors"

var (
	// ErrSelfFollow is returned when a user attempts to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrToggleRace is returned when a toggle loses its edge to a concurrent
	// request twice in a row. Callers surface it as a conflict.
	ErrToggleRace = errors.New("conflicting toggle, please retry")
)
