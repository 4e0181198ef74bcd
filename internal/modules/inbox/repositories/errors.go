package repositories

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("conversation was modified concurrently")
	// ErrSkipUpdate lets a Mutate callback finish without writing.
	ErrSkipUpdate = errors.New("skip update")
)
