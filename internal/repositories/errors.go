package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Callers match
// them with errors.Is; implementations wrap them with context via %w.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)
