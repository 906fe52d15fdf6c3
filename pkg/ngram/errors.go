package ngram

import "errors"

var (
	// ErrModelNotFound is returned by Load when no store exists at the path.
	// Callers usually continue with an empty model.
	ErrModelNotFound = errors.New("ngram: model store not found")

	// ErrModelCorrupt is returned by Load when the store exists but cannot be
	// opened or decoded.
	ErrModelCorrupt = errors.New("ngram: model store corrupt")
)
