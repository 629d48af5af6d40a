package lottery

import "errors"

var (
	// ErrInvalidGame is returned when a game identifier is not in the catalog.
	ErrInvalidGame = errors.New("invalid game")

	// ErrInsufficientPool is returned when a viable pool cannot satisfy a game's pick rules.
	ErrInsufficientPool = errors.New("insufficient viable pool")

	// ErrInvalidRequestCount is returned when the requested number of combinations is out of bounds.
	ErrInvalidRequestCount = errors.New("invalid request count")
)
