package turns

import "errors"

var (
	ErrNoTurnsAvailable = errors.New("turns: no turns available")
	ErrTurnsRemaining   = errors.New("turns: turns still available")
)
