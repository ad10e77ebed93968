package leaderboard

import "errors"

var (
	// ErrIndexOutOfBounds signals a board invariant breach. It must never be
	// reachable through normal inputs.
	ErrIndexOutOfBounds = errors.New("leaderboard: index out of bounds")
	ErrInvalidLimit     = errors.New("leaderboard: invalid limit")
)
