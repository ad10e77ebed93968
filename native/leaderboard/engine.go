package leaderboard

import (
	"fmt"

	"taprush/core/types"
)

const (
	// Capacity bounds each mode's board.
	Capacity = 100
	// MaxTopN bounds a single prefix read.
	MaxTopN = 50
)

// Result describes the outcome of a submission. When Ranked is false the
// entry scored too low for a full board and was discarded.
type Result struct {
	Entries []types.LeaderboardEntry
	Rank    int
	Ranked  bool
}

// Submit places an entry on a board snapshot and returns the updated board.
// The input slice is never mutated; the caller commits the returned entries
// atomically with the rest of the operation.
//
// Semantics, deliberately preserved from the deployed economy:
//   - one slot per player: a later submission replaces the player's prior
//     entry even when the new score is lower (latest run wins, not best run);
//   - equal scores rank after existing equal entries, so earlier submissions
//     keep their position on ties.
func Submit(entries []types.LeaderboardEntry, entry types.LeaderboardEntry) (Result, error) {
	if len(entries) > Capacity {
		return Result{}, fmt.Errorf("%w: board length %d exceeds capacity %d", ErrIndexOutOfBounds, len(entries), Capacity)
	}
	board := make([]types.LeaderboardEntry, 0, len(entries)+1)
	for _, existing := range entries {
		if existing.Player == entry.Player {
			continue
		}
		board = append(board, existing)
	}

	idx := len(board)
	for i := range board {
		if entry.Score > board[i].Score {
			idx = i
			break
		}
	}
	if idx >= Capacity {
		return Result{Entries: types.CloneEntries(entries)}, nil
	}

	board = append(board, types.LeaderboardEntry{})
	copy(board[idx+1:], board[idx:])
	board[idx] = entry
	if len(board) > Capacity {
		board = board[:Capacity]
	}
	return Result{Entries: board, Rank: idx + 1, Ranked: true}, nil
}

// TopN returns the first n entries of a board snapshot.
func TopN(entries []types.LeaderboardEntry, n int) ([]types.LeaderboardEntry, error) {
	if n <= 0 || n > MaxTopN {
		return nil, fmt.Errorf("%w: n must lie in [1, %d], got %d", ErrInvalidLimit, MaxTopN, n)
	}
	if n > len(entries) {
		n = len(entries)
	}
	return types.CloneEntries(entries[:n]), nil
}

// RankOf returns the player's 1-based rank, or 0 when absent.
func RankOf(entries []types.LeaderboardEntry, player types.Address) int {
	for i := range entries {
		if entries[i].Player == player {
			return i + 1
		}
	}
	return 0
}

// Validate checks the board invariants: bounded length, non-increasing
// scores, at most one entry per player.
func Validate(entries []types.LeaderboardEntry) error {
	if len(entries) > Capacity {
		return fmt.Errorf("%w: board length %d exceeds capacity %d", ErrIndexOutOfBounds, len(entries), Capacity)
	}
	seen := make(map[types.Address]struct{}, len(entries))
	for i := range entries {
		if i > 0 && entries[i].Score > entries[i-1].Score {
			return fmt.Errorf("%w: entry %d out of order", ErrIndexOutOfBounds, i)
		}
		if _, dup := seen[entries[i].Player]; dup {
			return fmt.Errorf("%w: duplicate player %s", ErrIndexOutOfBounds, entries[i].Player.Hex())
		}
		seen[entries[i].Player] = struct{}{}
	}
	return nil
}
