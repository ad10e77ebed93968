package events

import (
	"strconv"

	"taprush/core/types"
)

const (
	// TypeRankChanged is emitted when a submission lands on a leaderboard.
	TypeRankChanged = "leaderboard.rank_changed"
	// TypeLeaderboardCleared is emitted on an administrative board reset.
	TypeLeaderboardCleared = "leaderboard.cleared"
)

// RankChanged captures a player's new 1-based position on a mode board.
type RankChanged struct {
	Player types.Address
	Mode   types.GameMode
	Rank   int
	Score  uint64
	GameID uint64
}

func (RankChanged) EventType() string { return TypeRankChanged }

// Event renders the structured form for downstream consumers.
func (e RankChanged) Event() *types.Event {
	return &types.Event{Type: TypeRankChanged, Attributes: map[string]string{
		"player": e.Player.Hex(),
		"mode":   e.Mode.String(),
		"rank":   strconv.Itoa(e.Rank),
		"score":  strconv.FormatUint(e.Score, 10),
		"gameId": strconv.FormatUint(e.GameID, 10),
	}}
}

// LeaderboardCleared captures an administrative reset of a mode board.
type LeaderboardCleared struct {
	Mode    types.GameMode
	Entries int
}

func (LeaderboardCleared) EventType() string { return TypeLeaderboardCleared }

// Event renders the structured form for downstream consumers.
func (e LeaderboardCleared) Event() *types.Event {
	return &types.Event{Type: TypeLeaderboardCleared, Attributes: map[string]string{
		"mode":    e.Mode.String(),
		"entries": strconv.Itoa(e.Entries),
	}}
}
