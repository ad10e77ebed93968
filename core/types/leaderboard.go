package types

// LeaderboardEntry is a player's currently-retained score record for one game
// mode. GameID is globally unique and monotonically increasing from 1.
type LeaderboardEntry struct {
	Player    Address  `json:"player"`
	Score     uint64   `json:"score"`
	Timestamp uint64   `json:"timestamp"`
	Round     uint32   `json:"round"`
	Mode      GameMode `json:"mode"`
	GameID    uint64   `json:"gameId"`
}

// CloneEntries deep-copies a board snapshot.
func CloneEntries(entries []LeaderboardEntry) []LeaderboardEntry {
	if entries == nil {
		return nil
	}
	return append([]LeaderboardEntry(nil), entries...)
}
