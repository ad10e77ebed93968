package rpc

import (
	"encoding/json"
	"math/big"

	"taprush/core/types"
	"taprush/native/turns"
)

type playerParams struct {
	Player string `json:"player"`
}

type startGameParams struct {
	Player string `json:"player"`
	Mode   string `json:"mode"`
}

type submitScoreParams struct {
	Submitter string `json:"submitter"`
	Player    string `json:"player"`
	Score     uint64 `json:"score"`
	Round     uint64 `json:"round"`
}

type turnStatusResult struct {
	Unlimited bool   `json:"unlimited"`
	Remaining uint32 `json:"remaining"`
}

type startGameResult struct {
	GameID uint64           `json:"gameId"`
	Mode   string           `json:"mode"`
	Turns  turnStatusResult `json:"turns"`
}

type submitScoreResult struct {
	GameID    uint64 `json:"gameId"`
	Mode      string `json:"mode"`
	Reward    string `json:"reward"`
	Rank      int    `json:"rank,omitempty"`
	Ranked    bool   `json:"ranked"`
	HighScore bool   `json:"highScore"`
}

func turnStatus(status turns.Status) turnStatusResult {
	return turnStatusResult{Unlimited: status.Unlimited, Remaining: status.Remaining}
}

func amountString(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}

func (s *Server) handleGameStart(params []json.RawMessage) (interface{}, error) {
	var p startGameParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	mode, err := types.ParseGameMode(p.Mode)
	if err != nil {
		return nil, err
	}
	receipt, err := s.node.StartGame(player, mode)
	if err != nil {
		return nil, err
	}
	return startGameResult{
		GameID: receipt.GameID,
		Mode:   receipt.Mode.String(),
		Turns:  turnStatus(receipt.Turns),
	}, nil
}

func (s *Server) handleSubmitScore(params []json.RawMessage) (interface{}, error) {
	var p submitScoreParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	submitter, err := types.ParseAddress(p.Submitter)
	if err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	receipt, err := s.node.SubmitScore(submitter, player, p.Score, p.Round)
	if err != nil {
		return nil, err
	}
	return submitScoreResult{
		GameID:    receipt.GameID,
		Mode:      receipt.Mode.String(),
		Reward:    amountString(receipt.Reward),
		Rank:      receipt.Rank,
		Ranked:    receipt.Ranked,
		HighScore: receipt.HighScore,
	}, nil
}

type leaderboardParams struct {
	Mode  string `json:"mode"`
	Count int    `json:"count,omitempty"`
}

type rankParams struct {
	Mode   string `json:"mode"`
	Player string `json:"player"`
}

type leaderboardEntryResult struct {
	Player    string `json:"player"`
	Score     uint64 `json:"score"`
	Timestamp uint64 `json:"timestamp"`
	Round     uint32 `json:"round"`
	GameID    uint64 `json:"gameId"`
	Rank      int    `json:"rank"`
}

func (s *Server) handleTopN(params []json.RawMessage) (interface{}, error) {
	var p leaderboardParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	mode, err := types.ParseGameMode(p.Mode)
	if err != nil {
		return nil, err
	}
	count := p.Count
	if count == 0 {
		count = 10
	}
	entries, err := s.node.TopN(mode, count)
	if err != nil {
		return nil, err
	}
	out := make([]leaderboardEntryResult, 0, len(entries))
	for i, entry := range entries {
		out = append(out, leaderboardEntryResult{
			Player:    entry.Player.Hex(),
			Score:     entry.Score,
			Timestamp: entry.Timestamp,
			Round:     entry.Round,
			GameID:    entry.GameID,
			Rank:      i + 1,
		})
	}
	return out, nil
}

func (s *Server) handleRankOf(params []json.RawMessage) (interface{}, error) {
	var p rankParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	mode, err := types.ParseGameMode(p.Mode)
	if err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	rank, err := s.node.RankOf(mode, player)
	if err != nil {
		return nil, err
	}
	return map[string]int{"rank": rank}, nil
}

type playerStatsResult struct {
	Player            string            `json:"player"`
	VerificationTier  string            `json:"verificationTier"`
	Verified          bool              `json:"verified"`
	Eligible          bool              `json:"eligible"`
	TotalGamesPlayed  uint64            `json:"totalGamesPlayed"`
	TotalPointsEarned uint64            `json:"totalPointsEarned"`
	HighScore         uint64            `json:"highScore"`
	Turns             turnStatusResult  `json:"turns"`
	ResetSeconds      uint64            `json:"resetSeconds"`
	Claim             claimStatusResult `json:"claim"`
	HasMigratedTokens bool              `json:"hasMigratedTokens"`
}

func (s *Server) handlePlayerStats(params []json.RawMessage) (interface{}, error) {
	var p playerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	stats, err := s.node.Stats(player)
	if err != nil {
		return nil, err
	}
	return playerStatsResult{
		Player:            stats.Player.Hex(),
		VerificationTier:  stats.VerificationTier.String(),
		Verified:          stats.Verified,
		Eligible:          stats.Eligible,
		TotalGamesPlayed:  stats.TotalGamesPlayed,
		TotalPointsEarned: stats.TotalPointsEarned,
		HighScore:         stats.HighScore,
		Turns:             turnStatus(stats.Turns),
		ResetSeconds:      uint64(stats.TimeUntilReset.Seconds()),
		Claim:             claimStatus(stats.Claim),
		HasMigratedTokens: stats.HasMigratedTokens,
	}, nil
}
