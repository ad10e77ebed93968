package rpc

import (
	"encoding/json"

	"taprush/core/types"
	"taprush/native/claims"
)

type claimStatusResult struct {
	CanClaim         bool   `json:"canClaim"`
	RemainingSeconds uint64 `json:"remainingSeconds"`
	Streak           uint32 `json:"streak"`
	NextReward       string `json:"nextReward"`
}

func claimStatus(status claims.Status) claimStatusResult {
	return claimStatusResult{
		CanClaim:         status.CanClaim,
		RemainingSeconds: uint64(status.TimeRemaining.Seconds()),
		Streak:           status.Streak,
		NextReward:       amountString(status.NextReward),
	}
}

func (s *Server) handleClaimStatus(params []json.RawMessage) (interface{}, error) {
	var p playerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	status, err := s.node.DailyClaimStatus(player)
	if err != nil {
		return nil, err
	}
	return claimStatus(status), nil
}

func (s *Server) handleClaim(params []json.RawMessage) (interface{}, error) {
	var p playerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	receipt, err := s.node.ClaimDaily(player)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"amount": amountString(receipt.Amount),
		"streak": receipt.Streak,
	}, nil
}

func (s *Server) handleAvailableTurns(params []json.RawMessage) (interface{}, error) {
	var p playerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	status, err := s.node.AvailableTurns(player)
	if err != nil {
		return nil, err
	}
	return turnStatus(status), nil
}

func (s *Server) handleTimeUntilReset(params []json.RawMessage) (interface{}, error) {
	var p playerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	remaining, err := s.node.TimeUntilReset(player)
	if err != nil {
		return nil, err
	}
	return map[string]uint64{"resetSeconds": uint64(remaining.Seconds())}, nil
}

func (s *Server) handlePurchaseRefill(params []json.RawMessage) (interface{}, error) {
	var p playerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	status, err := s.node.PurchaseRefill(player)
	if err != nil {
		return nil, err
	}
	return turnStatus(status), nil
}

func (s *Server) handlePurchasePass(params []json.RawMessage) (interface{}, error) {
	var p playerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	expiry, err := s.node.PurchasePass(player)
	if err != nil {
		return nil, err
	}
	return map[string]uint64{"expiresAt": expiry}, nil
}

func (s *Server) handleMigrate(params []json.RawMessage) (interface{}, error) {
	var p playerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	amount, err := s.node.MigrateTokens(player)
	if err != nil {
		return nil, err
	}
	return map[string]string{"migrated": amountString(amount)}, nil
}

func (s *Server) handlePricing(params []json.RawMessage) (interface{}, error) {
	pricing := s.node.CurrentPricing()
	return map[string]interface{}{
		"refillCost":          amountString(pricing.RefillCost),
		"passCost":            amountString(pricing.PassCost),
		"passDurationSeconds": pricing.PassDuration,
	}, nil
}

func (s *Server) handleMultipliers(params []json.RawMessage) (interface{}, error) {
	table := s.node.VerificationMultipliers()
	return map[string]uint32{
		"document":       table.Document,
		"secureDocument": table.SecureDocument,
		"orb":            table.Orb,
		"orbPlus":        table.OrbPlus,
	}, nil
}

func (s *Server) handleContractStats(params []json.RawMessage) (interface{}, error) {
	stats, err := s.node.ContractStats()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"totalSupply":  amountString(stats.TotalSupply),
		"maxSupply":    amountString(stats.MaxSupply),
		"totalGames":   stats.TotalGames,
		"totalPlayers": stats.TotalPlayers,
	}, nil
}
