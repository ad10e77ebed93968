package rpc

import (
	"encoding/json"
	"math/big"

	"taprush/core/types"
	"taprush/native/turns"
	"taprush/native/verify"
)

type setVerificationParams struct {
	Caller   string `json:"caller"`
	Player   string `json:"player"`
	Tier     string `json:"tier"`
	Verified bool   `json:"verified"`
}

type updatePricingParams struct {
	Caller              string `json:"caller"`
	RefillCost          string `json:"refillCost"`
	PassCost            string `json:"passCost"`
	PassDurationSeconds uint64 `json:"passDurationSeconds"`
}

type updateMultipliersParams struct {
	Caller         string `json:"caller"`
	Document       uint32 `json:"document"`
	SecureDocument uint32 `json:"secureDocument"`
	Orb            uint32 `json:"orb"`
	OrbPlus        uint32 `json:"orbPlus"`
}

type setSubmitterParams struct {
	Caller     string `json:"caller"`
	Submitter  string `json:"submitter"`
	Authorized bool   `json:"authorized"`
}

type modeAdminParams struct {
	Caller string `json:"caller"`
	Mode   string `json:"mode"`
}

type callerParams struct {
	Caller string `json:"caller"`
}

type withdrawFeesParams struct {
	Caller string `json:"caller"`
	To     string `json:"to"`
}

func (s *Server) handleSetVerification(params []json.RawMessage) (interface{}, error) {
	var p setVerificationParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	caller, err := types.ParseAddress(p.Caller)
	if err != nil {
		return nil, err
	}
	player, err := types.ParseAddress(p.Player)
	if err != nil {
		return nil, err
	}
	tier, err := types.ParseVerificationTier(p.Tier)
	if err != nil {
		return nil, err
	}
	if err := s.node.SetVerification(caller, player, tier, p.Verified); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleUpdatePricing(params []json.RawMessage) (interface{}, error) {
	var p updatePricingParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	caller, err := types.ParseAddress(p.Caller)
	if err != nil {
		return nil, err
	}
	refill, ok := new(big.Int).SetString(p.RefillCost, 10)
	if !ok {
		return nil, errInvalidParams
	}
	pass, ok := new(big.Int).SetString(p.PassCost, 10)
	if !ok {
		return nil, errInvalidParams
	}
	pricing := turns.Pricing{RefillCost: refill, PassCost: pass, PassDuration: p.PassDurationSeconds}
	if err := s.node.UpdatePricing(caller, pricing); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleUpdateMultipliers(params []json.RawMessage) (interface{}, error) {
	var p updateMultipliersParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	caller, err := types.ParseAddress(p.Caller)
	if err != nil {
		return nil, err
	}
	table := verify.MultiplierTable{
		Document:       p.Document,
		SecureDocument: p.SecureDocument,
		Orb:            p.Orb,
		OrbPlus:        p.OrbPlus,
	}
	if err := s.node.UpdateVerificationMultipliers(caller, table); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleSetSubmitter(params []json.RawMessage) (interface{}, error) {
	var p setSubmitterParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	caller, err := types.ParseAddress(p.Caller)
	if err != nil {
		return nil, err
	}
	submitter, err := types.ParseAddress(p.Submitter)
	if err != nil {
		return nil, err
	}
	if err := s.node.SetAuthorizedSubmitter(caller, submitter, p.Authorized); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleClearLeaderboard(params []json.RawMessage) (interface{}, error) {
	var p modeAdminParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	caller, err := types.ParseAddress(p.Caller)
	if err != nil {
		return nil, err
	}
	mode, err := types.ParseGameMode(p.Mode)
	if err != nil {
		return nil, err
	}
	if err := s.node.ClearLeaderboard(caller, mode); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handlePause(params []json.RawMessage) (interface{}, error) {
	var p callerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	caller, err := types.ParseAddress(p.Caller)
	if err != nil {
		return nil, err
	}
	if err := s.node.Pause(caller); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleUnpause(params []json.RawMessage) (interface{}, error) {
	var p callerParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	caller, err := types.ParseAddress(p.Caller)
	if err != nil {
		return nil, err
	}
	if err := s.node.Unpause(caller); err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

func (s *Server) handleWithdrawFees(params []json.RawMessage) (interface{}, error) {
	var p withdrawFeesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	caller, err := types.ParseAddress(p.Caller)
	if err != nil {
		return nil, err
	}
	to, err := types.ParseAddress(p.To)
	if err != nil {
		return nil, err
	}
	amount, err := s.node.WithdrawFees(caller, to)
	if err != nil {
		return nil, err
	}
	return map[string]string{"withdrawn": amountString(amount)}, nil
}
