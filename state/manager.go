package state

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"taprush/core/types"
	"taprush/native/turns"
	"taprush/native/verify"
	"taprush/storage"
)

const (
	playerPrefix = "player:"
	boardPrefix  = "board:"

	lastGameIDKey   = "counter:last_game_id"
	totalGamesKey   = "counter:total_games"
	totalPlayersKey = "counter:total_players"

	multipliersKey = "config:multipliers"
	pricingKey     = "config:pricing"
	pausedKey      = "config:paused"
	submittersKey  = "config:submitters"
)

// Manager persists the engine state as one record per key. The engine
// serializes all writes behind its own mutex, so the manager performs no
// locking of its own.
type Manager struct {
	db storage.Database
}

// NewManager wraps the given store.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// GetPlayer loads a player record. Missing records resolve to the zero state
// with created=false; they are materialised on first write.
func (m *Manager) GetPlayer(addr types.Address) (*types.PlayerAccount, bool, error) {
	raw, err := m.db.Get(playerKey(addr))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return &types.PlayerAccount{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	acct := &types.PlayerAccount{}
	if err := json.Unmarshal(raw, acct); err != nil {
		return nil, false, fmt.Errorf("state: corrupt player record %s: %w", addr.Hex(), err)
	}
	return acct, true, nil
}

// PutPlayer stores a player record, bumping the player counter when the
// record is new.
func (m *Manager) PutPlayer(addr types.Address, acct *types.PlayerAccount) error {
	if acct == nil {
		return fmt.Errorf("state: nil player record")
	}
	exists, err := m.db.Has(playerKey(addr))
	if err != nil {
		return err
	}
	raw, err := json.Marshal(acct)
	if err != nil {
		return err
	}
	if err := m.db.Put(playerKey(addr), raw); err != nil {
		return err
	}
	if !exists {
		total, err := m.counter(totalPlayersKey)
		if err != nil {
			return err
		}
		return m.setCounter(totalPlayersKey, total+1)
	}
	return nil
}

// Board loads a mode's leaderboard snapshot. Missing boards are empty.
func (m *Manager) Board(mode types.GameMode) ([]types.LeaderboardEntry, error) {
	raw, err := m.db.Get(boardKey(mode))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []types.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("state: corrupt board %s: %w", mode, err)
	}
	return entries, nil
}

// PutBoard stores a mode's leaderboard snapshot.
func (m *Manager) PutBoard(mode types.GameMode, entries []types.LeaderboardEntry) error {
	if entries == nil {
		entries = []types.LeaderboardEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return m.db.Put(boardKey(mode), raw)
}

// LastGameID returns the most recently issued game identifier (0 before the
// first game).
func (m *Manager) LastGameID() (uint64, error) {
	return m.counter(lastGameIDKey)
}

// SetLastGameID stores the identifier watermark.
func (m *Manager) SetLastGameID(id uint64) error {
	return m.setCounter(lastGameIDKey, id)
}

// TotalGames returns the number of settled games.
func (m *Manager) TotalGames() (uint64, error) {
	return m.counter(totalGamesKey)
}

// SetTotalGames stores the settled game count.
func (m *Manager) SetTotalGames(total uint64) error {
	return m.setCounter(totalGamesKey, total)
}

// TotalPlayers returns the number of materialised player records.
func (m *Manager) TotalPlayers() (uint64, error) {
	return m.counter(totalPlayersKey)
}

// MultiplierTable loads the persisted table, falling back to the default.
func (m *Manager) MultiplierTable() (verify.MultiplierTable, error) {
	raw, err := m.db.Get([]byte(multipliersKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return verify.DefaultMultiplierTable(), nil
	}
	if err != nil {
		return verify.MultiplierTable{}, err
	}
	var table verify.MultiplierTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return verify.MultiplierTable{}, fmt.Errorf("state: corrupt multiplier table: %w", err)
	}
	return table, nil
}

// SetMultiplierTable stores the table.
func (m *Manager) SetMultiplierTable(table verify.MultiplierTable) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return m.db.Put([]byte(multipliersKey), raw)
}

// Pricing loads the persisted pricing, falling back to the default.
func (m *Manager) Pricing() (turns.Pricing, error) {
	raw, err := m.db.Get([]byte(pricingKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return turns.DefaultPricing(), nil
	}
	if err != nil {
		return turns.Pricing{}, err
	}
	var pricing turns.Pricing
	if err := json.Unmarshal(raw, &pricing); err != nil {
		return turns.Pricing{}, fmt.Errorf("state: corrupt pricing: %w", err)
	}
	return pricing, nil
}

// SetPricing stores the pricing.
func (m *Manager) SetPricing(pricing turns.Pricing) error {
	raw, err := json.Marshal(pricing)
	if err != nil {
		return err
	}
	return m.db.Put([]byte(pricingKey), raw)
}

// Paused loads the administrative pause switch.
func (m *Manager) Paused() (bool, error) {
	raw, err := m.db.Get([]byte(pausedKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(raw) == 1 && raw[0] == 1, nil
}

// SetPaused stores the administrative pause switch.
func (m *Manager) SetPaused(paused bool) error {
	value := []byte{0}
	if paused {
		value[0] = 1
	}
	return m.db.Put([]byte(pausedKey), value)
}

// Submitters loads the authorized score-submitter set.
func (m *Manager) Submitters() (map[types.Address]bool, error) {
	set := make(map[types.Address]bool)
	raw, err := m.db.Get([]byte(submittersKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return set, nil
	}
	if err != nil {
		return nil, err
	}
	var list []types.Address
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("state: corrupt submitter set: %w", err)
	}
	for _, addr := range list {
		set[addr] = true
	}
	return set, nil
}

// SetSubmitters stores the authorized score-submitter set.
func (m *Manager) SetSubmitters(set map[types.Address]bool) error {
	list := make([]types.Address, 0, len(set))
	for addr, ok := range set {
		if ok {
			list = append(list, addr)
		}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return m.db.Put([]byte(submittersKey), raw)
}

func (m *Manager) counter(key string) (uint64, error) {
	raw, err := m.db.Get([]byte(key))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(raw) != 8 {
		return 0, fmt.Errorf("state: corrupt counter %q", key)
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (m *Manager) setCounter(key string, value uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, value)
	return m.db.Put([]byte(key), buf)
}

func playerKey(addr types.Address) []byte {
	return append([]byte(playerPrefix), addr.Bytes()...)
}

func boardKey(mode types.GameMode) []byte {
	return []byte(boardPrefix + mode.String())
}
