package state

import (
	"math/big"
	"reflect"
	"testing"

	"taprush/core/types"
	"taprush/native/turns"
	"taprush/native/verify"
	"taprush/storage"
)

func testAddr(n byte) types.Address {
	var a types.Address
	a[19] = n
	return a
}

func TestPlayerRoundTrip(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	alice := testAddr(1)

	acct, created, err := mgr.GetPlayer(alice)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if created {
		t.Fatalf("missing record reported as created")
	}
	if !reflect.DeepEqual(acct, &types.PlayerAccount{}) {
		t.Fatalf("missing record not zero: %+v", acct)
	}

	acct.VerificationTier = types.TierOrb
	acct.Verified = true
	acct.HighScore = 420
	acct.ActiveGameID = 7
	if err := mgr.PutPlayer(alice, acct); err != nil {
		t.Fatalf("put: %v", err)
	}

	loaded, created, err := mgr.GetPlayer(alice)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !created {
		t.Fatalf("stored record reported as missing")
	}
	if !reflect.DeepEqual(loaded, acct) {
		t.Fatalf("round trip mismatch: %+v != %+v", loaded, acct)
	}
}

func TestPlayerCounterBumpsOnFirstWriteOnly(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())
	alice := testAddr(1)

	if err := mgr.PutPlayer(alice, &types.PlayerAccount{}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := mgr.PutPlayer(alice, &types.PlayerAccount{HighScore: 10}); err != nil {
		t.Fatalf("second put: %v", err)
	}
	total, err := mgr.TotalPlayers()
	if err != nil {
		t.Fatalf("total players: %v", err)
	}
	if total != 1 {
		t.Fatalf("total players = %d, want 1", total)
	}
}

func TestBoardRoundTrip(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())

	board, err := mgr.Board(types.ModeClassic)
	if err != nil {
		t.Fatalf("missing board: %v", err)
	}
	if len(board) != 0 {
		t.Fatalf("missing board not empty")
	}

	entries := []types.LeaderboardEntry{
		{Player: testAddr(1), Score: 300, Round: 3, Mode: types.ModeClassic, GameID: 1},
		{Player: testAddr(2), Score: 200, Round: 2, Mode: types.ModeClassic, GameID: 2},
	}
	if err := mgr.PutBoard(types.ModeClassic, entries); err != nil {
		t.Fatalf("put board: %v", err)
	}
	loaded, err := mgr.Board(types.ModeClassic)
	if err != nil {
		t.Fatalf("reload board: %v", err)
	}
	if !reflect.DeepEqual(loaded, entries) {
		t.Fatalf("board mismatch: %+v != %+v", loaded, entries)
	}

	// Boards are per mode.
	other, err := mgr.Board(types.ModeArcade)
	if err != nil {
		t.Fatalf("arcade board: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("arcade board leaked classic entries")
	}
}

func TestCounters(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())

	id, err := mgr.LastGameID()
	if err != nil {
		t.Fatalf("last game id: %v", err)
	}
	if id != 0 {
		t.Fatalf("fresh id = %d, want 0", id)
	}
	if err := mgr.SetLastGameID(41); err != nil {
		t.Fatalf("set id: %v", err)
	}
	if id, _ = mgr.LastGameID(); id != 41 {
		t.Fatalf("id = %d, want 41", id)
	}

	if err := mgr.SetTotalGames(9); err != nil {
		t.Fatalf("set games: %v", err)
	}
	if games, _ := mgr.TotalGames(); games != 9 {
		t.Fatalf("games = %d, want 9", games)
	}
}

func TestConfigFallbacks(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())

	pricing, err := mgr.Pricing()
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if !reflect.DeepEqual(pricing, turns.DefaultPricing()) {
		t.Fatalf("missing pricing did not fall back to default")
	}

	table, err := mgr.MultiplierTable()
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if table != verify.DefaultMultiplierTable() {
		t.Fatalf("missing table did not fall back to default")
	}

	paused, err := mgr.Paused()
	if err != nil || paused {
		t.Fatalf("fresh pause state = %v, %v", paused, err)
	}
}

func TestConfigRoundTrips(t *testing.T) {
	mgr := NewManager(storage.NewMemDB())

	pricing := turns.Pricing{
		RefillCost:   big.NewInt(123),
		PassCost:     big.NewInt(456),
		PassDuration: 3600,
	}
	if err := mgr.SetPricing(pricing); err != nil {
		t.Fatalf("set pricing: %v", err)
	}
	loaded, err := mgr.Pricing()
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if loaded.RefillCost.Cmp(pricing.RefillCost) != 0 || loaded.PassDuration != 3600 {
		t.Fatalf("pricing mismatch: %+v", loaded)
	}

	table := verify.MultiplierTable{Document: 100, SecureDocument: 110, Orb: 130, OrbPlus: 180}
	if err := mgr.SetMultiplierTable(table); err != nil {
		t.Fatalf("set table: %v", err)
	}
	if got, _ := mgr.MultiplierTable(); got != table {
		t.Fatalf("table mismatch: %+v", got)
	}

	if err := mgr.SetPaused(true); err != nil {
		t.Fatalf("set paused: %v", err)
	}
	if paused, _ := mgr.Paused(); !paused {
		t.Fatalf("pause flag lost")
	}

	set := map[types.Address]bool{testAddr(1): true, testAddr(2): true, testAddr(3): false}
	if err := mgr.SetSubmitters(set); err != nil {
		t.Fatalf("set submitters: %v", err)
	}
	got, err := mgr.Submitters()
	if err != nil {
		t.Fatalf("submitters: %v", err)
	}
	if len(got) != 2 || !got[testAddr(1)] || !got[testAddr(2)] {
		t.Fatalf("submitter set mismatch: %+v", got)
	}
}
