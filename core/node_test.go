package core

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taprush/core/events"
	"taprush/core/types"
	"taprush/native/claims"
	"taprush/native/common"
	"taprush/native/rewards"
	"taprush/native/token"
	"taprush/native/turns"
	"taprush/native/verify"
	"taprush/state"
	"taprush/storage"
)

func testAddr(n byte) types.Address {
	var a types.Address
	a[19] = n
	return a
}

var (
	owner     = testAddr(0xA0)
	oracle    = testAddr(0xA1)
	submitter = testAddr(0xA2)
	player    = testAddr(0x01)
)

// recorder captures the event stream for assertions.
type recorder struct {
	events []events.Event
}

func (r *recorder) Emit(evt events.Event) { r.events = append(r.events, evt) }

func (r *recorder) ofType(eventType string) []events.Event {
	var out []events.Event
	for _, evt := range r.events {
		if evt.EventType() == eventType {
			out = append(out, evt)
		}
	}
	return out
}

type testEnv struct {
	node   *Node
	mgr    *state.Manager
	ledger *token.KVLedger
	rec    *recorder
	now    time.Time
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

func newTestEnv(t *testing.T, opts ...NodeOption) *testEnv {
	t.Helper()
	db := storage.NewMemDB()
	env := &testEnv{
		mgr:    state.NewManager(db),
		ledger: token.NewKVLedger(db, DefaultModuleAccount()),
		rec:    &recorder{},
		now:    time.Unix(1_700_000_000, 0).UTC(),
	}
	base := []NodeOption{
		WithClock(func() time.Time { return env.now }),
		WithEmitter(env.rec),
		WithOracle(oracle),
	}
	node, err := NewNode(env.mgr, env.ledger, owner, append(base, opts...)...)
	require.NoError(t, err)
	require.NoError(t, node.SetAuthorizedSubmitter(owner, submitter, true))
	env.node = node
	return env
}

func (e *testEnv) verifyPlayer(t *testing.T, addr types.Address, tier types.VerificationTier) {
	t.Helper()
	require.NoError(t, e.node.SetVerification(oracle, addr, tier, true))
}

func (e *testEnv) fund(t *testing.T, addr types.Address, tokens int64) {
	t.Helper()
	require.NoError(t, e.ledger.Mint(addr, rewards.Units(tokens)))
}

func TestStartAndSubmitFlow(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierOrb)

	start, err := env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)
	require.Equal(t, uint64(1), start.GameID)
	require.Equal(t, uint32(2), start.Turns.Remaining)

	receipt, err := env.node.SubmitScore(submitter, player, 200, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(1), receipt.GameID)
	require.True(t, receipt.Ranked)
	require.Equal(t, 1, receipt.Rank)
	require.True(t, receipt.HighScore)

	// 200 points at 0.1 token, orb multiplier 150%.
	require.Zero(t, receipt.Reward.Cmp(rewards.Units(30)))
	balance, err := env.ledger.BalanceOf(player)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(rewards.Units(30)))

	stats, err := env.node.Stats(player)
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats.TotalGamesPlayed)
	require.Equal(t, uint64(200), stats.TotalPointsEarned)
	require.Equal(t, uint64(200), stats.HighScore)

	// Session settled; the next submission needs a new start.
	_, err = env.node.SubmitScore(submitter, player, 100, 1)
	require.ErrorIs(t, err, ErrNoActiveGame)

	rank, err := env.node.RankOf(types.ModeClassic, player)
	require.NoError(t, err)
	require.Equal(t, 1, rank)

	require.Len(t, env.rec.ofType(events.TypeGameStarted), 1)
	require.Len(t, env.rec.ofType(events.TypeGameScored), 1)
	require.Len(t, env.rec.ofType(events.TypeTokenMinted), 1)
}

func TestStartGameRequiresVerification(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.node.StartGame(player, types.ModeClassic)
	require.ErrorIs(t, err, verify.ErrVerificationRequired)

	// Device tier is below the floor even when verified.
	env.verifyPlayer(t, player, types.TierDevice)
	_, err = env.node.StartGame(player, types.ModeClassic)
	require.ErrorIs(t, err, verify.ErrVerificationRequired)

	env.verifyPlayer(t, player, types.TierDocument)
	_, err = env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)
}

func TestStartGameExhaustsTurns(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)

	for i := 0; i < turns.FreeTurnsPerDay; i++ {
		_, err := env.node.StartGame(player, types.ModeClassic)
		require.NoError(t, err)
	}
	_, err := env.node.StartGame(player, types.ModeClassic)
	require.ErrorIs(t, err, turns.ErrNoTurnsAvailable)

	// The rolling window restores the bucket.
	env.advance(turns.ResetInterval)
	_, err = env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)
}

func TestStartGameAbandonsPriorSession(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)

	first, err := env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)
	second, err := env.node.StartGame(player, types.ModeArcade)
	require.NoError(t, err)
	require.Equal(t, first.GameID+1, second.GameID)

	// The settlement binds to the most recent session and its mode.
	receipt, err := env.node.SubmitScore(submitter, player, 100, 1)
	require.NoError(t, err)
	require.Equal(t, second.GameID, receipt.GameID)
	require.Equal(t, types.ModeArcade, receipt.Mode)
}

func TestSubmitScoreGuards(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	_, err := env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)

	_, err = env.node.SubmitScore(testAddr(0x66), player, 100, 1)
	require.ErrorIs(t, err, ErrUnauthorizedSubmitter)

	_, err = env.node.SubmitScore(submitter, player, 0, 1)
	require.ErrorIs(t, err, ErrInvalidScore)

	_, err = env.node.SubmitScore(submitter, player, 100, 0)
	require.ErrorIs(t, err, ErrInvalidRound)
	_, err = env.node.SubmitScore(submitter, player, 100, MaxRound+1)
	require.ErrorIs(t, err, ErrInvalidRound)

	// Classic caps at 500 points per round.
	_, err = env.node.SubmitScore(submitter, player, 501, 1)
	require.ErrorIs(t, err, rewards.ErrImplausibleScore)

	// The owner may submit directly.
	_, err = env.node.SubmitScore(owner, player, 100, 1)
	require.NoError(t, err)
}

func TestSubmitScoreSupplyCapAbortsCleanly(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)

	// Push the supply to one token under the cap.
	sink := testAddr(0x77)
	require.NoError(t, env.ledger.Mint(sink, new(big.Int).Sub(rewards.MaxSupply(), rewards.Units(1))))

	_, err := env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)

	// 200 points would mint 20 tokens and burst the cap.
	_, err = env.node.SubmitScore(submitter, player, 200, 1)
	require.ErrorIs(t, err, rewards.ErrSupplyCapExceeded)

	// Nothing persisted: the session is still open and the board empty.
	acct, _, err := env.mgr.GetPlayer(player)
	require.NoError(t, err)
	require.NotZero(t, acct.ActiveGameID)
	require.Zero(t, acct.TotalGamesPlayed)
	board, err := env.mgr.Board(types.ModeClassic)
	require.NoError(t, err)
	require.Empty(t, board)

	// A mint that fits exactly still goes through.
	receipt, err := env.node.SubmitScore(submitter, player, 10, 1)
	require.NoError(t, err)
	require.Zero(t, receipt.Reward.Cmp(rewards.Units(1)))
}

func TestClaimDaily(t *testing.T) {
	env := newTestEnv(t)

	receipt, err := env.node.ClaimDaily(player)
	require.NoError(t, err)
	require.Equal(t, uint32(1), receipt.Streak)
	require.Zero(t, receipt.Amount.Cmp(rewards.Units(100)))

	_, err = env.node.ClaimDaily(player)
	require.ErrorIs(t, err, claims.ErrCooldownActive)

	env.advance(claims.Cooldown)
	receipt, err = env.node.ClaimDaily(player)
	require.NoError(t, err)
	require.Equal(t, uint32(2), receipt.Streak)
	require.Zero(t, receipt.Amount.Cmp(rewards.Units(110)))

	balance, err := env.ledger.BalanceOf(player)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(rewards.Units(210)))
}

func TestPurchaseRefill(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	env.fund(t, player, 100)

	// Refill is rejected while turns remain.
	_, err := env.node.PurchaseRefill(player)
	require.ErrorIs(t, err, turns.ErrTurnsRemaining)

	for i := 0; i < turns.FreeTurnsPerDay; i++ {
		_, err := env.node.StartGame(player, types.ModeClassic)
		require.NoError(t, err)
	}

	status, err := env.node.PurchaseRefill(player)
	require.NoError(t, err)
	require.Equal(t, uint32(turns.FreeTurnsPerDay), status.Remaining)

	// 5 token refill price moved into the fee account.
	balance, err := env.ledger.BalanceOf(player)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(rewards.Units(95)))
	fees, err := env.ledger.BalanceOf(DefaultModuleAccount())
	require.NoError(t, err)
	require.Zero(t, fees.Cmp(rewards.Units(5)))
}

func TestPurchaseRefillRequiresFunds(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	for i := 0; i < turns.FreeTurnsPerDay; i++ {
		_, err := env.node.StartGame(player, types.ModeClassic)
		require.NoError(t, err)
	}

	_, err := env.node.PurchaseRefill(player)
	require.ErrorIs(t, err, ErrTransferFailed)

	// The failed charge left the turn state untouched.
	status, err := env.node.AvailableTurns(player)
	require.NoError(t, err)
	require.Zero(t, status.Remaining)
}

func TestPurchasePass(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	env.fund(t, player, 100)

	expiry, err := env.node.PurchasePass(player)
	require.NoError(t, err)
	require.Equal(t, uint64(env.now.Add(7*24*time.Hour).Unix()), expiry)

	status, err := env.node.AvailableTurns(player)
	require.NoError(t, err)
	require.True(t, status.Unlimited)

	// Unlimited play while the window is open.
	for i := 0; i < 10; i++ {
		_, err := env.node.StartGame(player, types.ModeClassic)
		require.NoError(t, err)
	}

	// A second purchase overwrites the window instead of stacking.
	env.advance(time.Hour)
	second, err := env.node.PurchasePass(player)
	require.NoError(t, err)
	require.Equal(t, expiry+3600, second)

	balance, err := env.ledger.BalanceOf(player)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(big.NewInt(0)))
}

func TestWithdrawFees(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	env.fund(t, player, 100)

	_, err := env.node.WithdrawFees(owner, testAddr(0x55))
	require.ErrorIs(t, err, ErrNoFeesToWithdraw)

	_, err = env.node.PurchasePass(player)
	require.NoError(t, err)

	_, err = env.node.WithdrawFees(testAddr(0x66), testAddr(0x55))
	require.ErrorIs(t, err, ErrUnauthorized)

	amount, err := env.node.WithdrawFees(owner, testAddr(0x55))
	require.NoError(t, err)
	require.Zero(t, amount.Cmp(rewards.Units(50)))
	balance, err := env.ledger.BalanceOf(testAddr(0x55))
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(rewards.Units(50)))
}

type legacyMap map[types.Address]*big.Int

func (l legacyMap) BalanceOf(addr types.Address) (*big.Int, error) {
	if amount, ok := l[addr]; ok {
		return new(big.Int).Set(amount), nil
	}
	return big.NewInt(0), nil
}

func TestMigrateTokens(t *testing.T) {
	legacy := legacyMap{player: rewards.Units(42)}
	env := newTestEnv(t, WithLegacyBalances(legacy))

	amount, err := env.node.MigrateTokens(player)
	require.NoError(t, err)
	require.Zero(t, amount.Cmp(rewards.Units(42)))
	balance, err := env.ledger.BalanceOf(player)
	require.NoError(t, err)
	require.Zero(t, balance.Cmp(rewards.Units(42)))

	// Strictly once, even though the legacy ledger still reports a balance.
	_, err = env.node.MigrateTokens(player)
	require.ErrorIs(t, err, ErrAlreadyMigrated)

	// No legacy funds, no migration flag flip.
	other := testAddr(0x09)
	_, err = env.node.MigrateTokens(other)
	require.ErrorIs(t, err, ErrNoFundsToMigrate)
	acct, _, err := env.mgr.GetPlayer(other)
	require.NoError(t, err)
	require.False(t, acct.HasMigratedTokens)
}

func TestMigrateWithoutLegacyLedger(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.node.MigrateTokens(player)
	require.ErrorIs(t, err, ErrNoFundsToMigrate)
}

func TestPauseBlocksPlayerMutations(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	require.NoError(t, env.node.Pause(owner))

	_, err := env.node.StartGame(player, types.ModeClassic)
	require.ErrorIs(t, err, common.ErrModulePaused)
	_, err = env.node.ClaimDaily(player)
	require.ErrorIs(t, err, common.ErrModulePaused)
	_, err = env.node.PurchasePass(player)
	require.ErrorIs(t, err, common.ErrModulePaused)

	// Reads and admin stay live while paused.
	_, err = env.node.Stats(player)
	require.NoError(t, err)
	require.NoError(t, env.node.Unpause(owner))

	_, err = env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)
}

func TestAdminAuthorization(t *testing.T) {
	env := newTestEnv(t)
	outsider := testAddr(0x66)

	require.ErrorIs(t, env.node.Pause(outsider), ErrUnauthorized)
	require.ErrorIs(t, env.node.UpdatePricing(outsider, turns.DefaultPricing()), ErrUnauthorized)
	require.ErrorIs(t, env.node.UpdateVerificationMultipliers(outsider, verify.DefaultMultiplierTable()), ErrUnauthorized)
	require.ErrorIs(t, env.node.SetAuthorizedSubmitter(outsider, outsider, true), ErrUnauthorized)
	require.ErrorIs(t, env.node.ClearLeaderboard(outsider, types.ModeClassic), ErrUnauthorized)
	require.ErrorIs(t, env.node.SetVerification(outsider, player, types.TierOrb, true), ErrUnauthorized)

	// The oracle may attest but not administer.
	require.NoError(t, env.node.SetVerification(oracle, player, types.TierOrb, true))
	require.ErrorIs(t, env.node.Pause(oracle), ErrUnauthorized)
}

func TestUpdateMultipliersRejectsBrokenTable(t *testing.T) {
	env := newTestEnv(t)

	bad := verify.MultiplierTable{Document: 100, SecureDocument: 140, Orb: 120, OrbPlus: 200}
	require.ErrorIs(t, env.node.UpdateVerificationMultipliers(owner, bad), verify.ErrInvalidMultiplierBounds)

	// The live table is unchanged.
	require.Equal(t, verify.DefaultMultiplierTable(), env.node.VerificationMultipliers())

	good := verify.MultiplierTable{Document: 100, SecureDocument: 110, Orb: 130, OrbPlus: 180}
	require.NoError(t, env.node.UpdateVerificationMultipliers(owner, good))
	require.Equal(t, good, env.node.VerificationMultipliers())
}

func TestClearLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	_, err := env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)
	_, err = env.node.SubmitScore(submitter, player, 100, 1)
	require.NoError(t, err)

	require.NoError(t, env.node.ClearLeaderboard(owner, types.ModeClassic))
	rank, err := env.node.RankOf(types.ModeClassic, player)
	require.NoError(t, err)
	require.Zero(t, rank)
}

func TestRevokedSubmitterRejected(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	_, err := env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)

	require.NoError(t, env.node.SetAuthorizedSubmitter(owner, submitter, false))
	_, err = env.node.SubmitScore(submitter, player, 100, 1)
	require.ErrorIs(t, err, ErrUnauthorizedSubmitter)
}

// reentrantLedger re-enters the engine from inside the mint callback, the way
// a malicious token contract would.
type reentrantLedger struct {
	*token.KVLedger
	node    *Node
	attempt error
}

func (l *reentrantLedger) Mint(to types.Address, amount *big.Int) error {
	if l.node != nil {
		_, l.attempt = l.node.ClaimDaily(to)
	}
	return l.KVLedger.Mint(to, amount)
}

func TestReentrantMintRejected(t *testing.T) {
	db := storage.NewMemDB()
	mgr := state.NewManager(db)
	ledger := &reentrantLedger{KVLedger: token.NewKVLedger(db, DefaultModuleAccount())}

	node, err := NewNode(mgr, ledger, owner, WithOracle(oracle))
	require.NoError(t, err)
	ledger.node = node

	// The outer claim succeeds; the nested call inside Mint is rejected by the
	// call guard instead of deadlocking.
	_, err = node.ClaimDaily(player)
	require.NoError(t, err)
	require.ErrorIs(t, ledger.attempt, common.ErrReentrantCall)
}

func TestNodeRestartRestoresState(t *testing.T) {
	db := storage.NewMemDB()
	env := &testEnv{
		mgr:    state.NewManager(db),
		ledger: token.NewKVLedger(db, DefaultModuleAccount()),
		rec:    &recorder{},
		now:    time.Unix(1_700_000_000, 0).UTC(),
	}
	node, err := NewNode(env.mgr, env.ledger, owner,
		WithClock(func() time.Time { return env.now }),
		WithOracle(oracle),
	)
	require.NoError(t, err)
	env.node = node

	require.NoError(t, node.SetAuthorizedSubmitter(owner, submitter, true))
	require.NoError(t, node.Pause(owner))
	pricing := turns.Pricing{RefillCost: rewards.Units(7), PassCost: rewards.Units(70), PassDuration: 3600}
	require.NoError(t, node.UpdatePricing(owner, pricing))

	// A fresh node over the same store sees the persisted configuration.
	restarted, err := NewNode(env.mgr, env.ledger, owner,
		WithClock(func() time.Time { return env.now }),
		WithOracle(oracle),
	)
	require.NoError(t, err)
	require.True(t, restarted.IsPaused("game"))
	require.Zero(t, restarted.CurrentPricing().RefillCost.Cmp(rewards.Units(7)))

	// The submitter grant survived the restart: the submission gets past the
	// authorization check and fails only on the missing session.
	require.NoError(t, restarted.Unpause(owner))
	_, err = restarted.SubmitScore(submitter, player, 100, 1)
	require.ErrorIs(t, err, ErrNoActiveGame)
}

func TestContractStats(t *testing.T) {
	env := newTestEnv(t)
	env.verifyPlayer(t, player, types.TierDocument)
	_, err := env.node.StartGame(player, types.ModeClassic)
	require.NoError(t, err)
	_, err = env.node.SubmitScore(submitter, player, 100, 1)
	require.NoError(t, err)

	stats, err := env.node.ContractStats()
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats.TotalGames)
	require.Equal(t, uint64(1), stats.TotalPlayers)
	require.Zero(t, stats.MaxSupply.Cmp(rewards.MaxSupply()))
	require.Zero(t, stats.TotalSupply.Cmp(rewards.Units(10)))
}
