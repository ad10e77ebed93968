package core

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"taprush/core/events"
	"taprush/core/types"
	"taprush/native/claims"
	"taprush/native/common"
	"taprush/native/rewards"
	"taprush/native/token"
	"taprush/native/turns"
	"taprush/native/verify"
	"taprush/state"
)

// moduleGame names the pausable surface covering every player-facing
// mutation.
const moduleGame = "game"

// MaxRound bounds the attested round number on score submission.
const MaxRound = 1000

// defaultModuleAccount is the fee sink and TransferFrom operator used when no
// explicit module account is configured.
var defaultModuleAccount = func() types.Address {
	var addr types.Address
	copy(addr[:], "taprush:module:fees")
	return addr
}()

// DefaultModuleAccount returns the built-in fee sink address.
func DefaultModuleAccount() types.Address {
	return defaultModuleAccount
}

// Node is the reward-economy engine. Every public operation is serialized
// behind one mutex so the supply-cap check-then-mint and the leaderboard
// scan-then-splice are never observed half-applied. Mutations are staged on
// copies and persisted only after every guard and external call has
// succeeded.
type Node struct {
	mu    sync.Mutex
	calls common.CallGuard

	state   *state.Manager
	ledger  token.Ledger
	legacy  token.LegacyBalances
	emitter events.Emitter
	clock   func() time.Time

	owner         types.Address
	oracle        types.Address
	moduleAccount types.Address

	rewardCfg rewards.Config
	claimCfg  claims.Config

	// Write-through caches of persisted configuration.
	pricing     turns.Pricing
	multipliers verify.MultiplierTable
	submitters  map[types.Address]bool
	paused      bool
}

// NodeOption customises Node construction.
type NodeOption func(*Node)

// WithClock injects the time source. Domain timeouts are pure comparisons
// against this clock, never scheduled tasks.
func WithClock(clock func() time.Time) NodeOption {
	return func(n *Node) { n.clock = clock }
}

// WithEmitter wires the event sink.
func WithEmitter(emitter events.Emitter) NodeOption {
	return func(n *Node) { n.emitter = emitter }
}

// WithLegacyBalances wires the pre-migration ledger view consumed by the
// one-shot token migration.
func WithLegacyBalances(legacy token.LegacyBalances) NodeOption {
	return func(n *Node) { n.legacy = legacy }
}

// WithOracle authorizes the identity-verification oracle address.
func WithOracle(oracle types.Address) NodeOption {
	return func(n *Node) { n.oracle = oracle }
}

// WithModuleAccount overrides the fee sink / TransferFrom operator address.
func WithModuleAccount(addr types.Address) NodeOption {
	return func(n *Node) { n.moduleAccount = addr }
}

// WithRewardConfig overrides the reward calculator parameters.
func WithRewardConfig(cfg rewards.Config) NodeOption {
	return func(n *Node) { n.rewardCfg = cfg.Clone() }
}

// WithClaimConfig overrides the daily claim parameters.
func WithClaimConfig(cfg claims.Config) NodeOption {
	return func(n *Node) { n.claimCfg = cfg.Clone() }
}

// NewNode wires the engine over its persisted state and token capability.
func NewNode(mgr *state.Manager, ledger token.Ledger, owner types.Address, opts ...NodeOption) (*Node, error) {
	if mgr == nil {
		return nil, fmt.Errorf("core: state manager required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("core: token ledger required")
	}
	n := &Node{
		state:         mgr,
		ledger:        ledger,
		emitter:       events.NoopEmitter{},
		clock:         time.Now,
		owner:         owner,
		moduleAccount: defaultModuleAccount,
		rewardCfg:     rewards.DefaultConfig(),
		claimCfg:      claims.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if err := n.rewardCfg.Validate(); err != nil {
		return nil, err
	}
	if err := n.claimCfg.Validate(); err != nil {
		return nil, err
	}

	var err error
	if n.pricing, err = mgr.Pricing(); err != nil {
		return nil, err
	}
	if n.multipliers, err = mgr.MultiplierTable(); err != nil {
		return nil, err
	}
	if n.submitters, err = mgr.Submitters(); err != nil {
		return nil, err
	}
	if n.paused, err = mgr.Paused(); err != nil {
		return nil, err
	}
	if err := n.pricing.Validate(); err != nil {
		return nil, err
	}
	if err := n.multipliers.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// IsPaused implements the pause view consumed by the module guard.
func (n *Node) IsPaused(module string) bool {
	return module == moduleGame && n.paused
}

func (n *Node) now() time.Time {
	return n.clock().UTC()
}

func (n *Node) emit(evt events.Event) {
	if n.emitter != nil {
		n.emitter.Emit(evt)
	}
}

// enter rejects re-entrant calls arriving while an external capability call
// is in flight, before the caller would block on the engine mutex.
func (n *Node) enter() error {
	if n.calls.Held() {
		return common.ErrReentrantCall
	}
	return nil
}

// mintChecked verifies the hard supply cap immediately before minting. The
// caller holds the engine mutex, so the check-then-act cannot interleave with
// another mint; the call guard covers the external ledger round trips.
func (n *Node) mintChecked(to types.Address, amount *big.Int) (*big.Int, error) {
	if err := n.calls.Begin(); err != nil {
		return nil, err
	}
	defer n.calls.End()
	total, err := n.ledger.TotalSupply()
	if err != nil {
		return nil, fmt.Errorf("%w: total supply: %v", ErrTransferFailed, err)
	}
	if err := rewards.CheckSupply(total, amount); err != nil {
		return nil, err
	}
	if err := n.ledger.Mint(to, amount); err != nil {
		return nil, fmt.Errorf("%w: mint: %v", ErrTransferFailed, err)
	}
	return new(big.Int).Add(total, amount), nil
}

// charge pulls a payment from the player into the module fee account.
func (n *Node) charge(player types.Address, amount *big.Int) error {
	if err := n.calls.Begin(); err != nil {
		return err
	}
	defer n.calls.End()
	if err := n.ledger.TransferFrom(n.moduleAccount, player, n.moduleAccount, amount); err != nil {
		return fmt.Errorf("%w: charge: %v", ErrTransferFailed, err)
	}
	return nil
}

// loadPlayer fetches a staged copy of the player record.
func (n *Node) loadPlayer(addr types.Address) (*types.PlayerAccount, error) {
	acct, _, err := n.state.GetPlayer(addr)
	return acct, err
}
