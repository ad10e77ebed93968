package turns

import (
	"time"

	"taprush/core/types"
)

const (
	// FreeTurnsPerDay is the size of the rolling daily bucket.
	FreeTurnsPerDay = 3
	// ResetInterval is the rolling window after which the free bucket refills.
	ResetInterval = 24 * time.Hour
)

// Status is the projection of a player's playable turns at a point in time.
// When Unlimited is set the remaining count is meaningless.
type Status struct {
	Unlimited bool
	Remaining uint32
}

// Available projects the playable turns without mutating the account. The
// rolling reset is applied as a read-only derivation; the stored counters are
// only rewritten by Consume.
func Available(acct *types.PlayerAccount, now time.Time) Status {
	if acct == nil {
		return Status{}
	}
	ts := uint64(now.UTC().Unix())
	if acct.WeeklyPassExpiry != 0 && ts < acct.WeeklyPassExpiry {
		return Status{Unlimited: true}
	}
	if resetDue(acct, ts) {
		return Status{Remaining: FreeTurnsPerDay + acct.ExtraGoes}
	}
	free := uint32(0)
	if acct.FreeTurnsUsed < FreeTurnsPerDay {
		free = FreeTurnsPerDay - uint32(acct.FreeTurnsUsed)
	}
	return Status{Remaining: free + acct.ExtraGoes}
}

// TimeUntilReset reports how long until the free bucket refills. Zero means
// the reset is already due.
func TimeUntilReset(acct *types.PlayerAccount, now time.Time) time.Duration {
	if acct == nil || acct.LastResetTime == 0 {
		return 0
	}
	resetAt := time.Unix(int64(acct.LastResetTime), 0).Add(ResetInterval)
	remaining := resetAt.Sub(now.UTC())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Consume spends one turn. The rolling reset is applied lazily first, then
// the free bucket is drained before purchased extra goes. An active pass
// bypasses the counters entirely.
func Consume(acct *types.PlayerAccount, now time.Time) error {
	if acct == nil {
		return ErrNoTurnsAvailable
	}
	ts := uint64(now.UTC().Unix())
	if acct.WeeklyPassExpiry != 0 && ts < acct.WeeklyPassExpiry {
		return nil
	}
	if resetDue(acct, ts) {
		acct.FreeTurnsUsed = 0
		acct.LastResetTime = ts
	}
	if acct.FreeTurnsUsed < FreeTurnsPerDay {
		acct.FreeTurnsUsed++
		return nil
	}
	if acct.ExtraGoes > 0 {
		acct.ExtraGoes--
		return nil
	}
	return ErrNoTurnsAvailable
}

// Refill restores the daily free bucket after a paid refill. It requires the
// player to be fully out of turns; the caller charges the price beforehand.
func Refill(acct *types.PlayerAccount, now time.Time) error {
	status := Available(acct, now)
	if status.Unlimited || status.Remaining > 0 {
		return ErrTurnsRemaining
	}
	acct.FreeTurnsUsed = 0
	acct.LastResetTime = uint64(now.UTC().Unix())
	return nil
}

// ApplyPass opens an unlimited-play window. A new pass overwrites any
// remaining window rather than stacking.
func ApplyPass(acct *types.PlayerAccount, now time.Time, duration time.Duration) uint64 {
	expiry := uint64(now.UTC().Add(duration).Unix())
	acct.WeeklyPassExpiry = expiry
	return expiry
}

func resetDue(acct *types.PlayerAccount, ts uint64) bool {
	return ts >= acct.LastResetTime+uint64(ResetInterval/time.Second)
}
