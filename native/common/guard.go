package common

import (
	"errors"
	"sync/atomic"
)

var (
	ErrModulePaused  = errors.New("module paused")
	ErrReentrantCall = errors.New("reentrant call rejected")
)

// PauseView exposes the administrative pause switch for a module.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the operation when the named module is paused.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}

// CallGuard is a held-state reentrancy latch around external capability calls.
// The flag stays set for the whole duration of the external call, so a
// callback that re-enters the engine on the same goroutine is rejected
// instead of deadlocking on the engine mutex.
type CallGuard struct {
	held atomic.Bool
}

// Begin latches the guard. It fails when an external call is already in
// flight.
func (g *CallGuard) Begin() error {
	if g == nil {
		return nil
	}
	if !g.held.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

// End releases the latch.
func (g *CallGuard) End() {
	if g == nil {
		return
	}
	g.held.Store(false)
}

// Held reports whether an external call is currently in flight. Public entry
// points check this before taking the engine mutex.
func (g *CallGuard) Held() bool {
	if g == nil {
		return false
	}
	return g.held.Load()
}
