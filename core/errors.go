package core

import "errors"

var (
	ErrUnauthorized          = errors.New("core: unauthorized")
	ErrUnauthorizedSubmitter = errors.New("core: unauthorized submitter")
	ErrNoActiveGame          = errors.New("core: no active game session")
	ErrInvalidScore          = errors.New("core: score must be positive")
	ErrInvalidRound          = errors.New("core: round out of range")
	ErrAlreadyMigrated       = errors.New("core: tokens already migrated")
	ErrNoFundsToMigrate      = errors.New("core: no funds to migrate")
	ErrTransferFailed        = errors.New("core: token transfer failed")
	ErrNoFeesToWithdraw      = errors.New("core: no fees to withdraw")
)
