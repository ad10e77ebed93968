package rewards

import "errors"

var (
	ErrSupplyCapExceeded = errors.New("rewards: supply cap exceeded")
	ErrImplausibleScore  = errors.New("rewards: implausible score")
	ErrInvalidStrategy   = errors.New("rewards: invalid strategy")
)
