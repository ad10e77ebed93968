package claims

import "errors"

var ErrCooldownActive = errors.New("claims: cooldown active")
