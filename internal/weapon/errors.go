package weapon

import "errors"

var (
	ErrCoolingDown      = errors.New("weapon is cooling down")
	ErrInvalidDirection = errors.New("aim direction is zero")
)
