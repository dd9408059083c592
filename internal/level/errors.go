package level

import "errors"

var (
	ErrInvalidLevel  = errors.New("invalid level")
	ErrInvalidVector = errors.New("vector must have exactly 3 components")
)
