package cfgchain

import "errors"

var (
	// ErrConversion is returned when a chain's conversion function rejects the winning value
	ErrConversion = errors.New("conversion failed")
	// ErrInvalidInput is returned when a logical name or provider is unusable
	ErrInvalidInput = errors.New("invalid input")
)
