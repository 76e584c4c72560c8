package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrKeyNotFound     = errors.New("key not found")
)
