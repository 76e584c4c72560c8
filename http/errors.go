package http

import "errors"

// ErrInvalidBody is returned when a request body is not a valid value document.
var ErrInvalidBody = errors.New("invalid body")
