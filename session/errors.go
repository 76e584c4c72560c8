package session

import "errors"

// ErrNotFound is returned when deleting an instance variable that is not set.
var ErrNotFound = errors.New("instance variable not found")
