package repository

import "errors"

// ErrDuplicate is returned when a write violates a unique index
var ErrDuplicate = errors.New("duplicate record")
