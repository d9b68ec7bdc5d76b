package repository

import "errors"

// ErrDuplicateKey is returned by every store implementation when a unique
// index (doctor email, doctor public id, patient email) is violated.
var ErrDuplicateKey = errors.New("duplicate key")
