package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrExists is returned when a record with the same key already exists.
var ErrExists = errors.New("already exists")

// ErrCorrupt is returned when a stored blob cannot be decoded, so bad
// data surfaces as an explicit error kind instead of an uncontrolled
// fault.
var ErrCorrupt = errors.New("corrupt storage")
