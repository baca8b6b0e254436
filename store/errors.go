package store

import "errors"

// ErrReadOnly is returned when a View transaction attempts a write.
var ErrReadOnly = errors.New("write in read-only transaction")
