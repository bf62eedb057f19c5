package partition

import (
	"errors"
	"fmt"
)

// MissingValueError is returned if the value map has no entry for a
// partition key. The error carries the name of the first missing key.
type MissingValueError struct {
	Key string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("no value for partition key %q", e.Key)
}

var (
	// ErrNoKeys is returned if a partition name is built without keys
	ErrNoKeys = errors.New("partition keys must not be empty")
	// ErrSizeMismatch is returned if the number of keys and values differ
	ErrSizeMismatch = errors.New("number of partition keys and values differ")
)
