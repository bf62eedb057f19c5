package common

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// --------------------------------------------------------------------------
// URI errors (recovered, only logged)
// --------------------------------------------------------------------------

// UriParseError describes a single entry of a multi-valued URI setting that
// could not be used as a metastore endpoint. It is logged and the entry is
// skipped; it never aborts the remaining entries.
type UriParseError struct {
	Key   string // configuration key the entry was read from
	Entry string // the raw entry
	Err   error  // parse error, nil if the entry parsed but is unusable
	Msg   string // reason the entry is unusable
}

func (e *UriParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("URI syntax error in '%s' from key %s: %v", e.Entry, e.Key, e.Err)
	}
	return fmt.Sprintf("URI '%s' from key %s %s", e.Entry, e.Key, e.Msg)
}

func (e *UriParseError) Unwrap() error {
	return e.Err
}

// --------------------------------------------------------------------------
// Connection errors (surfaced)
// --------------------------------------------------------------------------

// ConnectionError is returned once every connection strategy is exhausted.
// Cause is the root cause of the last failed attempt, Errors aggregates the
// failures of all attempts in the order they happened.
type ConnectionError struct {
	Attempted []Endpoint
	Cause     error
	Errors    *multierror.Error
}

// NewConnectionError creates a ConnectionError for the given attempts
func NewConnectionError(attempted []Endpoint, errs *multierror.Error, cause error) *ConnectionError {
	return &ConnectionError{
		Attempted: attempted,
		Cause:     cause,
		Errors:    errs,
	}
}

func (e *ConnectionError) Error() string {
	attempted := make([]string, len(e.Attempted))
	for i, endpoint := range e.Attempted {
		attempted[i] = endpoint.Address()
	}
	return fmt.Sprintf("failed to connect to the metastore (attempted: [%s]): %v",
		strings.Join(attempted, ", "), e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ReflectionError signals that the low-level client handle could not be
// obtained from a higher-level client, which means the higher-level client is
// of an incompatible version. It is never retried.
type ReflectionError struct {
	Type  string // type of the higher-level client
	Field string // the handle that was looked up
	Msg   string
}

func (e *ReflectionError) Error() string {
	return fmt.Sprintf("cannot obtain %s from %s: %s", e.Field, e.Type, e.Msg)
}
