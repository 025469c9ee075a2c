package db

import "errors"

// ErrKeyNotFound is returned by Get for a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants name the failed command or query for error context.
const (
	OpPing  = "PING"
	OpGet   = "GET"
	OpSet   = "SET"
	OpDel   = "DEL"
	OpQuery = "QUERY"
	OpScan  = "SCAN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
