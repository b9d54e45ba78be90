package geostore

import "fmt"

type ErrorCode int

const (
	Unknown ErrorCode = iota
	// KeyNotFound means a read resolved to an address that does not exist on the backend.
	KeyNotFound
	// FileIOError is any backend I/O failure during open/read/write/remove/move/list.
	FileIOError
	// ValueCodecError is a serialize/deserialize or compression codec failure,
	// e.g. corrupted or incompatible stored bytes.
	ValueCodecError
	// CommitIncomplete means a backend error occurred partway through the commit
	// loop, leaving some keys committed and others still staged or pending delete.
	// The store cannot recover this by itself; the caller has to reconcile.
	CommitIncomplete
)

// Error is the geostore custom error, carrying an ErrorCode and optional user data.
type Error struct {
	Code     ErrorCode
	Err      error
	UserData any
}

func (e Error) Error() string {
	return fmt.Errorf("error code: %d, user data: %v, details: %w", e.Code, e.UserData, e.Err).Error()
}

func (e Error) Unwrap() error {
	return e.Err
}
