package client

import "errors"

var (
	// ErrValidation is returned before any network call when a file is
	// oversized or of a disallowed type.
	ErrValidation = errors.New("validation error")
	// ErrTransport covers connectivity loss, timeouts and gateway failures.
	ErrTransport = errors.New("server unavailable")
	// ErrRejected is a 4xx response to an upload.
	ErrRejected = errors.New("rejected by server")
	// ErrNotFound is returned when the target of a delete does not exist.
	ErrNotFound = errors.New("not found")
	// ErrFetch wraps listing and stats failures surfaced by the caches.
	ErrFetch = errors.New("fetch failed")
)
