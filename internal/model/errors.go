package model

import "errors"

// Flat error kinds. Every failure that crosses the package boundary is
// wrapped onto exactly one of these, so callers can branch with
// [errors.Is] without knowing which layer produced it.
var (
	ErrInvalidURL      = errors.New("fetch: invalid url")
	ErrInvalidMethod   = errors.New("fetch: invalid method")
	ErrInvalidVersion  = errors.New("fetch: invalid version")
	ErrInvalidStatus   = errors.New("fetch: invalid status")
	ErrInvalidInput    = errors.New("fetch: invalid input")
	ErrInvalidHeader   = errors.New("fetch: invalid header")
	ErrInvalidData     = errors.New("fetch: invalid data")
	ErrUnableToConnect = errors.New("fetch: unable to connect")
	ErrUnableToRead    = errors.New("fetch: unable to read")
	ErrUnableToWrite   = errors.New("fetch: unable to write")
	ErrLimitExceeded   = errors.New("fetch: limit exceeded")
)
