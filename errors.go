package fetch

import "github.com/asynckit/go-fetch/internal/model"

// Error kinds. Every failure returned by this package matches exactly
// one of these under [errors.Is].
var (
	ErrInvalidURL      = model.ErrInvalidURL
	ErrInvalidMethod   = model.ErrInvalidMethod
	ErrInvalidVersion  = model.ErrInvalidVersion
	ErrInvalidStatus   = model.ErrInvalidStatus
	ErrInvalidInput    = model.ErrInvalidInput
	ErrInvalidHeader   = model.ErrInvalidHeader
	ErrInvalidData     = model.ErrInvalidData
	ErrUnableToConnect = model.ErrUnableToConnect
	ErrUnableToRead    = model.ErrUnableToRead
	ErrUnableToWrite   = model.ErrUnableToWrite
	ErrLimitExceeded   = model.ErrLimitExceeded
)
