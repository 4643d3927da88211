// Package fetch is a small HTTP/1.x client engine. A Request owns its
// URL, method, version and headers, opens one connection per send, and
// yields a Response whose body stays on the wire until asked for.
package fetch

import (
	"io"

	"github.com/asynckit/go-fetch/internal"
	"github.com/asynckit/go-fetch/internal/model"
)

type Request = internal.Request
type Response = internal.Response

type Method = model.Method
type Version = model.Version
type Status = model.Status
type Header = model.Header

// NewRequest returns a default GET http://localhost HTTP/1.1 request.
func NewRequest() *Request { return internal.NewRequest() }

// ParseURL builds a request for an absolute URL.
func ParseURL(text string) (*Request, error) { return internal.ParseURL(text) }

// NewResponse wraps a reader as a decodable response body, useful for
// decoding canned streams.
func NewResponse(reader io.Reader) *Response { return internal.NewResponse(reader) }

const (
	MethodGet     = model.MethodGet
	MethodHead    = model.MethodHead
	MethodPost    = model.MethodPost
	MethodPut     = model.MethodPut
	MethodPatch   = model.MethodPatch
	MethodDelete  = model.MethodDelete
	MethodConnect = model.MethodConnect
	MethodOptions = model.MethodOptions
	MethodTrace   = model.MethodTrace
)

const (
	VersionHTTP09 = model.VersionHTTP09
	VersionHTTP10 = model.VersionHTTP10
	VersionHTTP11 = model.VersionHTTP11
)

const (
	StatusOK                  = model.StatusOK
	StatusCreated             = model.StatusCreated
	StatusAccepted            = model.StatusAccepted
	StatusNoContent           = model.StatusNoContent
	StatusMovedPermanently    = model.StatusMovedPermanently
	StatusFound               = model.StatusFound
	StatusNotModified         = model.StatusNotModified
	StatusBadRequest          = model.StatusBadRequest
	StatusUnauthorized        = model.StatusUnauthorized
	StatusForbidden           = model.StatusForbidden
	StatusNotFound            = model.StatusNotFound
	StatusInternalServerError = model.StatusInternalServerError
	StatusBadGateway          = model.StatusBadGateway
	StatusServiceUnavailable  = model.StatusServiceUnavailable
)
