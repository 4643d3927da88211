package transport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asynckit/go-fetch/internal/model"
)

// Framing is the mechanism by which a message body's length is
// communicated on the wire.
type Framing int

const (
	// Identity writes or reads raw bytes with no length indicator.
	// On the read side this means an empty body, read-until-close
	// framing is not supported.
	Identity Framing = iota
	// Length frames the body with an exact Content-Length.
	Length
	// Chunked frames the body with hex-length-prefixed chunks.
	Chunked
)

// Decision is the outcome of the framing policy. Size is only
// meaningful for Length.
type Decision struct {
	Framing Framing
	Size    int64
}

// ForWrite picks the body framing for an outgoing request. HTTP/0.9
// has no framing at all, an explicit Content-Length wins otherwise,
// and everything else goes out chunked. limit is checked against a
// declared Content-Length before any byte is written.
func ForWrite(version model.Version, headers model.Header, limit int64) (Decision, error) {
	if version == model.VersionHTTP09 {
		return Decision{Framing: Identity}, nil
	}
	if headers.Has("Content-Length") {
		n, err := ContentLength(headers, limit)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Framing: Length, Size: n}, nil
	}
	return Decision{Framing: Chunked}, nil
}

// ForRead picks the body framing for an incoming response, mirroring
// [ForWrite]: Transfer-Encoding: chunked first, then Content-Length,
// then an empty identity body.
func ForRead(headers model.Header, limit int64) (Decision, error) {
	if IsChunked(headers) {
		return Decision{Framing: Chunked}, nil
	}
	if headers.Has("Content-Length") {
		n, err := ContentLength(headers, limit)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Framing: Length, Size: n}, nil
	}
	return Decision{Framing: Identity}, nil
}

// IsChunked reports whether the Transfer-Encoding field declares
// chunked framing. The value comparison is case-insensitive per token.
func IsChunked(headers model.Header) bool {
	for _, token := range strings.Split(headers.Get("Transfer-Encoding"), ",") {
		if strings.EqualFold(strings.TrimSpace(token), "chunked") {
			return true
		}
	}
	return false
}

// ContentLength parses the Content-Length field and enforces limit
// proactively. A negative limit means unbounded.
func ContentLength(headers model.Header, limit int64) (int64, error) {
	value, ok := headers["Content-Length"]
	if !ok {
		return 0, fmt.Errorf("%w: missing Content-Length", model.ErrInvalidHeader)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: Content-Length %q", model.ErrInvalidInput, value)
	}
	if limit >= 0 && n > limit {
		return 0, fmt.Errorf("%w: Content-Length %d over limit %d", model.ErrLimitExceeded, n, limit)
	}
	return n, nil
}
