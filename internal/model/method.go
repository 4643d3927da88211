package model

import "fmt"

// Method is an HTTP request method. The zero value is not valid, use
// [MethodGet] or [ParseMethod].
type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

var methods = map[string]Method{
	"GET":     MethodGet,
	"HEAD":    MethodHead,
	"POST":    MethodPost,
	"PUT":     MethodPut,
	"PATCH":   MethodPatch,
	"DELETE":  MethodDelete,
	"CONNECT": MethodConnect,
	"OPTIONS": MethodOptions,
	"TRACE":   MethodTrace,
}

// ParseMethod maps a token onto a known method. The match is exact,
// method tokens are case-sensitive on the wire.
func ParseMethod(s string) (Method, error) {
	if m, ok := methods[s]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
}

// HasBody reports whether the method carries a request body by default.
// Methods outside this set still send a body when the caller supplies
// one together with an explicit Content-Length.
func (m Method) HasBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

func (m Method) String() string { return string(m) }
