package model

import (
	"fmt"
	"sort"

	"golang.org/x/net/http/httpguts"
)

// Header maps field names to single values. Names are stored and matched
// exactly as given, case preserved. Setting an existing name replaces its
// value, last write wins.
type Header map[string]string

func (h Header) Get(name string) string { return h[name] }

func (h Header) Has(name string) bool {
	_, ok := h[name]
	return ok
}

func (h Header) Set(name, value string) { h[name] = value }

func (h Header) Del(name string) { delete(h, name) }

func (h Header) Len() int { return len(h) }

func (h Header) Clear() {
	for name := range h {
		delete(h, name)
	}
}

func (h Header) Clone() Header {
	c := make(Header, len(h))
	for name, value := range h {
		c[name] = value
	}
	return c
}

// Names returns all field names in sorted order, keeping serialized
// output reproducible across runs.
func (h Header) Names() []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckField rejects names and values that cannot appear in a header
// line without corrupting the wire format.
func CheckField(name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("%w: header name %q", ErrInvalidInput, name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: header value %q", ErrInvalidInput, value)
	}
	return nil
}
