package model

import "fmt"

// Version is an HTTP protocol version. Values are ordered, so
// comparisons like v >= VersionHTTP11 are meaningful.
type Version int

const (
	VersionHTTP09 Version = iota
	VersionHTTP10
	VersionHTTP11
)

func ParseVersion(s string) (Version, error) {
	switch s {
	case "HTTP/0.9":
		return VersionHTTP09, nil
	case "HTTP/1.0":
		return VersionHTTP10, nil
	case "HTTP/1.1":
		return VersionHTTP11, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
}

func (v Version) String() string {
	switch v {
	case VersionHTTP09:
		return "HTTP/0.9"
	case VersionHTTP10:
		return "HTTP/1.0"
	case VersionHTTP11:
		return "HTTP/1.1"
	}
	return "HTTP/?"
}
