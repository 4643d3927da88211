package internal

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/asynckit/go-fetch/internal/model"
	"github.com/asynckit/go-fetch/internal/transport"
)

// Response is the parsed half of an exchange: status, version and
// headers are fully populated on construction, the body stays on the
// wire until a Recv variant pulls it. The reader is exclusively owned
// and its lifetime, usually a live connection, is tied to the Response.
type Response struct {
	status         model.Status
	version        model.Version
	headers        model.Header
	reader         io.ReadCloser
	chunklineLimit int   // non-positive means no limit
	bodyLimit      int64 // negative means no limit
}

// NewResponse wraps reader as a response body stream with default
// status 200 and version HTTP/1.1. A nil reader yields an empty body.
func NewResponse(reader io.Reader) *Response {
	r := &Response{
		status:    model.StatusOK,
		version:   model.VersionHTTP11,
		headers:   model.Header{},
		bodyLimit: -1,
	}
	r.SetReader(reader)
	return r
}

func (r *Response) Status() model.Status   { return r.status }
func (r *Response) Version() model.Version { return r.version }
func (r *Response) Headers() model.Header  { return r.headers }
func (r *Response) Header(name string) string {
	return r.headers.Get(name)
}
func (r *Response) ChunklineLimit() int { return r.chunklineLimit }
func (r *Response) BodyLimit() int64    { return r.bodyLimit }

func (r *Response) HasStatus(s model.Status) bool   { return r.status == s }
func (r *Response) HasVersion(v model.Version) bool { return r.version == v }
func (r *Response) HasHeaders() bool                { return r.headers.Len() > 0 }
func (r *Response) HasHeader(name string) bool      { return r.headers.Has(name) }
func (r *Response) HasChunklineLimit() bool         { return r.chunklineLimit > 0 }
func (r *Response) HasBodyLimit() bool              { return r.bodyLimit >= 0 }

func (r *Response) SetStatus(s model.Status) { r.status = s }

func (r *Response) SetStatusString(s string) error {
	status, err := model.ParseStatus(s)
	if err != nil {
		return err
	}
	r.status = status
	return nil
}

func (r *Response) SetVersion(v model.Version) { r.version = v }

func (r *Response) SetVersionString(s string) error {
	version, err := model.ParseVersion(s)
	if err != nil {
		return err
	}
	r.version = version
	return nil
}

func (r *Response) SetHeader(name, value string) { r.headers.Set(name, value) }
func (r *Response) RemoveHeader(name string)     { r.headers.Del(name) }
func (r *Response) ClearHeaders()                { r.headers.Clear() }

// SetReader replaces the body stream. Ownership of reader moves to the
// Response.
func (r *Response) SetReader(reader io.Reader) {
	if reader == nil {
		reader = strings.NewReader("")
	}
	if rc, ok := reader.(io.ReadCloser); ok {
		r.reader = rc
		return
	}
	r.reader = io.NopCloser(reader)
}

func (r *Response) SetChunklineLimit(n int) { r.chunklineLimit = n }
func (r *Response) SetBodyLimit(n int64)    { r.bodyLimit = n }

// ProtoString serializes the status line and header block the way they
// would appear on the wire. HTTP/0.9 responses have neither.
func (r *Response) ProtoString() string {
	var sb strings.Builder
	if r.version == model.VersionHTTP09 {
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s %s %s\r\n", r.version, r.status, r.status.Reason())
	for _, name := range r.headers.Names() {
		fmt.Fprintf(&sb, "%s: %s\r\n", name, r.headers.Get(name))
	}
	sb.WriteString("\r\n")
	return sb.String()
}

func (r *Response) String() string { return r.ProtoString() }

// Recv materializes the body, applying the framing policy in reverse:
// a chunked Transfer-Encoding decodes chunks, a Content-Length reads
// that many bytes, anything else is an empty body since
// read-until-close framing is deliberately unsupported. The stream is
// forward-only, so Recv is not idempotent.
func (r *Response) Recv() ([]byte, error) {
	decision, err := transport.ForRead(r.headers, r.bodyLimit)
	if err != nil {
		return nil, err
	}
	switch decision.Framing {
	case transport.Chunked:
		return transport.ReadChunked(r.reader, r.chunklineLimit, r.bodyLimit)
	case transport.Length:
		return transport.ReadExact(r.reader, decision.Size)
	default:
		return []byte{}, nil
	}
}

// RecvText is Recv with a UTF-8 validity gate.
func (r *Response) RecvText() (string, error) {
	data, err := r.Recv()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: body is not valid utf-8", model.ErrInvalidData)
	}
	return string(data), nil
}

// RecvJSON decodes the body into v. An empty body decodes as an empty
// object rather than failing.
func (r *Response) RecvJSON(v interface{}) error {
	data, err := r.Recv()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidData, err)
	}
	return nil
}

// Close releases the underlying stream. Abandoning a response without
// consuming the body must go through here so the connection is freed
// deterministically.
func (r *Response) Close() error {
	return r.reader.Close()
}
