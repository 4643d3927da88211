package internal

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/multierr"

	"github.com/asynckit/go-fetch/internal/dialer"
	"github.com/asynckit/go-fetch/internal/model"
	"github.com/asynckit/go-fetch/internal/transport"
)

// maxChunkSize is the largest body slice written as a single chunk.
const maxChunkSize = 1024

var defaultDialer dialer.Dialer = &dialer.CoreDialer{}

// Request is a single HTTP/1.x exchange in the making. Mutate it
// freely before sending, a send opens a fresh connection each time.
// A Request must not be sent concurrently with itself.
type Request struct {
	url       *url.URL
	method    model.Method
	version   model.Version
	headers   model.Header
	relay     string
	bodyLimit int64 // negative means no limit
	dialer    dialer.Dialer
}

// NewRequest returns a GET http://localhost HTTP/1.1 request with no
// headers, relay, or body limit.
func NewRequest() *Request {
	u, _ := url.Parse("http://localhost")
	return &Request{
		url:       u,
		method:    model.MethodGet,
		version:   model.VersionHTTP11,
		headers:   model.Header{},
		bodyLimit: -1,
	}
}

// ParseURL builds a request for an absolute URL. On failure no
// partially-built request is returned.
func ParseURL(text string) (*Request, error) {
	r := NewRequest()
	if err := r.SetURLString(text); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Request) URL() *url.URL          { return r.url }
func (r *Request) Method() model.Method   { return r.method }
func (r *Request) Version() model.Version { return r.version }
func (r *Request) Headers() model.Header  { return r.headers }
func (r *Request) Header(name string) string {
	return r.headers.Get(name)
}
func (r *Request) Relay() string    { return r.relay }
func (r *Request) BodyLimit() int64 { return r.bodyLimit }

func (r *Request) HasMethod(m model.Method) bool   { return r.method == m }
func (r *Request) HasVersion(v model.Version) bool { return r.version == v }
func (r *Request) HasHeader(name string) bool      { return r.headers.Has(name) }
func (r *Request) HasRelay() bool                  { return r.relay != "" }
func (r *Request) HasBodyLimit() bool              { return r.bodyLimit >= 0 }

func (r *Request) SetURL(u *url.URL) { r.url = u }

// SetURLString replaces the target URL. The request is left untouched
// unless text parses as an absolute URL.
func (r *Request) SetURLString(text string) error {
	u, err := url.Parse(text)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: %q", model.ErrInvalidURL, text)
	}
	r.url = u
	return nil
}

func (r *Request) SetMethod(m model.Method) { r.method = m }

func (r *Request) SetMethodString(s string) error {
	m, err := model.ParseMethod(s)
	if err != nil {
		return err
	}
	r.method = m
	return nil
}

func (r *Request) SetVersion(v model.Version) { r.version = v }

func (r *Request) SetVersionString(s string) error {
	v, err := model.ParseVersion(s)
	if err != nil {
		return err
	}
	r.version = v
	return nil
}

// SetHeader stores a header field, replacing any previous value under
// the exact same name. Names and values that would corrupt the wire
// format are rejected.
func (r *Request) SetHeader(name, value string) error {
	if err := model.CheckField(name, value); err != nil {
		return err
	}
	r.headers.Set(name, value)
	return nil
}

func (r *Request) RemoveHeader(name string) { r.headers.Del(name) }
func (r *Request) ClearHeaders()            { r.headers.Clear() }

// SetRelay overrides the connection target. The request is still
// serialized, and TLS still verified, against the URL itself.
func (r *Request) SetRelay(addr string) { r.relay = addr }
func (r *Request) RemoveRelay()         { r.relay = "" }

func (r *Request) SetBodyLimit(n int64) { r.bodyLimit = n }

// SetDialer replaces the transport used to open connections. The
// default resolves and dials over TCP with optional TLS.
func (r *Request) SetDialer(d dialer.Dialer) { r.dialer = d }

func (r *Request) host() string {
	if h := r.url.Hostname(); h != "" {
		return h
	}
	return "localhost"
}

func (r *Request) port() string {
	if p := r.url.Port(); p != "" {
		return p
	}
	if r.url.Scheme == "https" {
		return "443"
	}
	return "80"
}

func (r *Request) hostWithPort() string {
	return r.host() + ":" + r.port()
}

// socketAddress is the effective connection target: the relay when
// set, the URL's own host:port otherwise.
func (r *Request) socketAddress() string {
	if r.relay != "" {
		return r.relay
	}
	return r.hostWithPort()
}

// uri is the request-target suffix of the URL: path, query and
// fragment in original order.
func (r *Request) uri() string {
	var sb strings.Builder
	if p := r.url.EscapedPath(); p != "" {
		sb.WriteString(p)
	} else {
		sb.WriteByte('/')
	}
	if r.url.ForceQuery || r.url.RawQuery != "" {
		sb.WriteByte('?')
		sb.WriteString(r.url.RawQuery)
	}
	if r.url.Fragment != "" {
		sb.WriteByte('#')
		sb.WriteString(r.url.EscapedFragment())
	}
	return sb.String()
}

// ProtoString serializes the start line and header block. HTTP/0.9
// degrades to the bare legacy request line with no headers.
func (r *Request) ProtoString() string {
	var sb strings.Builder
	if r.version == model.VersionHTTP09 {
		fmt.Fprintf(&sb, "GET %s\r\n", r.uri())
		return sb.String()
	}
	fmt.Fprintf(&sb, "%s %s %s\r\n", r.method, r.uri(), r.version)
	for _, name := range r.headers.Names() {
		fmt.Fprintf(&sb, "%s: %s\r\n", name, r.headers.Get(name))
	}
	sb.WriteString("\r\n")
	return sb.String()
}

func (r *Request) String() string { return r.ProtoString() }

// Send performs the exchange with an empty body.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	r.updateHostHeader()
	return r.exchange(ctx, nil)
}

// SendWithBody performs the exchange streaming body as the request
// body. body is consumed at most once and never rewound.
func (r *Request) SendWithBody(ctx context.Context, body io.Reader) (*Response, error) {
	r.updateHostHeader()
	r.updateBodyHeaders()
	return r.exchange(ctx, body)
}

// SendBytes sets Content-Length from the buffer's exact size, then
// streams it.
func (r *Request) SendBytes(ctx context.Context, body []byte) (*Response, error) {
	r.headers.Set("Content-Length", strconv.Itoa(len(body)))
	return r.SendWithBody(ctx, bytes.NewReader(body))
}

func (r *Request) SendText(ctx context.Context, body string) (*Response, error) {
	r.headers.Set("Content-Length", strconv.Itoa(len(body)))
	return r.SendWithBody(ctx, strings.NewReader(body))
}

// SendJSON encodes v and sends it with an exact Content-Length.
func (r *Request) SendJSON(ctx context.Context, v interface{}) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidData, err)
	}
	return r.SendBytes(ctx, data)
}

func (r *Request) updateHostHeader() {
	if r.version >= model.VersionHTTP11 && !r.headers.Has("Host") {
		r.headers.Set("Host", r.hostWithPort())
	}
}

func (r *Request) updateBodyHeaders() {
	if r.method.HasBody() && !r.headers.Has("Content-Length") {
		r.headers.Set("Transfer-Encoding", "chunked")
	}
}

func (r *Request) exchange(ctx context.Context, body io.Reader) (*Response, error) {
	var tlsHost string
	switch r.url.Scheme {
	case "http":
	case "https":
		tlsHost = r.host()
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", model.ErrInvalidURL, r.url.Scheme)
	}

	d := r.dialer
	if d == nil {
		d = defaultDialer
	}
	conn, err := d.Dial(ctx, r.socketAddress(), tlsHost)
	if err != nil {
		if errors.Is(err, model.ErrUnableToConnect) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", model.ErrUnableToConnect, err)
	}

	resp, err := r.roundTrip(conn, body)
	if err != nil {
		// the connection is unusable after a mid-exchange failure
		return nil, multierr.Append(err, conn.Close())
	}
	return resp, nil
}

func (r *Request) roundTrip(conn io.ReadWriteCloser, body io.Reader) (*Response, error) {
	bw := bufio.NewWriter(conn)
	if err := transport.WriteProto(bw, r.ProtoString()); err != nil {
		return nil, err
	}
	if err := transport.Flush(bw); err != nil {
		return nil, err
	}
	if body != nil {
		if err := r.writeBody(bw, body); err != nil {
			return nil, err
		}
		if err := transport.Flush(bw); err != nil {
			return nil, err
		}
	}
	return readResponse(conn)
}

func (r *Request) writeBody(bw *bufio.Writer, body io.Reader) error {
	decision, err := transport.ForWrite(r.version, r.headers, r.bodyLimit)
	if err != nil {
		return err
	}
	switch decision.Framing {
	case transport.Identity:
		return transport.WriteAll(bw, body, r.bodyLimit)
	case transport.Length:
		return transport.WriteExact(bw, body, decision.Size)
	default:
		return transport.WriteChunks(bw, body, maxChunkSize, r.bodyLimit)
	}
}

// readResponse consumes the status line and header block, then hands
// the still-open stream to the Response untouched. Body bytes stay in
// the transport buffer until the caller asks for them.
func readResponse(conn io.ReadWriteCloser) (*Response, error) {
	br := bufio.NewReader(conn)

	proto, statusToken, _, err := transport.ReadStartLine(br, 0)
	if err != nil {
		return nil, err
	}
	version, err := model.ParseVersion(proto)
	if err != nil {
		return nil, err
	}
	status, err := model.ParseStatus(statusToken)
	if err != nil {
		return nil, err
	}

	resp := NewResponse(nil)
	resp.SetVersion(version)
	resp.SetStatus(status)
	for {
		name, value, err := transport.ReadHeaderLine(br, 0)
		if err != nil {
			return nil, err
		}
		if name == "" {
			break
		}
		if !utf8.ValidString(name) || !utf8.ValidString(value) {
			return nil, fmt.Errorf("%w: non-utf8 header field", model.ErrInvalidHeader)
		}
		resp.headers.Set(name, value)
	}

	resp.reader = bodyCloser{br, conn.Close}
	return resp, nil
}

// bodyCloser reads from the response's buffered stream while Close
// releases the underlying connection.
type bodyCloser struct {
	io.Reader
	close func() error
}

func (b bodyCloser) Close() error { return b.close() }
