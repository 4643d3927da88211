package internal_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asynckit/go-fetch/internal"
	"github.com/asynckit/go-fetch/internal/model"
)

func chunkedResponse(wire string) *internal.Response {
	resp := internal.NewResponse(strings.NewReader(wire))
	resp.SetHeader("Transfer-Encoding", "chunked")
	return resp
}

func TestRecvChunked(t *testing.T) {
	resp := chunkedResponse("5\r\nhello\r\n0\r\n\r\n")
	data, err := resp.Recv()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestRecvChunkedValueCaseInsensitive(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader("5\r\nhello\r\n0\r\n\r\n"))
	resp.SetHeader("Transfer-Encoding", "Chunked")
	data, err := resp.Recv()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRecvContentLength(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader("hello trailing"))
	resp.SetHeader("Content-Length", "5")
	data, err := resp.Recv()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRecvZeroContentLength(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader(""))
	resp.SetHeader("Content-Length", "0")
	data, err := resp.Recv()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRecvNoLengthIndicatorIsEmpty(t *testing.T) {
	// read-until-close framing is unsupported, not an error
	resp := internal.NewResponse(strings.NewReader("ignored bytes"))
	data, err := resp.Recv()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRecvShortStream(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader("hi"))
	resp.SetHeader("Content-Length", "5")
	_, err := resp.Recv()
	assert.ErrorIs(t, err, model.ErrUnableToRead)
}

func TestRecvBodyLimitCheckedBeforeReading(t *testing.T) {
	resp := internal.NewResponse(failingReader{})
	resp.SetHeader("Content-Length", "100")
	resp.SetBodyLimit(10)
	_, err := resp.Recv()
	assert.ErrorIs(t, err, model.ErrLimitExceeded)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("reader must not be touched")
}

func TestRecvChunklineLimit(t *testing.T) {
	resp := chunkedResponse("0000005\r\nhello\r\n0\r\n\r\n")
	resp.SetChunklineLimit(3)
	_, err := resp.Recv()
	assert.ErrorIs(t, err, model.ErrLimitExceeded)
}

func TestRecvChunkedBodyLimit(t *testing.T) {
	resp := chunkedResponse("5\r\nhello\r\n0\r\n\r\n")
	resp.SetBodyLimit(3)
	_, err := resp.Recv()
	assert.ErrorIs(t, err, model.ErrLimitExceeded)
}

func TestRecvNotIdempotent(t *testing.T) {
	resp := chunkedResponse("5\r\nhello\r\n0\r\n\r\n")
	_, err := resp.Recv()
	require.NoError(t, err)
	_, err = resp.Recv()
	assert.Error(t, err, "the stream is forward-only")
}

func TestRecvText(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader("héllo"))
	resp.SetHeader("Content-Length", "6")
	text, err := resp.RecvText()
	require.NoError(t, err)
	assert.Equal(t, "héllo", text)
}

func TestRecvTextInvalidUTF8(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader("\xff\xfe"))
	resp.SetHeader("Content-Length", "2")
	_, err := resp.RecvText()
	assert.ErrorIs(t, err, model.ErrInvalidData)
}

func TestRecvJSON(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader(`{"name":"go-fetch"}`))
	resp.SetHeader("Content-Length", "19")

	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, resp.RecvJSON(&v))
	assert.Equal(t, "go-fetch", v.Name)
}

func TestRecvJSONEmptyBodyIsEmptyObject(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader(""))
	resp.SetHeader("Content-Length", "0")

	v := map[string]interface{}{}
	require.NoError(t, resp.RecvJSON(&v))
	assert.Empty(t, v)
}

func TestRecvJSONMalformed(t *testing.T) {
	resp := internal.NewResponse(strings.NewReader("{"))
	resp.SetHeader("Content-Length", "1")
	err := resp.RecvJSON(&map[string]interface{}{})
	assert.ErrorIs(t, err, model.ErrInvalidData)
}

func TestResponseDefaults(t *testing.T) {
	resp := internal.NewResponse(nil)
	assert.True(t, resp.HasStatus(model.StatusOK))
	assert.True(t, resp.HasVersion(model.VersionHTTP11))
	assert.False(t, resp.HasHeaders())
	assert.False(t, resp.HasBodyLimit())
	assert.False(t, resp.HasChunklineLimit())
}

func TestResponseStringMutators(t *testing.T) {
	resp := internal.NewResponse(nil)

	require.NoError(t, resp.SetStatusString("404"))
	assert.Equal(t, model.StatusNotFound, resp.Status())
	assert.ErrorIs(t, resp.SetStatusString("cat"), model.ErrInvalidStatus)

	require.NoError(t, resp.SetVersionString("HTTP/1.0"))
	assert.Equal(t, model.VersionHTTP10, resp.Version())
	assert.ErrorIs(t, resp.SetVersionString("SPDY/3"), model.ErrInvalidVersion)
}

func TestResponseProtoString(t *testing.T) {
	resp := internal.NewResponse(nil)
	resp.SetStatus(model.StatusNotFound)
	resp.SetHeader("Server", "test")
	assert.Equal(t, "HTTP/1.1 404 Not Found\r\nServer: test\r\n\r\n", resp.ProtoString())

	resp.SetVersion(model.VersionHTTP09)
	assert.Equal(t, "", resp.ProtoString(), "0.9 has no status line or headers")
}

type closeRecorder struct {
	strings.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestResponseCloseReleasesStream(t *testing.T) {
	rec := &closeRecorder{}
	resp := internal.NewResponse(rec)
	require.NoError(t, resp.Close())
	assert.True(t, rec.closed)
}
