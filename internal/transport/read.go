package transport

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/asynckit/go-fetch/internal/model"
	"github.com/asynckit/go-fetch/internal/transport/chunked"
)

// ReadStartLine reads the response status line and splits it into its
// three tokens. The reason phrase may be empty. limit bounds the line
// length, non-positive means unbounded.
func ReadStartLine(br *bufio.Reader, limit int) (proto, status, reason string, err error) {
	line, err := readLine(br, limit)
	if err != nil {
		return "", "", "", err
	}
	proto, rest, ok := strings.Cut(line, " ")
	if !ok {
		return "", "", "", fmt.Errorf("%w: malformed status line %q", model.ErrInvalidInput, line)
	}
	status, reason, _ = strings.Cut(strings.TrimLeft(rest, " "), " ")
	return proto, status, reason, nil
}

// ReadHeaderLine reads one header line. An empty name with a nil error
// signals the end of the header block.
func ReadHeaderLine(br *bufio.Reader, limit int) (name, value string, err error) {
	line, err := readLine(br, limit)
	if err != nil {
		return "", "", err
	}
	if line == "" {
		return "", "", nil
	}
	name, value, ok := strings.Cut(line, ":")
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: malformed header line %q", model.ErrInvalidHeader, line)
	}
	return strings.TrimRight(name, " \t"), strings.Trim(value, " \t"), nil
}

// ReadExact reads exactly n bytes.
func ReadExact(r io.Reader, n int64) ([]byte, error) {
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("%w: %v", model.ErrUnableToRead, err)
	}
	return data, nil
}

// ReadChunked materializes a chunked body. lineLimit bounds each
// chunk-size line (non-positive means unbounded), bodyLimit bounds the
// decoded byte total (negative means unbounded).
func ReadChunked(r io.Reader, lineLimit int, bodyLimit int64) ([]byte, error) {
	cr := chunked.NewReader(r, lineLimit)
	var data bytes.Buffer
	buf := make([]byte, 1024)
	for {
		n, err := cr.Read(buf)
		if n > 0 {
			if bodyLimit >= 0 && int64(data.Len())+int64(n) > bodyLimit {
				return nil, fmt.Errorf("%w: chunked body over limit %d", model.ErrLimitExceeded, bodyLimit)
			}
			data.Write(buf[:n])
		}
		if err == io.EOF {
			return data.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func readLine(br *bufio.Reader, limit int) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return "", fmt.Errorf("%w: %v", model.ErrUnableToRead, err)
		}
		if b == '\n' {
			return sb.String(), nil
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if limit > 0 && sb.Len() > limit {
			return "", fmt.Errorf("%w: line over %d bytes", model.ErrLimitExceeded, limit)
		}
	}
}
