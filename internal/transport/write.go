package transport

import (
	"bufio"
	"fmt"
	"io"

	"github.com/asynckit/go-fetch/internal/model"
	"github.com/asynckit/go-fetch/internal/transport/chunked"
)

// WriteProto writes the serialized start line and header block.
func WriteProto(bw *bufio.Writer, proto string) error {
	if _, err := bw.WriteString(proto); err != nil {
		return fmt.Errorf("%w: %v", model.ErrUnableToWrite, err)
	}
	return nil
}

// Flush pushes buffered bytes onto the wire. A flush failure is an
// I/O error in its own right, never ignored.
func Flush(bw *bufio.Writer) error {
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrUnableToWrite, err)
	}
	return nil
}

// WriteAll copies body onto the wire with identity framing until the
// source is exhausted or limit bytes have been written. A negative
// limit means unbounded.
func WriteAll(bw *bufio.Writer, body io.Reader, limit int64) error {
	buf := make([]byte, 1024)
	var written int64
	for {
		chunk := buf
		if limit >= 0 {
			remain := limit - written
			if remain <= 0 {
				return nil
			}
			if remain < int64(len(chunk)) {
				chunk = chunk[:remain]
			}
		}
		n, rerr := body.Read(chunk)
		if n > 0 {
			if _, werr := bw.Write(chunk[:n]); werr != nil {
				return fmt.Errorf("%w: %v", model.ErrUnableToWrite, werr)
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return fmt.Errorf("%w: %v", model.ErrUnableToRead, rerr)
		}
	}
}

// WriteExact copies exactly n bytes from body onto the wire. A source
// that ends early is a read failure.
func WriteExact(bw *bufio.Writer, body io.Reader, n int64) error {
	buf := make([]byte, 1024)
	var written int64
	for written < n {
		chunk := buf
		if remain := n - written; remain < int64(len(chunk)) {
			chunk = chunk[:remain]
		}
		rn, rerr := body.Read(chunk)
		if rn > 0 {
			if _, werr := bw.Write(chunk[:rn]); werr != nil {
				return fmt.Errorf("%w: %v", model.ErrUnableToWrite, werr)
			}
			written += int64(rn)
		}
		if rerr != nil {
			if rerr == io.EOF {
				rerr = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("%w: %v", model.ErrUnableToRead, rerr)
		}
	}
	return nil
}

// WriteChunks frames body as chunks of at most maxChunk bytes,
// terminated by the zero-size chunk. Writing more than limit total
// body bytes fails with LimitExceeded since the source declared no
// length to check up front.
func WriteChunks(bw *bufio.Writer, body io.Reader, maxChunk int, limit int64) error {
	cw := chunked.NewWriter(bw)
	buf := make([]byte, maxChunk)
	var written int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if limit >= 0 && written+int64(n) > limit {
				return fmt.Errorf("%w: chunked body over limit %d", model.ErrLimitExceeded, limit)
			}
			if _, werr := cw.Write(buf[:n]); werr != nil {
				return werr
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			return cw.Close()
		}
		if rerr != nil {
			return fmt.Errorf("%w: %v", model.ErrUnableToRead, rerr)
		}
	}
}
