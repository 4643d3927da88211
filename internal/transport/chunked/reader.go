// Package chunked implements the chunked transfer coding, bounded by
// caller-supplied ceilings on chunk-size lines and total body bytes.
package chunked

import (
	"bufio"
	"fmt"
	"io"

	"github.com/asynckit/go-fetch/internal/model"
)

// NewReader returns a reader that decodes a chunked body from r. Each
// chunk-size line may be at most lineLimit bytes, a non-positive
// lineLimit means unbounded. The reader returns io.EOF after the
// terminal zero-size chunk.
func NewReader(r io.Reader, lineLimit int) io.Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &reader{br: br, lineLimit: lineLimit}
}

type reader struct {
	br        *bufio.Reader
	lineLimit int
	remain    int64
	finished  bool
}

func (c *reader) Read(p []byte) (int, error) {
	if c.finished {
		return 0, io.EOF
	}
	if c.remain == 0 {
		size, err := c.readSizeLine()
		if err != nil {
			return 0, err
		}
		if size == 0 {
			if err := c.expectCRLF(); err != nil {
				return 0, err
			}
			c.finished = true
			return 0, io.EOF
		}
		c.remain = size
	}
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > c.remain {
		p = p[:c.remain]
	}
	n, err := io.ReadFull(c.br, p)
	c.remain -= int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = io.ErrUnexpectedEOF
		}
		return n, fmt.Errorf("%w: %v", model.ErrUnableToRead, err)
	}
	if c.remain == 0 {
		if err := c.expectCRLF(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// readSizeLine reads one hex chunk-size line, honoring the line limit.
// Chunk extensions after ';' are discarded.
func (c *reader) readSizeLine() (int64, error) {
	var size int64
	var count, digits, ext int
	for {
		b, err := c.br.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, fmt.Errorf("%w: %v", model.ErrUnableToRead, err)
		}
		if b != '\r' && b != '\n' {
			count++
		}
		if c.lineLimit > 0 && count > c.lineLimit {
			return 0, fmt.Errorf("%w: chunk size line over %d bytes", model.ErrLimitExceeded, c.lineLimit)
		}
		switch {
		case b == '\n':
			if digits == 0 {
				return 0, fmt.Errorf("%w: empty chunk size line", model.ErrInvalidInput)
			}
			return size, nil
		case b == '\r':
			continue
		case b == ';':
			ext++
			continue
		case ext > 0:
			continue
		}
		var d int64
		switch {
		case '0' <= b && b <= '9':
			d = int64(b - '0')
		case 'a' <= b && b <= 'f':
			d = int64(b-'a') + 10
		case 'A' <= b && b <= 'F':
			d = int64(b-'A') + 10
		default:
			return 0, fmt.Errorf("%w: byte %q in chunk size", model.ErrInvalidInput, b)
		}
		if size > (1<<62)/16 {
			return 0, fmt.Errorf("%w: chunk size overflow", model.ErrInvalidInput)
		}
		size = size<<4 | d
		digits++
	}
}

func (c *reader) expectCRLF() error {
	cr, err := c.br.ReadByte()
	if err == nil {
		var lf byte
		lf, err = c.br.ReadByte()
		if err == nil {
			if cr != '\r' || lf != '\n' {
				return fmt.Errorf("%w: malformed chunk boundary", model.ErrInvalidInput)
			}
			return nil
		}
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: %v", model.ErrUnableToRead, err)
}
