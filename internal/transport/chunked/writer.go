package chunked

import (
	"fmt"
	"io"

	"github.com/asynckit/go-fetch/internal/model"
)

// NewWriter returns a writer that frames everything written to it as
// chunks on w. Close writes the terminal zero-size chunk.
func NewWriter(w io.Writer) *Writer {
	return &Writer{wire: w}
}

type Writer struct {
	wire io.Writer
}

func (cw *Writer) Write(data []byte) (int, error) {
	// A 0-length chunk would read as the body terminator.
	if len(data) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(cw.wire, "%x\r\n", len(data)); err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrUnableToWrite, err)
	}
	n, err := cw.wire.Write(data)
	if err != nil {
		return n, fmt.Errorf("%w: %v", model.ErrUnableToWrite, err)
	}
	if n != len(data) {
		return n, fmt.Errorf("%w: %v", model.ErrUnableToWrite, io.ErrShortWrite)
	}
	if _, err := io.WriteString(cw.wire, "\r\n"); err != nil {
		return n, fmt.Errorf("%w: %v", model.ErrUnableToWrite, err)
	}
	return n, nil
}

func (cw *Writer) Close() error {
	n, err := io.WriteString(cw.wire, "0\r\n\r\n")
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrUnableToWrite, err)
	}
	if n != 5 {
		return fmt.Errorf("%w: %v", model.ErrUnableToWrite, io.ErrShortWrite)
	}
	return nil
}
