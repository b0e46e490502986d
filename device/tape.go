package device

import (
	"io"
	"iter"
	"maps"
)

// Tape provides sequential byte I/O against a host stream. It wraps an
// io.Reader for input and an io.Writer for output. A read blocks until
// the reader yields a byte or reports end of input.
type Tape struct {
	Input  io.Reader
	Output io.Writer
}

var _ Device = (*Tape)(nil)

// Defines returns an iter of defines for the device.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{})
}

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Getc reads one byte from the input stream. A nil input behaves as an
// exhausted one.
func (tc *Tape) Getc() (value byte, ok bool) {
	if tc.Input == nil {
		return
	}

	var one [1]byte
	for {
		n, err := tc.Input.Read(one[:])
		if n > 0 {
			return one[0], true
		}
		if err != nil {
			return
		}
	}
}

// Putc writes one byte to the output stream.
func (tc *Tape) Putc(value byte) (err error) {
	if tc.Output == nil {
		err = ErrDeviceFull
		return
	}

	_, err = tc.Output.Write([]byte{value})

	return
}
