// Package device provides byte-level I/O devices backing the machine's
// memory-mapped pseudo-cells. Devices are sequential: one byte in, one
// byte out, with no seeking and no concurrency.
package device

import (
	"iter"
)

// Device is the interface all I/O devices implement. A device that does
// not support a direction reports it through the error or ok value; the
// machine decides whether such an access faults.
type Device interface {
	// Rewind resets the device to its initial state.
	Rewind()
	// Getc reads one byte. ok is false at end of input.
	Getc() (value byte, ok bool)
	// Putc writes one byte downstream.
	Putc(value byte) error
}

// Defineser is implemented by devices that contribute assembler
// predefines.
type Defineser interface {
	Defines() iter.Seq2[string, string]
}
