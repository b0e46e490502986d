package mach

import (
	"fmt"
)

// Word is the machine word: a 32-bit two's-complement integer.
// All arithmetic wraps at the word width.
type Word int32

const (
	WORD_BITS = 32 // Machine word width in bits.

	// WORD_UNDEF is the value of a DAT cell declared without an
	// initializer (bit pattern 0xDEADBEEF). It is a sentinel, not
	// zero; loading it is not a fault.
	WORD_UNDEF = Word(-0x21524111)

	// WORD_EOF is the value yielded by the input pseudo-cell at end
	// of input. It is outside the byte range.
	WORD_EOF = Word(-1)
)

// I/O pseudo-cell addresses. The CELL_IO region is disjoint from data
// cell indexes, which grow up from zero.
const (
	CELL_IO   = Word(1 << 30) // Mask of the pseudo-cell address region.
	CELL_GETC = CELL_IO | 0   // Blocking byte input ("stdin.getc").
	CELL_PUTC = CELL_IO | 1   // Byte output ("stdout.putc").
)

func (w Word) String() string {
	return fmt.Sprintf("0x%08X", uint32(w))
}
