// Package mach implements a little-computer accumulator machine and its
// assembler.
//
// The machine has a single 32-bit accumulator, a program counter, a flat
// array of named data cells, and two memory-mapped I/O pseudo-cells
// (stdin.getc, stdout.putc). Execution is a synchronous fetch-decode-
// execute loop that runs to a halt or a fault.
//
// The assembler turns labeled source text into a resolved Program in two
// passes: symbol collection, then instruction resolution. It supports
// equates, compile-time $() expression evaluation, and character
// literals.
package mach
