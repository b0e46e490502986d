package mach

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// SymbolKind is the address space a symbol resolves into.
type SymbolKind int

//go:generate go tool stringer -linecomment -type=SymbolKind
const (
	SYM_CELL = SymbolKind(0) // cell
	SYM_CODE = SymbolKind(1) // code
	SYM_IO   = SymbolKind(2) // io
)

// Symbol is a name bound to exactly one address, either a data cell,
// an instruction position, or an I/O pseudo-cell.
type Symbol struct {
	Kind   SymbolKind
	Addr   Word
	LineNo int
}

// Opcode represents one assembled source line: its location, source
// words, and the instruction it produced.
type Opcode struct {
	LineNo int
	Pc     int
	Words  []string
	Code   Instruction
}

// Program is the loader's output: address-assigned symbols, a decoded
// instruction sequence, and initial data cell values. It is consumed
// by the Machine and never mutated afterwards.
type Program struct {
	Opcodes []Opcode
	Cells   []Word
	Symbols map[string]Symbol
}

// Debug returns the opcode at an instruction address, or nil.
func (prog *Program) Debug(pc int) (dbg *Opcode) {
	n, ok := slices.BinarySearchFunc(prog.Opcodes, pc, func(op Opcode, pc int) int {
		return op.Pc - pc
	})
	if ok {
		dbg = &prog.Opcodes[n]
	}

	return
}

// Codes iterates the instruction sequence in address order.
func (prog *Program) Codes() iter.Seq2[int, Instruction] {
	return func(yield func(pc int, code Instruction) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Pc, op.Code) {
				return
			}
		}
	}
}

// Listing returns a human-readable disassembly of the program.
func (prog *Program) Listing() string {
	var sb strings.Builder

	for _, name := range slices.Sorted(maps.Keys(prog.Symbols)) {
		sym := prog.Symbols[name]
		if sym.Kind != SYM_CELL {
			continue
		}
		fmt.Fprintf(&sb, "; %v: cell %d = %v\n", name, int32(sym.Addr), prog.Cells[sym.Addr])
	}
	for pc, code := range prog.Codes() {
		fmt.Fprintf(&sb, "%04d: %v\n", pc, code)
	}

	return sb.String()
}
