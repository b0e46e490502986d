package mach

import (
	"errors"

	"github.com/littlecomp/accsim/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrMachineStopped = errors.New(f("machine not running"))
	ErrPcBounds       = errors.New(f("program counter out of bounds"))
	ErrCellBounds     = errors.New(f("cell address out of bounds"))
	ErrCellReadOnly   = errors.New(f("cell is read-only"))
	ErrCellWriteOnly  = errors.New(f("cell is write-only"))
	ErrDeviceMissing  = errors.New(f("no device attached"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("symbol duplicated"))
	ErrLabelReserved   = errors.New(f("symbol name reserved"))
	ErrLabelInvalid    = errors.New(f("symbol name invalid"))
	ErrDataSyntax      = errors.New(f("DAT syntax"))
	ErrOpcodeUnknown   = errors.New(f("opcode unknown"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrOperandKind     = errors.New(f("operand kind mismatch"))
)

// ErrSymbolMissing reports a reference to a symbol no line declares.
type ErrSymbolMissing string

func (err ErrSymbolMissing) Error() string {
	return f("symbol %v missing", string(err))
}

// ErrInstruction tags a fault with the instruction that raised it.
type ErrInstruction Instruction

func (err ErrInstruction) Error() string {
	return f("instruction %v", Instruction(err).String())
}

func (err ErrInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrInstruction)
	return
}

// ErrSyntax locates a load-time error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
