package mach

import (
	"fmt"
)

// Op is a machine opcode.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LDV = Op(0)  // LDV
	OP_ADD = Op(1)  // ADD
	OP_AND = Op(2)  // AND
	OP_OR  = Op(3)  // OR
	OP_XOR = Op(4)  // XOR
	OP_EQL = Op(5)  // EQL
	OP_STV = Op(6)  // STV
	OP_LDC = Op(7)  // LDC
	OP_JMP = Op(8)  // JMP
	OP_JMN = Op(9)  // JMN
	OP_NOT = Op(10) // NOT
	OP_RAR = Op(11) // RAR
	OP_NOP = Op(12) // NOP
	OP_HLT = Op(13) // HLT
)

// OpArg is the operand class an opcode expects.
type OpArg int

//go:generate go tool stringer -linecomment -type=OpArg
const (
	ARG_NONE = OpArg(0) // none
	ARG_CELL = OpArg(1) // cell
	ARG_CODE = OpArg(2) // code
	ARG_WORD = OpArg(3) // word
)

// opMap maps source mnemonics (upper case) to opcodes.
var opMap = map[string]Op{
	"LDV": OP_LDV,
	"ADD": OP_ADD,
	"AND": OP_AND,
	"OR":  OP_OR,
	"XOR": OP_XOR,
	"EQL": OP_EQL,
	"STV": OP_STV,
	"LDC": OP_LDC,
	"JMP": OP_JMP,
	"JMN": OP_JMN,
	"NOT": OP_NOT,
	"RAR": OP_RAR,
	"NOP": OP_NOP,
	"HLT": OP_HLT,
}

// opArgs maps each opcode to its operand class.
var opArgs = map[Op]OpArg{
	OP_LDV: ARG_CELL,
	OP_ADD: ARG_CELL,
	OP_AND: ARG_CELL,
	OP_OR:  ARG_CELL,
	OP_XOR: ARG_CELL,
	OP_EQL: ARG_CELL,
	OP_STV: ARG_CELL,
	OP_LDC: ARG_WORD,
	OP_JMP: ARG_CODE,
	OP_JMN: ARG_CODE,
	OP_NOT: ARG_NONE,
	OP_RAR: ARG_WORD,
	OP_NOP: ARG_NONE,
	OP_HLT: ARG_NONE,
}

// Arg returns the operand class of the opcode.
func (op Op) Arg() OpArg {
	return opArgs[op]
}

// Instruction is a single decoded instruction: an opcode and its
// load-time-resolved argument. Immutable once loaded.
type Instruction struct {
	Op  Op
	Arg Word
}

// String returns the assembly language representation of the instruction.
func (code Instruction) String() (out string) {
	switch code.Op.Arg() {
	case ARG_NONE:
		out = code.Op.String()
	case ARG_CODE:
		out = fmt.Sprintf("%v %d", code.Op, int32(code.Arg))
	default:
		out = fmt.Sprintf("%v %v", code.Op, code.Arg)
	}

	return
}
