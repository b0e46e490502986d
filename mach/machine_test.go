package mach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/littlecomp/accsim/device"
)

// fibonacci emits successive Fibonacci values as raw byte codes. The
// count of values is read as a single ASCII digit from the input cell.
var fibonacci = []string{
	"zero:  DAT -0x30",
	"last:  DAT",
	"curr:  DAT 0",
	"next:  DAT 1",
	"count: DAT",
	"decr:  DAT -1",
	"",
	"start: LDV stdin.getc",
	"       ADD zero",
	"       STV count",
	"",
	"loop:  LDV count",
	"       ADD decr",
	"       JMN done",
	"       STV count",
	"",
	"       LDV curr",
	"       STV stdout.putc",
	"       STV last",
	"",
	"       LDV next",
	"       STV curr",
	"",
	"       ADD last",
	"       STV next",
	"",
	"       JMP loop",
	"",
	"done:  HLT",
}

// runMachine assembles and runs a program with a preloaded input device
// and a ring capturing output.
func runMachine(t *testing.T, program []string, input []byte) (m *Machine, out *device.Ring, err error) {
	t.Helper()

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	out = &device.Ring{Capacity: 256}

	m = NewMachine()
	m.SetDevice(CELL_GETC, &device.Rom{Data: input})
	m.SetDevice(CELL_PUTC, out)
	m.Reset(prog)

	err = m.Run()

	return
}

func TestMachineFibonacci(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		input  []byte
		output []byte
	}){
		{"five", []byte{'5'}, []byte{0, 1, 1, 2, 3}},
		{"three", []byte{'3'}, []byte{0, 1, 1}},
		{"zero", []byte{'0'}, []byte{}},
	}

	for _, entry := range table {
		m, out, err := runMachine(t, fibonacci, entry.input)
		assert.NoError(err, entry.name)
		assert.Equal(STATE_HALTED, m.State, entry.name)
		assert.Equal(entry.output, out.Bytes(), entry.name)
	}
}

func TestMachineJmn(t *testing.T) {
	assert := assert.New(t)

	// JMN branches strictly on negative; zero falls through.
	table := [](struct {
		name  string
		value string
		acc   Word
	}){
		{"negative", "-1", 1},
		{"zero", "0", 2},
		{"positive", "7", 2},
	}

	for _, entry := range table {
		program := []string{
			"v: DAT " + entry.value,
			"LDV v",
			"JMN neg",
			"LDC 2",
			"HLT",
			"neg: LDC 1",
			"HLT",
		}

		m, _, err := runMachine(t, program, nil)
		assert.NoError(err, entry.name)
		assert.Equal(entry.acc, m.Acc, entry.name)
	}
}

func TestMachineOverflowWrap(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"big: DAT 0x7fffffff",
		"LDV big",
		"ADD big",
		"HLT",
	}

	m, _, err := runMachine(t, program, nil)
	assert.NoError(err)
	// (2^31-1) + (2^31-1) mod 2^32, reinterpreted as signed.
	assert.Equal(Word(-2), m.Acc)
	assert.Equal(STATE_HALTED, m.State)
}

func TestMachineUndefSentinel(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"cell: DAT",
		"LDV cell",
		"HLT",
	}

	m, _, err := runMachine(t, program, nil)
	assert.NoError(err)
	assert.Equal(WORD_UNDEF, m.Acc)
}

func TestMachinePcBounds(t *testing.T) {
	assert := assert.New(t)

	// No HLT: the program counter runs off the end.
	program := []string{
		"v: DAT 1",
		"LDV v",
		"ADD v",
	}

	m, _, err := runMachine(t, program, nil)
	assert.Error(err)
	assert.ErrorIs(err, ErrPcBounds)
	assert.Equal(STATE_FAULTED, m.State)
	assert.ErrorIs(m.Fault, ErrPcBounds)

	// Faulted machines stay faulted.
	err = m.Step()
	assert.ErrorIs(err, ErrMachineStopped)
	assert.Equal(STATE_FAULTED, m.State)
}

func TestMachineIoDirection(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		want    error
	}){
		{"write_getc", []string{"LDC 65", "STV stdin.getc", "HLT"}, ErrCellReadOnly},
		{"read_putc", []string{"LDV stdout.putc", "HLT"}, ErrCellWriteOnly},
	}

	for _, entry := range table {
		m, _, err := runMachine(t, entry.program, nil)
		assert.Error(err, entry.name)
		assert.ErrorIs(err, entry.want, entry.name)
		assert.Equal(STATE_FAULTED, m.State, entry.name)
	}
}

func TestMachineEof(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDV stdin.getc",
		"HLT",
	}

	// Empty input yields the end-of-input sentinel, not a fault.
	m, _, err := runMachine(t, program, []byte{})
	assert.NoError(err)
	assert.Equal(WORD_EOF, m.Acc)

	m, _, err = runMachine(t, program, []byte{'A'})
	assert.NoError(err)
	assert.Equal(Word('A'), m.Acc)
}

func TestMachineCellBounds(t *testing.T) {
	assert := assert.New(t)

	// A raw numeric operand can address past the declared cells;
	// that is a run-time fault, not a load-time error.
	program := []string{
		"v: DAT 1",
		"LDV 100",
		"HLT",
	}

	m, _, err := runMachine(t, program, nil)
	assert.ErrorIs(err, ErrCellBounds)
	assert.Equal(STATE_FAULTED, m.State)
}

func TestMachineOps(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		acc     Word
	}){
		{"ldc", []string{"LDC -5", "HLT"}, -5},
		{"not", []string{"LDC 0", "NOT", "HLT"}, -1},
		{"and", []string{"v: DAT 0x0f", "LDC 0xff", "AND v", "HLT"}, 0x0f},
		{"or", []string{"v: DAT 0x10", "LDC 0x01", "OR v", "HLT"}, 0x11},
		{"xor", []string{"v: DAT 0xff", "LDC 0x0f", "XOR v", "HLT"}, 0xf0},
		{"eql_hit", []string{"v: DAT 42", "LDC 42", "EQL v", "HLT"}, -1},
		{"eql_miss", []string{"v: DAT 42", "LDC 41", "EQL v", "HLT"}, 0},
		{"rar", []string{"LDC 1", "RAR 1", "HLT"}, Word(-0x80000000)},
		{"rar_word", []string{"LDC 0x12345678", "RAR 32", "HLT"}, 0x12345678},
		{"nop", []string{"LDC 3", "NOP", "HLT"}, 3},
	}

	for _, entry := range table {
		m, _, err := runMachine(t, entry.program, nil)
		assert.NoError(err, entry.name)
		assert.Equal(entry.acc, m.Acc, entry.name)
		assert.Equal(STATE_HALTED, m.State, entry.name)
	}
}

func TestMachineStvKeepsAcc(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"a: DAT 0",
		"b: DAT 0",
		"LDC 9",
		"STV a",
		"STV b",
		"HLT",
	}

	m, _, err := runMachine(t, program, nil)
	assert.NoError(err)
	assert.Equal(Word(9), m.Acc)
	assert.Equal(Word(9), m.Cells[0])
	assert.Equal(Word(9), m.Cells[1])
}

func TestMachineRestart(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		"v: DAT 1",
		"LDV v",
		"ADD v",
		"STV v",
		"HLT",
	}, "\n")))
	assert.NoError(err)

	m := NewMachine()

	// Two runs from one program start from the same initial cells.
	for range 2 {
		m.Reset(prog)
		assert.Equal(STATE_RUNNING, m.State)
		assert.Equal(Word(0), m.Acc)

		err = m.Run()
		assert.NoError(err)
		assert.Equal(Word(2), m.Cells[0])
		assert.Equal(4, m.Ticks)
	}
}
