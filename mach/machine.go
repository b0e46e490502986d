package mach

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math/bits"

	"github.com/littlecomp/accsim/device"
)

// Device is a byte I/O device attached to a pseudo-cell.
type Device device.Device

// State is the execution state of the machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

// wordBits returns the two's-complement bit pattern of a word; the
// conversion must be non-constant because negative words overflow a
// constant uint32 conversion.
func wordBits(w Word) uint32 { return uint32(w) }

var _mach_defines = map[string]string{
	"CELL_GETC":  fmt.Sprintf("%#v", uint32(CELL_GETC)),
	"CELL_PUTC":  fmt.Sprintf("%#v", uint32(CELL_PUTC)),
	"WORD_EOF":   fmt.Sprintf("%#v", wordBits(WORD_EOF)),
	"WORD_UNDEF": fmt.Sprintf("%#v", wordBits(WORD_UNDEF)),
}

// Machine is the execution context for one program run: the accumulator,
// the program counter, the data cells, and the attached devices. It owns
// all of its state exclusively; Reset makes it restartable.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Acc   Word   // Accumulator register.
	Pc    int    // Program counter (instruction index).
	Cells []Word // Data cells, in declaration order.
	State State  // Current execution state.
	Fault error  // Fault reason when State is STATE_FAULTED.

	Ticks int // Instructions executed since Reset.

	prog   *Program
	device [2]device.Device // Pseudo-cell devices, indexed by low address bits.
}

// NewMachine creates a machine with no program loaded.
func NewMachine() (m *Machine) {
	m = &Machine{
		State: STATE_HALTED,
	}

	return
}

// Defines for the machine.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_mach_defines)
}

// SetDevice attaches a device to a pseudo-cell address.
func (m *Machine) SetDevice(addr Word, dev device.Device) {
	m.device[int(addr&^CELL_IO)] = dev
}

// GetDevice gets the device attached to a pseudo-cell address.
func (m *Machine) GetDevice(addr Word) (dev device.Device, err error) {
	index := int(addr &^ CELL_IO)
	if index >= len(m.device) || m.device[index] == nil {
		err = ErrDeviceMissing
		return
	}

	dev = m.device[index]

	return
}

// Reset loads a resolved program and prepares a fresh run: accumulator
// zero, program counter zero, cells at their declared initial values,
// devices rewound.
func (m *Machine) Reset(prog *Program) {
	if m.Verbose {
		log.Printf("mach: reset")
	}

	m.prog = prog
	m.Acc = 0
	m.Pc = 0
	m.Ticks = 0
	m.State = STATE_RUNNING
	m.Fault = nil

	m.Cells = make([]Word, len(prog.Cells))
	copy(m.Cells, prog.Cells)

	for _, dev := range m.device {
		if dev == nil {
			continue
		}
		dev.Rewind()
	}
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	regs := []string{"acc", "pc", "state", "ticks"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "acc":
			strval = m.Acc.String()
		case "pc":
			strval = fmt.Sprintf("%04d", m.Pc)
		case "state":
			strval = m.State.String()
		case "ticks":
			strval = fmt.Sprintf("%d", m.Ticks)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// load reads the value of a cell address: a data cell, or one byte from
// a reading pseudo-cell.
func (m *Machine) load(addr Word) (value Word, err error) {
	if addr&CELL_IO == 0 {
		if addr < 0 || int(addr) >= len(m.Cells) {
			err = errors.Join(ErrCellBounds, fmt.Errorf("cell %d", int32(addr)))
			return
		}
		value = m.Cells[addr]
		return
	}

	if addr != CELL_GETC {
		err = ErrCellWriteOnly
		return
	}

	dev, err := m.GetDevice(addr)
	if err != nil {
		return
	}

	b, ok := dev.Getc()
	if !ok {
		value = WORD_EOF
		return
	}
	value = Word(b)

	return
}

// store writes the value to a cell address: a data cell, or one byte to
// the writing pseudo-cell.
func (m *Machine) store(addr Word, value Word) (err error) {
	if addr&CELL_IO == 0 {
		if addr < 0 || int(addr) >= len(m.Cells) {
			err = errors.Join(ErrCellBounds, fmt.Errorf("cell %d", int32(addr)))
			return
		}
		m.Cells[addr] = value
		return
	}

	if addr != CELL_PUTC {
		err = ErrCellReadOnly
		return
	}

	dev, err := m.GetDevice(addr)
	if err != nil {
		return
	}

	err = dev.Putc(byte(uint32(value) & 0xff))

	return
}

// Step executes a single fetch-decode-execute cycle. Any returned error
// is a fault: the machine transitions to STATE_FAULTED and stays there.
func (m *Machine) Step() (err error) {
	if m.State != STATE_RUNNING {
		return ErrMachineStopped
	}

	defer func() {
		if err != nil {
			m.State = STATE_FAULTED
			m.Fault = err
		}
	}()

	if m.Pc < 0 || m.Pc >= len(m.prog.Opcodes) {
		err = errors.Join(ErrPcBounds, fmt.Errorf("pc %d", m.Pc))
		return
	}

	code := m.prog.Opcodes[m.Pc].Code

	if m.Verbose {
		log.Printf("%04d: %v", m.Pc, code)
	}

	next := m.Pc + 1

	switch code.Op {
	case OP_LDV, OP_ADD, OP_AND, OP_OR, OP_XOR, OP_EQL:
		var value Word
		value, err = m.load(code.Arg)
		if err != nil {
			break
		}
		switch code.Op {
		case OP_LDV:
			m.Acc = value
		case OP_ADD:
			// Fixed-width signed wraparound; overflow is silent.
			m.Acc += value
		case OP_AND:
			m.Acc &= value
		case OP_OR:
			m.Acc |= value
		case OP_XOR:
			m.Acc ^= value
		case OP_EQL:
			if m.Acc == value {
				m.Acc = -1
			} else {
				m.Acc = 0
			}
		}
	case OP_STV:
		err = m.store(code.Arg, m.Acc)
	case OP_LDC:
		m.Acc = code.Arg
	case OP_JMP:
		next = int(code.Arg)
	case OP_JMN:
		// Strictly negative: zero does not branch.
		if m.Acc < 0 {
			next = int(code.Arg)
		}
	case OP_NOT:
		m.Acc = ^m.Acc
	case OP_RAR:
		m.Acc = Word(bits.RotateLeft32(uint32(m.Acc), -int(code.Arg&(WORD_BITS-1))))
	case OP_NOP:
		// pass
	case OP_HLT:
		m.State = STATE_HALTED
		m.Ticks++
		return
	default:
		err = errors.Join(ErrOpcodeUnknown, ErrInstruction(code))
		return
	}

	if err != nil {
		err = errors.Join(ErrInstruction(code), err)
		return
	}

	m.Pc = next
	m.Ticks++

	return
}

// Run executes until the machine halts or faults. A fault is returned;
// a normal halt is not.
func (m *Machine) Run() (err error) {
	for m.State == STATE_RUNNING {
		err = m.Step()
		if err != nil {
			return
		}
	}

	return
}
