package emulator

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/littlecomp/accsim/device"
	"github.com/littlecomp/accsim/internal"
	"github.com/littlecomp/accsim/mach"
)

const (
	RING_SIZE = 4096 // Capacity of the scratch ring device.
)

var _emulator_defines = map[string]string{
	"RING_SIZE": fmt.Sprintf("%v", RING_SIZE),
}

// Emulator state. Machine + assembler + tape I/O.
type Emulator struct {
	Verbose       bool          // If set, enables verbose logging.
	*mach.Machine               // The machine simulation.
	Program       *mach.Program // The currently loaded program.

	Tape device.Tape // Tape device behind both pseudo-cells.

	Assembler mach.Assembler

	capture *device.Ring
}

// NewEmulator creates a new emulator with the tape attached to the
// input and output pseudo-cells.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: mach.NewMachine(),
		Program: &mach.Program{},
	}

	emu.Machine.SetDevice(mach.CELL_GETC, &emu.Tape)
	emu.Machine.SetDevice(mach.CELL_PUTC, &emu.Tape)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Machine.Defines(),
		emu.Tape.Defines(),
	)
}

// Load assembles source text, with the emulator defines predefined, and
// resets the machine to run the result.
func (emu *Emulator) Load(input io.Reader) (err error) {
	emu.Assembler.Verbose = emu.Verbose
	for attr, val := range emu.Defines() {
		emu.Assembler.Predefine(attr, val)
	}

	prog, err := emu.Assembler.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Reset()

	return
}

// Reset the machine to the start of the loaded program.
func (emu *Emulator) Reset() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.Reset(emu.Program)
}

// Capture redirects the output pseudo-cell into a bounded ring buffer
// instead of the tape. Captured returns what has been emitted so far.
func (emu *Emulator) Capture() {
	emu.capture = &device.Ring{Capacity: RING_SIZE}
	emu.capture.Rewind()
	emu.Machine.SetDevice(mach.CELL_PUTC, emu.capture)
}

// Captured returns the output bytes collected since Capture.
func (emu *Emulator) Captured() (out []byte) {
	if emu.capture != nil {
		out = emu.capture.Bytes()
	}

	return
}

// LineNo returns the source line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Machine.Pc)
	if dbg == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single step of the emulator. done reports a normal
// halt; a fault is returned with its source line attached.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Machine.Step()
	if err != nil {
		return
	}

	done = emu.Machine.State != mach.STATE_RUNNING

	return
}

// Run executes the loaded program to completion.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}
