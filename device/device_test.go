package device

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTape(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{
		Input:  bytes.NewReader([]byte("hi")),
		Output: output,
	}

	tape.Rewind()

	value, ok := tape.Getc()
	assert.True(ok)
	assert.Equal(byte('h'), value)

	value, ok = tape.Getc()
	assert.True(ok)
	assert.Equal(byte('i'), value)

	_, ok = tape.Getc()
	assert.False(ok)

	assert.NoError(tape.Putc('o'))
	assert.NoError(tape.Putc('k'))
	assert.Equal("ok", output.String())
}

func TestTapeUnattached(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}

	_, ok := tape.Getc()
	assert.False(ok)

	err := tape.Putc('x')
	assert.ErrorIs(err, ErrDeviceFull)
}

func TestRom(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{Data: []byte{1, 2, 3}}

	for _, want := range []byte{1, 2, 3} {
		value, ok := rom.Getc()
		assert.True(ok)
		assert.Equal(want, value)
	}

	_, ok := rom.Getc()
	assert.False(ok)

	err := rom.Putc(9)
	assert.ErrorIs(err, ErrDeviceReadOnly)

	// Rewind replays from the start.
	rom.Rewind()
	value, ok := rom.Getc()
	assert.True(ok)
	assert.Equal(byte(1), value)
}

func TestRing(t *testing.T) {
	assert := assert.New(t)

	ring := &Ring{Capacity: 4}
	ring.Rewind()

	_, ok := ring.Getc()
	assert.False(ok)

	for _, value := range []byte{10, 20, 30, 40} {
		assert.NoError(ring.Putc(value))
	}
	assert.ErrorIs(ring.Putc(50), ErrDeviceFull)

	assert.Equal([]byte{10, 20, 30, 40}, ring.Bytes())

	value, ok := ring.Getc()
	assert.True(ok)
	assert.Equal(byte(10), value)

	// Consuming frees capacity; the indexes wrap around.
	assert.NoError(ring.Putc(50))
	assert.Equal([]byte{20, 30, 40, 50}, ring.Bytes())

	for _, want := range []byte{20, 30, 40, 50} {
		value, ok = ring.Getc()
		assert.True(ok)
		assert.Equal(want, value)
	}

	_, ok = ring.Getc()
	assert.False(ok)

	ring.Rewind()
	assert.NoError(ring.Putc(60))
	assert.Equal([]byte{60}, ring.Bytes())
}
