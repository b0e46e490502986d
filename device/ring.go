package device

// Ring implements a circular byte buffer device. It operates as a FIFO
// queue with a fixed capacity and separate read/write positions; it can
// capture output and replay it as input.
type Ring struct {
	Capacity int // Capacity in bytes.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []byte
}

var _ Device = (*Ring)(nil)

// Rewind resets the ring to empty, reinitializing the data buffer.
func (ring *Ring) Rewind() {
	ring.ReadIndex = 0
	ring.WriteIndex = 0
	ring.Size = 0
	ring.Data = make([]byte, ring.Capacity)
}

// Getc reads the oldest byte in the buffer. ok is false when empty.
func (ring *Ring) Getc() (value byte, ok bool) {
	if ring.Size == 0 {
		return
	}

	value = ring.Data[ring.ReadIndex]
	ring.ReadIndex++
	if ring.ReadIndex == ring.Capacity {
		ring.ReadIndex = 0
	}
	ring.Size--
	ok = true

	return
}

// Putc writes a byte at the current write position.
// Returns ErrDeviceFull if the buffer has reached capacity.
func (ring *Ring) Putc(value byte) (err error) {
	if ring.Size >= ring.Capacity {
		err = ErrDeviceFull
		return
	}

	ring.Data[ring.WriteIndex] = value

	ring.WriteIndex++
	if ring.WriteIndex == ring.Capacity {
		ring.WriteIndex = 0
	}
	ring.Size++

	return
}

// Bytes returns the queued bytes in read order without consuming them.
func (ring *Ring) Bytes() (out []byte) {
	index := ring.ReadIndex
	for range ring.Size {
		out = append(out, ring.Data[index])
		index++
		if index == ring.Capacity {
			index = 0
		}
	}

	return
}
