package device

// Rom is a read-only device preloaded with byte data. Reads walk the
// data once; writes always fail.
type Rom struct {
	Data []byte

	readIndex int
}

var _ Device = (*Rom)(nil)

func (rc *Rom) Rewind() {
	rc.readIndex = 0
}

func (rc *Rom) Getc() (value byte, ok bool) {
	if rc.readIndex >= len(rc.Data) {
		return
	}

	value = rc.Data[rc.readIndex]
	rc.readIndex++
	ok = true

	return
}

func (rc *Rom) Putc(value byte) error {
	return ErrDeviceReadOnly
}
