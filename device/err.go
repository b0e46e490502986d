package device

import (
	"errors"

	"github.com/littlecomp/accsim/translate"
)

var f = translate.From

var (
	// Device errors
	ErrDeviceFull     = errors.New(f("device full"))
	ErrDeviceReadOnly = errors.New(f("device is read-only"))
)
