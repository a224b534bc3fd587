// ABOUTME: Error values shared by every output backend
// ABOUTME: Maps failures onto one negative integer code convention
package output

import (
	"errors"
	"fmt"
	"reflect"
	"syscall"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
)

var (
	// ErrNoDevice is returned by Create when no backend could be opened.
	ErrNoDevice = errors.New("no audio output available")

	// ErrAlreadyOpen is returned by Open on a handle that is already open.
	ErrAlreadyOpen = errors.New("audio output already open")

	// ErrUnsupportedFormat is returned by Open when the backend has no
	// native equivalent for the requested sample format.
	ErrUnsupportedFormat = errors.New("unsupported sample format")

	// ErrInvalidLength is returned by Write when the data does not hold a
	// whole number of frames.
	ErrInvalidLength = errors.New("write length is not a whole number of frames")

	// ErrInvalidConfig is returned by Open for a zero rate or channel count.
	ErrInvalidConfig = errors.New("invalid stream configuration")
)

// Error is a failure reported by a backend. Code follows the package
// convention: always negative, and translatable with the backend's
// Strerror.
type Error struct {
	Backend string
	Op      string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v (code %d)", e.Backend, e.Op, e.Err, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the numeric status for err: 0 for nil, otherwise a
// negative value.
func Code(err error) int {
	if err == nil {
		return 0
	}

	var oe *Error
	if errors.As(err, &oe) && oe.Code != 0 {
		return oe.Code
	}

	switch {
	case errors.Is(err, ErrAlreadyOpen):
		return -int(syscall.EEXIST)
	case errors.Is(err, ErrNoDevice):
		return -int(syscall.ENODEV)
	case errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrInvalidLength),
		errors.Is(err, ErrInvalidConfig),
		errors.Is(err, audio.ErrInvalidStream):
		return -int(syscall.EINVAL)
	}

	return errnoCode(err)
}

// errnoCode returns -errno when err wraps a syscall.Errno and -1 otherwise.
func errnoCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return -int(errno)
	}
	return -1
}

// resultCode returns the integer status carried by errors from C audio
// libraries (miniaudio, PortAudio), which report failures as negative
// integer error types. Anything else is mapped with Code.
func resultCode(err error) int {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if code := int(v.Int()); code < 0 {
				return code
			}
		}
	}
	return Code(err)
}
