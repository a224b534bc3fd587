// ABOUTME: Audio output handle and the backend interface it delegates to
// ABOUTME: Every handle method is safe to call on a nil or destroyed handle
package output

import (
	"fmt"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/google/uuid"
)

// Backend is implemented by each native audio API.
type Backend interface {
	// Name returns the backend identifier ("pulseaudio", "alsa", ...).
	Name() string

	// Open starts a stream. It fails with ErrAlreadyOpen if a stream is
	// already open and with ErrUnsupportedFormat if the format has no
	// native equivalent; the handle stays closed on failure.
	Open(cfg audio.StreamConfig) error

	// Close releases the stream. It is idempotent.
	Close()

	// Destroy closes the stream and releases the backend itself.
	Destroy()

	// Write blocks until data has been handed to the native API. It is
	// a no-op when no stream is open.
	Write(data []byte) error

	// Drain blocks until queued data has finished playing.
	Drain() error

	// Flush discards queued data and cancels a blocked Write or Drain.
	Flush() error

	// Strerror translates a negative code produced by this backend.
	Strerror(code int) string
}

// Object is an audio output handle returned by Create.
//
// Write and Drain may block; Flush may be called from another goroutine
// to cancel them. Other methods must not race with each other.
type Object struct {
	id      string
	backend Backend
}

func newObject(b Backend) *Object {
	return &Object{
		id:      uuid.NewString(),
		backend: b,
	}
}

// NewObject wraps an already constructed backend in a handle.
func NewObject(b Backend) *Object {
	if b == nil {
		return nil
	}
	return newObject(b)
}

// ID returns a unique identifier for this handle, used in log output.
func (o *Object) ID() string {
	if o == nil {
		return ""
	}
	return o.id
}

// Backend returns the name of the selected backend.
func (o *Object) Backend() string {
	if o == nil || o.backend == nil {
		return ""
	}
	return o.backend.Name()
}

// sentinelCoder is implemented by backends whose status codes do not
// follow errno.
type sentinelCoder interface {
	sentinelCode(err error) int
}

// Open starts a stream with the given format, rate and channel count.
func (o *Object) Open(format audio.SampleFormat, rate, channels int) error {
	if o == nil || o.backend == nil {
		return nil
	}

	cfg := audio.StreamConfig{Format: format, SampleRate: rate, Channels: channels}
	if err := cfg.Validate(); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		code := Code(err)
		if sc, ok := o.backend.(sentinelCoder); ok {
			code = sc.sentinelCode(err)
		}
		return &Error{Backend: o.backend.Name(), Op: "open", Code: code, Err: err}
	}

	if err := o.backend.Open(cfg); err != nil {
		return err
	}

	log.Debugf("[%s] opened %s stream: %s", o.id, o.backend.Name(), cfg)
	return nil
}

// Close stops the stream. The handle can be opened again.
func (o *Object) Close() {
	if o == nil || o.backend == nil {
		return
	}
	o.backend.Close()
}

// Destroy closes the stream and releases the handle. Later calls are no-ops.
func (o *Object) Destroy() {
	if o == nil || o.backend == nil {
		return
	}
	o.backend.Destroy()
	o.backend = nil
}

// Write plays data, which must hold whole frames in the opened format.
func (o *Object) Write(data []byte) error {
	if o == nil || o.backend == nil {
		return nil
	}
	return o.backend.Write(data)
}

// Drain waits for queued audio to finish playing.
func (o *Object) Drain() error {
	if o == nil || o.backend == nil {
		return nil
	}
	return o.backend.Drain()
}

// Flush discards queued audio.
func (o *Object) Flush() error {
	if o == nil || o.backend == nil {
		return nil
	}
	return o.backend.Flush()
}

// Strerror translates a code returned by Code for an error from this handle.
func (o *Object) Strerror(code int) string {
	if o == nil || o.backend == nil {
		return ""
	}
	return o.backend.Strerror(code)
}
