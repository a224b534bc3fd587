// ABOUTME: Stream configuration and sample conversion helpers
// ABOUTME: Validates format/rate/channel triples and packs 24-bit samples
package audio

import (
	"errors"
	"fmt"
	"time"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	// MaxChannels is the largest channel count a stream may request.
	MaxChannels = 255
)

// ErrInvalidStream is returned by StreamConfig.Validate.
var ErrInvalidStream = errors.New("invalid stream configuration")

// StreamConfig is the (format, rate, channels) triple an output is opened with
type StreamConfig struct {
	Format     SampleFormat
	SampleRate int
	Channels   int
}

// Validate checks that the configuration can describe a real stream.
func (c StreamConfig) Validate() error {
	if !c.Format.Valid() {
		return fmt.Errorf("%w: unknown sample format %d", ErrInvalidStream, int(c.Format))
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidStream, c.SampleRate)
	}
	if c.Channels <= 0 || c.Channels > MaxChannels {
		return fmt.Errorf("%w: %d channels", ErrInvalidStream, c.Channels)
	}
	return nil
}

// FrameSize returns the bytes in one frame, 1 for compressed formats.
func (c StreamConfig) FrameSize() int {
	return c.Format.FrameSize(c.Channels)
}

// BytesPerSecond returns the PCM byte rate, or 0 for compressed formats.
func (c StreamConfig) BytesPerSecond() int {
	if c.Format.IsCompressed() {
		return 0
	}
	return c.FrameSize() * c.SampleRate
}

// Duration returns how long n bytes of PCM take to play.
func (c StreamConfig) Duration(n int) time.Duration {
	bps := c.BytesPerSecond()
	if bps == 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(bps))
}

func (c StreamConfig) String() string {
	return fmt.Sprintf("%s %dHz %dch", c.Format, c.SampleRate, c.Channels)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// ClampTo24Bit limits v to the signed 24-bit range.
func ClampTo24Bit(v int64) int32 {
	if v > Max24Bit {
		return Max24Bit
	}
	if v < Min24Bit {
		return Min24Bit
	}
	return int32(v)
}
