// ABOUTME: Sine test tone generator
// ABOUTME: Fills go-audio IntBuffers with a 24-bit sine wave on every channel
package tone

import (
	"errors"
	"math"
	"sync"

	goaudio "github.com/go-audio/audio"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
)

const (
	// DefaultFrequency is A4
	DefaultFrequency = 440.0

	// DefaultVolume keeps the tone at half scale
	DefaultVolume = 0.5

	// BitDepth of the generated samples
	BitDepth = 24
)

var errInvalidTone = errors.New("tone: invalid parameters")

// Sine generates a continuous sine tone
type Sine struct {
	sampleIndex uint64
	sampleMu    sync.Mutex
	frequency   float64
	volume      float64
	sampleRate  int
	channels    int
}

// NewSine creates a tone generator for the given rate and channel count
func NewSine(frequency float64, sampleRate, channels int) (*Sine, error) {
	if frequency <= 0 || sampleRate <= 0 || channels <= 0 || channels > audio.MaxChannels {
		return nil, errInvalidTone
	}
	if frequency >= float64(sampleRate)/2 {
		return nil, errInvalidTone
	}

	return &Sine{
		frequency:  frequency,
		volume:     DefaultVolume,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// SetVolume sets the amplitude in [0, 1]
func (s *Sine) SetVolume(v float64) {
	s.sampleMu.Lock()
	defer s.sampleMu.Unlock()

	s.volume = math.Max(0, math.Min(1, v))
}

// NewBuffer allocates an IntBuffer holding frames frames
func (s *Sine) NewBuffer(frames int) *goaudio.IntBuffer {
	return &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: s.channels,
			SampleRate:  s.sampleRate,
		},
		Data:           make([]int, frames*s.channels),
		SourceBitDepth: BitDepth,
	}
}

// Fill writes the next len(buf.Data)/channels frames into buf
func (s *Sine) Fill(buf *goaudio.IntBuffer) int {
	s.sampleMu.Lock()
	defer s.sampleMu.Unlock()

	frames := len(buf.Data) / s.channels
	for i := 0; i < frames; i++ {
		t := float64(s.sampleIndex+uint64(i)) / float64(s.sampleRate)
		sample := math.Sin(2 * math.Pi * s.frequency * t)
		v := int(sample * float64(audio.Max24Bit) * s.volume)

		for ch := 0; ch < s.channels; ch++ {
			buf.Data[i*s.channels+ch] = v
		}
	}

	s.sampleIndex += uint64(frames)
	return frames
}

// Position returns the number of frames generated so far
func (s *Sine) Position() uint64 {
	s.sampleMu.Lock()
	defer s.sampleMu.Unlock()
	return s.sampleIndex
}

func (s *Sine) SampleRate() int { return s.sampleRate }
func (s *Sine) Channels() int   { return s.channels }
