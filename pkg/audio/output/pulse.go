//go:build linux || freebsd

// ABOUTME: PulseAudio output through the native protocol client
// ABOUTME: The server pulls PCM from the bridge ring via a stream reader
package output

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/jfreymuth/pulse"
)

// PulseAudio sample format identifiers (pa_sample_format_t).
var pulseFormats = formatTable{
	audio.U8:        {Code: 0, Size: 1},
	audio.ALaw:      {Code: 1, Size: 1},
	audio.ULaw:      {Code: 2, Size: 1},
	audio.S16LE:     {Code: 3, Size: 2},
	audio.S16BE:     {Code: 4, Size: 2},
	audio.Float32LE: {Code: 5, Size: 4},
	audio.Float32BE: {Code: 6, Size: 4},
	audio.S32LE:     {Code: 7, Size: 4},
	audio.S32BE:     {Code: 8, Size: 4},
	audio.S24LE:     {Code: 9, Size: 3},
	audio.S24BE:     {Code: 10, Size: 3},
	audio.S24_32LE:  {Code: 11, Size: 4},
	audio.S24_32BE:  {Code: 12, Size: 4},
}

func init() {
	Register(Factory{Name: "pulseaudio", Priority: 10, New: newPulse})
}

// newPulse connects once to check a server is reachable.
func newPulse(cfg Config) (Backend, error) {
	client, err := pulse.NewClient(pulse.ClientApplicationName(cfg.ApplicationName))
	if err != nil {
		return nil, fmt.Errorf("connect to server: %w", err)
	}
	client.Close()

	return newRingBackend("pulseaudio", cfg, &pulseEngine{cfg: cfg}, pulseFormats, ringOptions{
		strerror: pulseStrerror,
		code:     pulseCode,
		codes:    pulseSentinels,
	}), nil
}

// pulseCode maps a client error onto a negative PulseAudio error number.
func pulseCode(err error) int {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return -paErrNotSupported
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ENOENT):
		return -paErrConnectionRefused
	case errors.Is(err, syscall.ETIMEDOUT):
		return -paErrTimeout
	case errors.Is(err, syscall.EPIPE), errors.Is(err, syscall.ECONNRESET):
		return -paErrConnectionTerminated
	case errors.Is(err, syscall.EBUSY):
		return -paErrBusy
	case errors.Is(err, syscall.EACCES):
		return -paErrAccess
	}
	return -paErrUnknown
}

// pulseSource hands the server whatever the bridge callback produces.
type pulseSource struct {
	format byte
	fill   func([]byte)
}

func (s *pulseSource) Read(p []byte) (int, error) {
	s.fill(p)
	return len(p), nil
}

func (s *pulseSource) Format() byte {
	return s.format
}

type pulseEngine struct {
	cfg    Config
	client *pulse.Client
	stream *pulse.PlaybackStream
}

func (e *pulseEngine) Init(cfg audio.StreamConfig, nf nativeFormat, fill func([]byte)) error {
	var layout pulse.PlaybackOption
	switch cfg.Channels {
	case 1:
		layout = pulse.PlaybackMono
	case 2:
		layout = pulse.PlaybackStereo
	default:
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, cfg.Channels)
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName(e.cfg.ApplicationName))
	if err != nil {
		return err
	}
	e.client = client

	opts := []pulse.PlaybackOption{
		layout,
		pulse.PlaybackSampleRate(cfg.SampleRate),
		pulse.PlaybackLatency(Latency.Seconds()),
	}
	if e.cfg.Description != "" {
		opts = append(opts, pulse.PlaybackMediaName(e.cfg.Description))
	}
	if e.cfg.Device != "" {
		sink, err := client.SinkByID(e.cfg.Device)
		if err != nil {
			return fmt.Errorf("sink %q: %w", e.cfg.Device, err)
		}
		opts = append(opts, pulse.PlaybackSink(sink))
	}

	src := &pulseSource{format: byte(nf.Code), fill: fill}
	stream, err := client.NewPlayback(src, opts...)
	if err != nil {
		return err
	}
	e.stream = stream
	return nil
}

func (e *pulseEngine) Start() error {
	e.stream.Start()
	return nil
}

func (e *pulseEngine) Stop() error {
	e.stream.Stop()
	return nil
}

// Drain waits out the server buffer. Stop leaves the stream uncorked, so
// the server plays what it already holds.
func (e *pulseEngine) Drain() error {
	if e.stream == nil {
		return nil
	}
	time.Sleep(time.Duration(e.stream.BufferSize()) * time.Second / time.Duration(e.stream.SampleRate()))
	return e.stream.Error()
}

func (e *pulseEngine) Err() error {
	if e.stream == nil {
		return nil
	}
	return e.stream.Error()
}

func (e *pulseEngine) Close() {
	if e.stream != nil {
		e.stream.Close()
		e.stream = nil
	}
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
}
