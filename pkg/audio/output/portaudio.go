//go:build portaudio

// ABOUTME: PortAudio pull engine, built with -tags portaudio
// ABOUTME: Typed PortAudio callbacks are fed from the bridge ring
package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
)

var portaudioFormats = formatTable{
	audio.S16LE:     {Code: 16, Size: 2},
	audio.Float32LE: {Code: 32, Size: 4},
}

func init() {
	Register(Factory{Name: "portaudio", Priority: 90, New: newPortAudio})
}

func newPortAudio(cfg Config) (Backend, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	_, err := portaudio.DefaultOutputDevice()
	portaudio.Terminate()
	if err != nil {
		return nil, fmt.Errorf("no default output device: %w", err)
	}

	return newRingBackend("portaudio", cfg, &portaudioEngine{cfg: cfg}, portaudioFormats, ringOptions{
		strerror: portaudioStrerror,
		code:     resultCode,
		codes:    sentinelCodes{unsupported: paSampleFormatNotSupported},
	}), nil
}

// PortAudio error numbers start at -10000. Codes above paErrorRangeEnd
// are -errno values from the package itself.
const (
	paSampleFormatNotSupported = -9994
	paErrorRangeEnd            = -9900
)

func portaudioStrerror(code int) string {
	if code > paErrorRangeEnd {
		return errnoStrerror(code)
	}
	return portaudio.Error(code).Error()
}

type portaudioEngine struct {
	cfg         Config
	stream      *portaudio.Stream
	scratch     []byte
	initialized bool
}

func (e *portaudioEngine) Init(cfg audio.StreamConfig, nf nativeFormat, fill func([]byte)) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	e.initialized = true

	frames := cfg.SampleRate / 100
	e.scratch = make([]byte, frames*cfg.Channels*nf.Size)

	var callback interface{}
	switch cfg.Format {
	case audio.S16LE:
		callback = func(out []int16) {
			buf := e.buffer(len(out) * 2)
			fill(buf)
			for i := range out {
				out[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
			}
		}
	case audio.Float32LE:
		callback = func(out []float32) {
			buf := e.buffer(len(out) * 4)
			fill(buf)
			for i := range out {
				out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
			}
		}
	}

	params, err := e.parameters(cfg, frames)
	if err != nil {
		return err
	}

	stream, err := portaudio.OpenStream(params, callback)
	if err != nil {
		return err
	}
	e.stream = stream
	return nil
}

// buffer returns scratch space of n bytes, growing only if PortAudio asks
// for more than one period.
func (e *portaudioEngine) buffer(n int) []byte {
	if n > len(e.scratch) {
		e.scratch = make([]byte, n)
	}
	return e.scratch[:n]
}

func (e *portaudioEngine) parameters(cfg audio.StreamConfig, frames int) (portaudio.StreamParameters, error) {
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return portaudio.StreamParameters{}, err
	}

	if e.cfg.Device != "" {
		devices, err := portaudio.Devices()
		if err != nil {
			return portaudio.StreamParameters{}, err
		}
		dev = nil
		for _, d := range devices {
			if d.MaxOutputChannels > 0 && strings.EqualFold(d.Name, e.cfg.Device) {
				dev = d
				break
			}
		}
		if dev == nil {
			return portaudio.StreamParameters{}, fmt.Errorf("playback device %q not found", e.cfg.Device)
		}
	}

	params := portaudio.LowLatencyParameters(nil, dev)
	params.Output.Channels = cfg.Channels
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = frames
	return params, nil
}

func (e *portaudioEngine) Start() error {
	return e.stream.Start()
}

func (e *portaudioEngine) Stop() error {
	return e.stream.Stop()
}

func (e *portaudioEngine) Err() error {
	return nil
}

func (e *portaudioEngine) Close() {
	if e.stream != nil {
		if err := e.stream.Close(); err != nil {
			log.Debugf("portaudio: close stream: %v", err)
		}
		e.stream = nil
	}
	if e.initialized {
		portaudio.Terminate()
		e.initialized = false
	}
}
