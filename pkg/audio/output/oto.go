//go:build darwin || windows

// ABOUTME: Oto-based pull engine used where no cgo engine is available
// ABOUTME: Oto allows one context per process, so the format is fixed by the first open
package output

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/ebitengine/oto/v3"
)

var otoFormats = formatTable{
	audio.U8:        {Code: int(oto.FormatUnsignedInt8), Size: 1},
	audio.S16LE:     {Code: int(oto.FormatSignedInt16LE), Size: 2},
	audio.Float32LE: {Code: int(oto.FormatFloat32LE), Size: 4},
}

// otoContext is the process-wide oto context.
var otoContext struct {
	mu  sync.Mutex
	ctx *oto.Context
	cfg audio.StreamConfig
}

const otoDrainTimeout = 2 * time.Second

func init() {
	Register(Factory{Name: "oto", Priority: 50, New: newOto})
}

func newOto(cfg Config) (Backend, error) {
	return newRingBackend("oto", cfg, &otoEngine{}, otoFormats, ringOptions{}), nil
}

// sharedOtoContext returns the oto context, creating it for cfg on first use.
func sharedOtoContext(cfg audio.StreamConfig, nf nativeFormat) (*oto.Context, error) {
	otoContext.mu.Lock()
	defer otoContext.mu.Unlock()

	if otoContext.ctx != nil {
		if otoContext.cfg != cfg {
			return nil, fmt.Errorf("%w: oto is fixed at %s for this process", ErrUnsupportedFormat, otoContext.cfg)
		}
		return otoContext.ctx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.Format(nf.Code),
		BufferSize:   4 * Latency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("oto context not ready")
	}

	otoContext.ctx = ctx
	otoContext.cfg = cfg
	return ctx, nil
}

// otoSource adapts the bridge callback to the reader oto pulls from.
// While draining it yields nothing so the player's buffer can empty.
type otoSource struct {
	fill     func([]byte)
	draining atomic.Bool
}

func (s *otoSource) Read(p []byte) (int, error) {
	if s.draining.Load() {
		time.Sleep(Latency)
		return 0, nil
	}
	s.fill(p)
	return len(p), nil
}

// Seek lets Player.Seek discard the player's internal buffer.
func (s *otoSource) Seek(offset int64, whence int) (int64, error) {
	return 0, nil
}

type otoEngine struct {
	player *oto.Player
	src    *otoSource
}

func (e *otoEngine) Init(cfg audio.StreamConfig, nf nativeFormat, fill func([]byte)) error {
	ctx, err := sharedOtoContext(cfg, nf)
	if err != nil {
		return err
	}
	e.src = &otoSource{fill: fill}
	e.player = ctx.NewPlayer(e.src)
	e.player.SetBufferSize(cfg.BytesPerSecond() * int(Latency/time.Millisecond) / 1000 * 4)
	return nil
}

func (e *otoEngine) Start() error {
	e.player.Play()
	return nil
}

// Stop pauses the player and keeps whatever it has buffered.
func (e *otoEngine) Stop() error {
	e.player.Pause()
	return nil
}

// Drain resumes the player until its buffer has played out.
func (e *otoEngine) Drain() error {
	e.src.draining.Store(true)
	defer e.src.draining.Store(false)

	e.player.Play()
	deadline := time.Now().Add(otoDrainTimeout)
	for e.player.IsPlaying() && e.player.BufferedSize() > 0 && time.Now().Before(deadline) {
		time.Sleep(Latency)
	}
	if e.player.IsPlaying() {
		// The context buffer still holds up to 4*Latency.
		time.Sleep(4 * Latency)
	}
	e.player.Pause()
	return e.player.Err()
}

// Flush discards the player's buffer.
func (e *otoEngine) Flush() error {
	_, err := e.player.Seek(0, io.SeekCurrent)
	return err
}

func (e *otoEngine) Err() error {
	if e.player == nil {
		return nil
	}
	if err := e.player.Err(); err != nil {
		return err
	}
	otoContext.mu.Lock()
	defer otoContext.mu.Unlock()
	if otoContext.ctx != nil {
		return otoContext.ctx.Err()
	}
	return nil
}

func (e *otoEngine) Close() {
	if e.player != nil {
		if err := e.player.Close(); err != nil {
			log.Debugf("oto: player close: %v", err)
		}
		e.player = nil
	}
}
