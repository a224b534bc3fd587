//go:build cgo && (darwin || windows || openbsd || netbsd)

// ABOUTME: miniaudio-driven pull engine for CoreAudio, WASAPI and sndio
// ABOUTME: The device callback drains the bridge ring on the audio thread
package output

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/gen2brain/malgo"
)

var malgoFormats = formatTable{
	audio.U8:        {Code: int(malgo.FormatU8), Size: 1},
	audio.S16LE:     {Code: int(malgo.FormatS16), Size: 2},
	audio.S24LE:     {Code: int(malgo.FormatS24), Size: 3},
	audio.S32LE:     {Code: int(malgo.FormatS32), Size: 4},
	audio.Float32LE: {Code: int(malgo.FormatF32), Size: 4},
}

var errDeviceLost = errors.New("playback device stopped unexpectedly")

func init() {
	var (
		name    string
		backend malgo.Backend
	)
	switch runtime.GOOS {
	case "darwin":
		name, backend = "coreaudio", malgo.BackendCoreaudio
	case "windows":
		name, backend = "wasapi", malgo.BackendWasapi
	default:
		name, backend = "sndio", malgo.BackendSndio
	}

	Register(Factory{
		Name:     name,
		Priority: 10,
		New: func(cfg Config) (Backend, error) {
			return newMalgo(name, backend, cfg)
		},
	})
}

func newMalgo(name string, backend malgo.Backend, cfg Config) (Backend, error) {
	ctx, err := malgo.InitContext([]malgo.Backend{backend}, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init %s context: %w", name, err)
	}
	_ = ctx.Uninit()
	ctx.Free()

	e := &malgoEngine{name: name, backend: backend, cfg: cfg}
	return newRingBackend(name, cfg, e, malgoFormats, ringOptions{
		strerror: miniaudioStrerror,
		code:     resultCode,
		codes:    miniaudioSentinels,
	}), nil
}

type malgoEngine struct {
	name    string
	backend malgo.Backend
	cfg     Config

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	stopping atomic.Bool
	lost     atomic.Bool
}

func (e *malgoEngine) Init(cfg audio.StreamConfig, nf nativeFormat, fill func([]byte)) error {
	ctx, err := malgo.InitContext([]malgo.Backend{e.backend}, malgo.ContextConfig{}, nil)
	if err != nil {
		return err
	}
	e.ctx = ctx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatType(nf.Code)
	deviceConfig.Playback.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInMilliseconds = uint32(Latency.Milliseconds())

	if e.cfg.Device != "" {
		id, err := e.findDevice(e.cfg.Device)
		if err != nil {
			return err
		}
		deviceConfig.Playback.DeviceID = id.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, in []byte, frameCount uint32) {
			fill(out)
		},
		Stop: func() {
			if !e.stopping.Load() {
				e.lost.Store(true)
			}
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return err
	}
	e.device = device
	e.lost.Store(false)
	return nil
}

func (e *malgoEngine) findDevice(name string) (malgo.DeviceID, error) {
	devices, err := e.ctx.Devices(malgo.Playback)
	if err != nil {
		return malgo.DeviceID{}, err
	}
	for _, dev := range devices {
		if strings.EqualFold(dev.Name(), name) {
			return dev.ID, nil
		}
	}
	return malgo.DeviceID{}, fmt.Errorf("playback device %q not found", name)
}

func (e *malgoEngine) Start() error {
	e.stopping.Store(false)
	return e.device.Start()
}

func (e *malgoEngine) Stop() error {
	e.stopping.Store(true)
	return e.device.Stop()
}

func (e *malgoEngine) Err() error {
	if e.lost.Load() {
		return errDeviceLost
	}
	return nil
}

func (e *malgoEngine) Close() {
	if e.device != nil {
		e.stopping.Store(true)
		e.device.Uninit()
		e.device = nil
	}
	if e.ctx != nil {
		if err := e.ctx.Uninit(); err != nil {
			log.Debugf("%s: context uninit: %v", e.name, err)
		}
		e.ctx.Free()
		e.ctx = nil
	}
}
