//go:build linux

// ABOUTME: ALSA kernel PCM output using blocking writes
// ABOUTME: Recovers from underruns by re-preparing the device
package output

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/gen2brain/alsa"
)

const (
	alsaPeriodCount  = 4
	alsaWriteRetries = 10
)

var alsaFormats = formatTable{
	audio.ALaw:      {Code: int(alsa.PCM_FORMAT_A_LAW), Size: 1},
	audio.ULaw:      {Code: int(alsa.PCM_FORMAT_MU_LAW), Size: 1},
	audio.S8:        {Code: int(alsa.PCM_FORMAT_S8), Size: 1},
	audio.U8:        {Code: int(alsa.PCM_FORMAT_U8), Size: 1},
	audio.S16LE:     {Code: int(alsa.PCM_FORMAT_S16_LE), Size: 2},
	audio.S16BE:     {Code: int(alsa.PCM_FORMAT_S16_BE), Size: 2},
	audio.U16LE:     {Code: int(alsa.PCM_FORMAT_U16_LE), Size: 2},
	audio.U16BE:     {Code: int(alsa.PCM_FORMAT_U16_BE), Size: 2},
	audio.S18LE:     {Code: int(alsa.PCM_FORMAT_S18_3LE), Size: 3},
	audio.S18BE:     {Code: int(alsa.PCM_FORMAT_S18_3BE), Size: 3},
	audio.U18LE:     {Code: int(alsa.PCM_FORMAT_U18_3LE), Size: 3},
	audio.U18BE:     {Code: int(alsa.PCM_FORMAT_U18_3BE), Size: 3},
	audio.S20LE:     {Code: int(alsa.PCM_FORMAT_S20_3LE), Size: 3},
	audio.S20BE:     {Code: int(alsa.PCM_FORMAT_S20_3BE), Size: 3},
	audio.U20LE:     {Code: int(alsa.PCM_FORMAT_U20_3LE), Size: 3},
	audio.U20BE:     {Code: int(alsa.PCM_FORMAT_U20_3BE), Size: 3},
	audio.S24LE:     {Code: int(alsa.PCM_FORMAT_S24_3LE), Size: 3},
	audio.S24BE:     {Code: int(alsa.PCM_FORMAT_S24_3BE), Size: 3},
	audio.U24LE:     {Code: int(alsa.PCM_FORMAT_U24_3LE), Size: 3},
	audio.U24BE:     {Code: int(alsa.PCM_FORMAT_U24_3BE), Size: 3},
	audio.S24_32LE:  {Code: int(alsa.PCM_FORMAT_S24_LE), Size: 4},
	audio.S24_32BE:  {Code: int(alsa.PCM_FORMAT_S24_BE), Size: 4},
	audio.U24_32LE:  {Code: int(alsa.PCM_FORMAT_U24_LE), Size: 4},
	audio.U24_32BE:  {Code: int(alsa.PCM_FORMAT_U24_BE), Size: 4},
	audio.S32LE:     {Code: int(alsa.PCM_FORMAT_S32_LE), Size: 4},
	audio.S32BE:     {Code: int(alsa.PCM_FORMAT_S32_BE), Size: 4},
	audio.U32LE:     {Code: int(alsa.PCM_FORMAT_U32_LE), Size: 4},
	audio.U32BE:     {Code: int(alsa.PCM_FORMAT_U32_BE), Size: 4},
	audio.Float32LE: {Code: int(alsa.PCM_FORMAT_FLOAT_LE), Size: 4},
	audio.Float32BE: {Code: int(alsa.PCM_FORMAT_FLOAT_BE), Size: 4},
	audio.Float64LE: {Code: int(alsa.PCM_FORMAT_FLOAT64_LE), Size: 8},
	audio.Float64BE: {Code: int(alsa.PCM_FORMAT_FLOAT64_BE), Size: 8},
	audio.IEC958LE:  {Code: int(alsa.PCM_FORMAT_IEC958_SUBFRAME_LE), Size: 4},
	audio.IEC958BE:  {Code: int(alsa.PCM_FORMAT_IEC958_SUBFRAME_BE), Size: 4},
	audio.ADPCM:     {Code: int(alsa.PCM_FORMAT_IMA_ADPCM), Size: 1},
	audio.MPEG:      {Code: int(alsa.PCM_FORMAT_MPEG), Size: 1},
	audio.GSM:       {Code: int(alsa.PCM_FORMAT_GSM), Size: 1},
}

func init() {
	Register(Factory{Name: "alsa", Priority: 20, New: newALSA})
}

// parseALSADevice accepts "", "default", "hw:C" and "hw:C,D". The first
// two mean hw:0,0; there is no ALSA plugin chain behind them.
func parseALSADevice(name string) (card, device uint, err error) {
	if name == "" || name == "default" {
		return 0, 0, nil
	}
	if !strings.HasPrefix(name, "hw:") {
		return 0, 0, fmt.Errorf("unsupported ALSA device %q (expected hw:CARD,DEVICE)", name)
	}

	parts := strings.Split(strings.TrimPrefix(name, "hw:"), ",")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("malformed ALSA device %q", name)
	}

	c, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid card in %q: %w", name, err)
	}
	var d uint64
	if len(parts) == 2 {
		if d, err = strconv.ParseUint(parts[1], 10, 32); err != nil {
			return 0, 0, fmt.Errorf("invalid device in %q: %w", name, err)
		}
	}
	return uint(c), uint(d), nil
}

func alsaDevicePath(card, device uint) string {
	return fmt.Sprintf("/dev/snd/pcmC%dD%dp", card, device)
}

func newALSA(cfg Config) (Backend, error) {
	card, device, err := parseALSADevice(cfg.Device)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(alsaDevicePath(card, device)); err != nil {
		return nil, err
	}
	return &alsaBackend{cfg: cfg, card: card, device: device}, nil
}

type alsaBackend struct {
	cfg       Config
	card      uint
	device    uint
	pcm       *alsa.PCM
	frameSize int
}

func (a *alsaBackend) Name() string {
	return "alsa"
}

func (a *alsaBackend) Strerror(code int) string {
	return errnoStrerror(code)
}

func (a *alsaBackend) nativeError(op string, err error) error {
	return &Error{Backend: "alsa", Op: op, Code: errnoCode(err), Err: err}
}

func (a *alsaBackend) Open(cfg audio.StreamConfig) error {
	if a.pcm != nil {
		return &Error{Backend: "alsa", Op: "open", Code: -int(syscall.EEXIST), Err: ErrAlreadyOpen}
	}

	nf, err := alsaFormats.lookup("alsa", cfg.Format, -int(syscall.EINVAL))
	if err != nil {
		return err
	}

	period := uint32(cfg.SampleRate) * uint32(Latency/time.Millisecond) / 1000
	if period == 0 {
		period = 1
	}

	pcm, err := alsa.PcmOpen(a.card, a.device, alsa.PCM_OUT, &alsa.Config{
		Channels:    uint32(cfg.Channels),
		Rate:        uint32(cfg.SampleRate),
		PeriodSize:  period,
		PeriodCount: alsaPeriodCount,
		Format:      alsa.PcmFormat(nf.Code),
	})
	if err != nil {
		return a.nativeError("open", err)
	}

	if got := int(pcm.Channels()); got != cfg.Channels {
		pcm.Close()
		return &Error{Backend: "alsa", Op: "open", Code: -int(syscall.EINVAL),
			Err: fmt.Errorf("device gave %d channels, wanted %d", got, cfg.Channels)}
	}
	if got := int(pcm.Rate()); got != cfg.SampleRate {
		log.Infof("alsa: device rate %dHz, requested %dHz", got, cfg.SampleRate)
	}

	if err := pcm.Prepare(); err != nil {
		pcm.Close()
		return a.nativeError("open", err)
	}

	a.pcm = pcm
	a.frameSize = cfg.FrameSize()
	return nil
}

func (a *alsaBackend) Write(data []byte) error {
	if a.pcm == nil {
		return nil
	}
	if len(data)%a.frameSize != 0 {
		return &Error{Backend: "alsa", Op: "write", Code: -int(syscall.EINVAL), Err: ErrInvalidLength}
	}

	if state := a.pcm.KernelState(); state != alsa.PCM_STATE_PREPARED && state != alsa.PCM_STATE_RUNNING {
		if err := a.pcm.Prepare(); err != nil {
			return a.nativeError("write", err)
		}
	}

	retries := alsaWriteRetries
	for len(data) > 0 {
		frames, err := a.pcm.Write(data)
		if err != nil {
			if retries == 0 || !a.recoverable(err) {
				return a.nativeError("write", err)
			}
			retries--

			log.Debugf("alsa: write failed (%v), re-preparing", err)
			if perr := a.pcm.Prepare(); perr != nil {
				return a.nativeError("write", err)
			}
			continue
		}

		n := frames * a.frameSize
		if n <= 0 {
			time.Sleep(a.cfg.PollInterval)
			continue
		}
		if n > len(data) {
			n = len(data)
		}
		data = data[n:]
	}

	return nil
}

// recoverable reports whether err is an underrun or suspend that a
// prepare can clear.
func (a *alsaBackend) recoverable(err error) bool {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ESTRPIPE) {
		return true
	}
	state := a.pcm.KernelState()
	return state == alsa.PCM_STATE_XRUN || state == alsa.PCM_STATE_SUSPENDED
}

func (a *alsaBackend) Drain() error {
	if a.pcm == nil {
		return nil
	}
	if err := a.pcm.Drain(); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			// Underran while draining: everything has played.
			return nil
		}
		return a.nativeError("drain", err)
	}
	return nil
}

func (a *alsaBackend) Flush() error {
	if a.pcm == nil {
		return nil
	}
	if err := a.pcm.Stop(); err != nil {
		return a.nativeError("flush", err)
	}
	return nil
}

func (a *alsaBackend) Close() {
	if a.pcm == nil {
		return
	}
	if err := a.pcm.Close(); err != nil {
		log.Debugf("alsa: close: %v", err)
	}
	a.pcm = nil
}

func (a *alsaBackend) Destroy() {
	a.Close()
}
