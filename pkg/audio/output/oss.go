//go:build linux || freebsd

// ABOUTME: Open Sound System output through /dev/dsp ioctls
// ABOUTME: Format, rate and channels are negotiated with the driver
package output

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"golang.org/x/sys/unix"
)

const defaultOSSDevice = "/dev/dsp"

// AFMT_* sample format bits from soundcard.h.
const (
	afmtMuLaw    = 0x00000001
	afmtALaw     = 0x00000002
	afmtIMAADPCM = 0x00000004
	afmtU8       = 0x00000008
	afmtS16LE    = 0x00000010
	afmtS16BE    = 0x00000020
	afmtS8       = 0x00000040
	afmtU16LE    = 0x00000080
	afmtU16BE    = 0x00000100
	afmtMPEG     = 0x00000200
	afmtAC3      = 0x00000400
)

// Direction-encoded SNDCTL_DSP_* requests shared by Linux and FreeBSD.
const (
	sndctlDSPSpeed    = 0xC0045002
	sndctlDSPSetFmt   = 0xC0045005
	sndctlDSPChannels = 0xC0045006
)

var ossFormats = formatTable{
	audio.ALaw:  {Code: afmtALaw, Size: 1},
	audio.ULaw:  {Code: afmtMuLaw, Size: 1},
	audio.S8:    {Code: afmtS8, Size: 1},
	audio.U8:    {Code: afmtU8, Size: 1},
	audio.S16LE: {Code: afmtS16LE, Size: 2},
	audio.S16BE: {Code: afmtS16BE, Size: 2},
	audio.U16LE: {Code: afmtU16LE, Size: 2},
	audio.U16BE: {Code: afmtU16BE, Size: 2},
	audio.ADPCM: {Code: afmtIMAADPCM, Size: 1},
	audio.MPEG:  {Code: afmtMPEG, Size: 1},
	audio.AC3:   {Code: afmtAC3, Size: 1},
}

func init() {
	Register(Factory{Name: "oss", Priority: 40, New: newOSS})
}

func newOSS(cfg Config) (Backend, error) {
	path := cfg.Device
	if path == "" {
		path = defaultOSSDevice
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &ossBackend{path: path, fd: -1}, nil
}

type ossBackend struct {
	path      string
	fd        int
	frameSize int
}

// ossIoctl issues an in/out integer ioctl and returns the driver's value.
func ossIoctl(fd int, req uintptr, value int) (int, error) {
	v := int32(value)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&v)))
	if errno != 0 {
		return 0, errno
	}
	return int(v), nil
}

func ossIoctlNoArg(fd int, req uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func (o *ossBackend) Name() string {
	return "oss"
}

func (o *ossBackend) Strerror(code int) string {
	return errnoStrerror(code)
}

func (o *ossBackend) nativeError(op string, err error) error {
	return &Error{Backend: "oss", Op: op, Code: errnoCode(err), Err: err}
}

func (o *ossBackend) Open(cfg audio.StreamConfig) error {
	if o.fd != -1 {
		return &Error{Backend: "oss", Op: "open", Code: -int(syscall.EEXIST), Err: ErrAlreadyOpen}
	}

	nf, err := ossFormats.lookup("oss", cfg.Format, -int(syscall.EINVAL))
	if err != nil {
		return err
	}

	fd, err := unix.Open(o.path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return o.nativeError("open", fmt.Errorf("open %s: %w", o.path, err))
	}

	if err := negotiateOSS(fd, cfg, nf); err != nil {
		unix.Close(fd)
		return o.nativeError("open", err)
	}

	o.fd = fd
	o.frameSize = cfg.FrameSize()
	return nil
}

// negotiateOSS sets format, rate and channels. The driver may substitute
// a nearby rate, which is accepted; a substituted format or channel
// count is rejected.
func negotiateOSS(fd int, cfg audio.StreamConfig, nf nativeFormat) error {
	got, err := ossIoctl(fd, sndctlDSPSetFmt, nf.Code)
	if err != nil {
		return fmt.Errorf("SNDCTL_DSP_SETFMT: %w", err)
	}
	if got != nf.Code {
		return fmt.Errorf("driver chose format %#x instead of %#x: %w", got, nf.Code, syscall.EINVAL)
	}

	rate, err := ossIoctl(fd, sndctlDSPSpeed, cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("SNDCTL_DSP_SPEED: %w", err)
	}
	if rate != cfg.SampleRate {
		log.Infof("oss: device rate %dHz, requested %dHz", rate, cfg.SampleRate)
	}

	channels, err := ossIoctl(fd, sndctlDSPChannels, cfg.Channels)
	if err != nil {
		return fmt.Errorf("SNDCTL_DSP_CHANNELS: %w", err)
	}
	if channels != cfg.Channels {
		return fmt.Errorf("driver chose %d channels instead of %d: %w", channels, cfg.Channels, syscall.EINVAL)
	}
	return nil
}

func (o *ossBackend) Write(data []byte) error {
	if o.fd == -1 {
		return nil
	}
	if len(data)%o.frameSize != 0 {
		return &Error{Backend: "oss", Op: "write", Code: -int(syscall.EINVAL), Err: ErrInvalidLength}
	}

	for len(data) > 0 {
		n, err := unix.Write(o.fd, data)
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return o.nativeError("write", err)
		}
		data = data[n:]
	}
	return nil
}

func (o *ossBackend) Drain() error {
	if o.fd == -1 {
		return nil
	}
	if err := ossIoctlNoArg(o.fd, sndctlDSPSync); err != nil {
		return o.nativeError("drain", err)
	}
	return nil
}

func (o *ossBackend) Flush() error {
	if o.fd == -1 {
		return nil
	}
	if err := ossIoctlNoArg(o.fd, sndctlDSPReset); err != nil {
		return o.nativeError("flush", err)
	}
	return nil
}

func (o *ossBackend) Close() {
	if o.fd == -1 {
		return
	}
	unix.Close(o.fd)
	o.fd = -1
}

func (o *ossBackend) Destroy() {
	o.Close()
}
