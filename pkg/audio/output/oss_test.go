//go:build linux || freebsd

// ABOUTME: Tests for the OSS backend
// ABOUTME: Format table and open failures without a device
package output

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
)

func TestOSSFormatTable(t *testing.T) {
	supported := []audio.SampleFormat{
		audio.ALaw, audio.ULaw, audio.S8, audio.U8,
		audio.S16LE, audio.S16BE, audio.U16LE, audio.U16BE,
		audio.ADPCM, audio.MPEG, audio.AC3,
	}
	for _, f := range supported {
		if !ossFormats.Supports(f) {
			t.Errorf("%s should be supported", f)
		}
	}
	if len(ossFormats) != len(supported) {
		t.Errorf("expected %d formats, got %d", len(supported), len(ossFormats))
	}
	if ossFormats[audio.S16LE].Code != 0x10 {
		t.Errorf("unexpected AFMT_S16_LE value %#x", ossFormats[audio.S16LE].Code)
	}
}

func TestOSSMissingDevice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device = filepath.Join(t.TempDir(), "dsp")
	if _, err := newOSS(cfg); err == nil {
		t.Error("expected availability check to fail for missing device")
	}
}

func TestOSSOpenRejectsFormatBeforeDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dsp")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Device = path
	b, err := newOSS(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = b.Open(audio.StreamConfig{Format: audio.Float32LE, SampleRate: 44100, Channels: 2})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	// A regular file rejects the format ioctl; the descriptor is released.
	err = b.Open(audio.StreamConfig{Format: audio.S16LE, SampleRate: 44100, Channels: 2})
	if err == nil {
		t.Fatal("expected ioctl failure on a regular file")
	}
	if Code(err) != -int(syscall.ENOTTY) {
		t.Errorf("expected -ENOTTY, got %d (%v)", Code(err), err)
	}
	if b.(*ossBackend).fd != -1 {
		t.Error("descriptor should be closed after failed open")
	}

	if err := b.Write([]byte{0, 0}); err != nil {
		t.Errorf("write on closed handle: %v", err)
	}
	b.Close()
	b.Destroy()
}
