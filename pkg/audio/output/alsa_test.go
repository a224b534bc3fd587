//go:build linux

// ABOUTME: Tests for the ALSA backend
// ABOUTME: Device name parsing, format table and closed-handle behaviour
package output

import (
	"errors"
	"syscall"
	"testing"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/gen2brain/alsa"
)

func TestParseALSADevice(t *testing.T) {
	tests := []struct {
		name   string
		card   uint
		device uint
		ok     bool
	}{
		{"", 0, 0, true},
		{"default", 0, 0, true},
		{"hw:1", 1, 0, true},
		{"hw:2,3", 2, 3, true},
		{"plughw:0,0", 0, 0, false},
		{"hw:x,0", 0, 0, false},
		{"hw:0,0,0", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, device, err := parseALSADevice(tt.name)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if card != tt.card || device != tt.device {
				t.Errorf("expected %d,%d got %d,%d", tt.card, tt.device, card, device)
			}
		})
	}
}

func TestALSADevicePath(t *testing.T) {
	if got := alsaDevicePath(1, 2); got != "/dev/snd/pcmC1D2p" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestALSAFormatTable(t *testing.T) {
	// Every format except AC3 has a kernel equivalent.
	for _, f := range audio.Formats() {
		_, ok := alsaFormats[f]
		if f == audio.AC3 {
			if ok {
				t.Error("AC3 should not be mapped")
			}
			continue
		}
		if !ok {
			t.Errorf("%s missing from ALSA table", f)
		}
	}

	if alsaFormats[audio.S24LE].Code != int(alsa.PCM_FORMAT_S24_3LE) {
		t.Error("S24LE should map to the packed 3-byte kernel format")
	}
	if alsaFormats[audio.S24_32LE].Code != int(alsa.PCM_FORMAT_S24_LE) {
		t.Error("S24_32LE should map to the 4-byte kernel format")
	}

	for f, nf := range alsaFormats {
		if f.IsLinear() && nf.Size != f.BytesPerSample() {
			t.Errorf("%s: table size %d, format size %d", f, nf.Size, f.BytesPerSample())
		}
	}
}

func TestALSAMissingDevice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device = "hw:99,99"
	if _, err := newALSA(cfg); err == nil {
		t.Error("expected availability check to fail for missing card")
	}
}

func TestALSAClosedIsNoop(t *testing.T) {
	a := &alsaBackend{cfg: DefaultConfig()}

	if err := a.Write([]byte{1, 2}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := a.Drain(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := a.Flush(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	a.Close()
	a.Destroy()
}

func TestALSAUnsupportedFormat(t *testing.T) {
	a := &alsaBackend{cfg: DefaultConfig(), card: 99, device: 99}

	err := a.Open(audio.StreamConfig{Format: audio.AC3, SampleRate: 48000, Channels: 2})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if a.pcm != nil {
		t.Error("handle should stay closed")
	}
	if Code(err) != -int(syscall.EINVAL) {
		t.Errorf("expected -EINVAL, got %d", Code(err))
	}
}
