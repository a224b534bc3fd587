// ABOUTME: Tests for the sine tone generator
// ABOUTME: Checks amplitude, channel duplication and phase continuity
package tone

import (
	"testing"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
)

func TestNewSineRejectsBadParameters(t *testing.T) {
	cases := []struct {
		freq     float64
		rate     int
		channels int
	}{
		{0, 48000, 2},
		{440, 0, 2},
		{440, 48000, 0},
		{440, 48000, 256},
		{30000, 48000, 2},
	}

	for _, c := range cases {
		if _, err := NewSine(c.freq, c.rate, c.channels); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}

func TestSineFillDuplicatesChannels(t *testing.T) {
	s, err := NewSine(DefaultFrequency, 48000, 3)
	if err != nil {
		t.Fatalf("NewSine failed: %v", err)
	}

	buf := s.NewBuffer(64)
	if n := s.Fill(buf); n != 64 {
		t.Fatalf("expected 64 frames, got %d", n)
	}

	for i := 0; i < 64; i++ {
		a := buf.Data[i*3]
		if buf.Data[i*3+1] != a || buf.Data[i*3+2] != a {
			t.Fatalf("frame %d: channels differ", i)
		}
	}
	if buf.Data[0] != 0 {
		t.Errorf("expected first sample 0, got %d", buf.Data[0])
	}
}

func TestSineAmplitude(t *testing.T) {
	s, _ := NewSine(1000, 48000, 1)
	buf := s.NewBuffer(480)
	s.Fill(buf)

	peak := 0
	for _, v := range buf.Data {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}

	limit := int(audio.Max24Bit) / 2
	if peak > limit || peak < limit*9/10 {
		t.Errorf("expected peak near %d, got %d", limit, peak)
	}

	s.SetVolume(2)
	s.Fill(buf)
	for _, v := range buf.Data {
		if v > audio.Max24Bit || v < -audio.Max24Bit {
			t.Fatalf("sample %d outside 24-bit range", v)
		}
	}
}

func TestSinePhaseContinues(t *testing.T) {
	a, _ := NewSine(440, 44100, 1)
	b, _ := NewSine(440, 44100, 1)

	whole := b.NewBuffer(200)
	b.Fill(whole)

	first := a.NewBuffer(100)
	second := a.NewBuffer(100)
	a.Fill(first)
	a.Fill(second)

	for i := 0; i < 100; i++ {
		if first.Data[i] != whole.Data[i] || second.Data[i] != whole.Data[100+i] {
			t.Fatalf("frame %d differs between split and whole fill", i)
		}
	}
	if a.Position() != 200 {
		t.Errorf("expected position 200, got %d", a.Position())
	}
}

func TestSineBufferFormat(t *testing.T) {
	s, _ := NewSine(440, 22050, 2)
	buf := s.NewBuffer(10)

	if buf.Format.NumChannels != 2 || buf.Format.SampleRate != 22050 {
		t.Errorf("unexpected format %+v", buf.Format)
	}
	if buf.SourceBitDepth != BitDepth {
		t.Errorf("expected bit depth %d, got %d", BitDepth, buf.SourceBitDepth)
	}
	if len(buf.Data) != 20 {
		t.Errorf("expected 20 samples, got %d", len(buf.Data))
	}
}
