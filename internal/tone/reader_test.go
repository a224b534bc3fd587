// ABOUTME: Tests for the tone byte reader
// ABOUTME: Checks stream length and packing through the PCM encoder
package tone

import (
	"io"
	"testing"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio/encode"
)

func TestReaderLength(t *testing.T) {
	s, _ := NewSine(440, 48000, 2)
	enc, err := encode.NewPCM(audio.S16LE)
	if err != nil {
		t.Fatalf("NewPCM failed: %v", err)
	}

	data, err := io.ReadAll(NewReader(s, enc, 1000))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(data) != 1000*4 {
		t.Errorf("expected %d bytes, got %d", 1000*4, len(data))
	}
}

func TestReaderMatchesGenerator(t *testing.T) {
	a, _ := NewSine(1000, 8000, 1)
	b, _ := NewSine(1000, 8000, 1)
	enc, _ := encode.NewPCM(audio.S24LE)

	r := NewReader(a, enc, 16)
	small := make([]byte, 5)
	var got []byte
	for {
		n, err := r.Read(small)
		got = append(got, small[:n]...)
		if err == io.EOF {
			break
		}
	}

	buf := b.NewBuffer(16)
	b.Fill(buf)
	for i, v := range buf.Data {
		packed := int32(got[i*3])<<8 | int32(got[i*3+1])<<16 | int32(got[i*3+2])<<24
		packed >>= 8
		if int(packed) != v {
			t.Fatalf("frame %d: expected %d, got %d", i, v, packed)
		}
	}
}

func TestReaderZeroFrames(t *testing.T) {
	s, _ := NewSine(440, 48000, 1)
	enc, _ := encode.NewPCM(audio.S16BE)

	n, err := NewReader(s, enc, 0).Read(make([]byte, 8))
	if n != 0 || err != io.EOF {
		t.Errorf("expected (0, EOF), got (%d, %v)", n, err)
	}
}
