// ABOUTME: Unit tests for PCM sample packer
// ABOUTME: Tests integer, unsigned, float and big-endian packing
package encode

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
)

func TestNewPCM(t *testing.T) {
	tests := []struct {
		name        string
		format      audio.SampleFormat
		wantErr     bool
		errContains string
	}{
		{name: "valid 16-bit PCM", format: audio.S16LE},
		{name: "valid 24-bit PCM", format: audio.S24LE},
		{name: "valid float", format: audio.Float32BE},
		{name: "valid unsigned", format: audio.U8},
		{name: "companded", format: audio.ULaw, wantErr: true, errContains: "not linear"},
		{name: "compressed", format: audio.AC3, wantErr: true, errContains: "not linear"},
		{name: "out of range", format: audio.SampleFormat(99), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoder, err := NewPCM(tt.format)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewPCM() expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("NewPCM() error = %v, want error containing %v", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("NewPCM() unexpected error = %v", err)
			}
			if encoder == nil {
				t.Errorf("NewPCM() returned nil encoder")
			}
		})
	}
}

func TestPCMEncoder_Encode16Bit(t *testing.T) {
	encoder, err := NewPCM(audio.S16LE)
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}
	defer encoder.Close()

	samples := []int32{
		0,         // silence
		0x7FFF00,  // max positive 16-bit (left-justified in 24-bit)
		-0x800000, // max negative 16-bit (left-justified in 24-bit)
		0x123400,
		-0x567800,
	}

	output, err := encoder.Encode(samples)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	if len(output) != len(samples)*2 {
		t.Errorf("Encode() output size = %d, want %d", len(output), len(samples)*2)
	}

	for i, sample := range samples {
		expected := audio.SampleToInt16(sample)
		actual := int16(binary.LittleEndian.Uint16(output[i*2:]))
		if actual != expected {
			t.Errorf("Sample %d: got %d, want %d", i, actual, expected)
		}
	}
}

func TestPCMEncoder_Encode24Bit(t *testing.T) {
	encoder, err := NewPCM(audio.S24LE)
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}
	defer encoder.Close()

	samples := []int32{0, 0x7FFFFF, -0x800000, 0x123456, -0x567890}

	output, err := encoder.Encode(samples)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	if len(output) != len(samples)*3 {
		t.Errorf("Encode() output size = %d, want %d", len(output), len(samples)*3)
	}

	for i, sample := range samples {
		expected := audio.SampleTo24Bit(sample)
		actual := [3]byte{output[i*3], output[i*3+1], output[i*3+2]}
		if actual != expected {
			t.Errorf("Sample %d: got %v, want %v", i, actual, expected)
		}
	}
}

func TestPCMEncoder_BigEndian(t *testing.T) {
	encoder, err := NewPCM(audio.S24BE)
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}

	output, _ := encoder.Encode([]int32{0x123456})
	want := []byte{0x12, 0x34, 0x56}
	if string(output) != string(want) {
		t.Errorf("got % x, want % x", output, want)
	}

	encoder, _ = NewPCM(audio.S16BE)
	output, _ = encoder.Encode([]int32{0x123400})
	if output[0] != 0x12 || output[1] != 0x34 {
		t.Errorf("got % x, want 12 34", output)
	}
}

func TestPCMEncoder_Unsigned(t *testing.T) {
	tests := []struct {
		format audio.SampleFormat
		sample int32
		want   []byte
	}{
		{audio.U8, 0, []byte{0x80}},
		{audio.U8, -0x800000, []byte{0x00}},
		{audio.U8, 0x7FFFFF, []byte{0xFF}},
		{audio.U16LE, 0, []byte{0x00, 0x80}},
		{audio.U16BE, 0, []byte{0x80, 0x00}},
		{audio.S8, -0x800000, []byte{0x80}},
	}

	for _, tt := range tests {
		encoder, err := NewPCM(tt.format)
		if err != nil {
			t.Fatalf("NewPCM(%s) failed: %v", tt.format, err)
		}
		output, _ := encoder.Encode([]int32{tt.sample})
		if string(output) != string(tt.want) {
			t.Errorf("%s(%d): got % x, want % x", tt.format, tt.sample, output, tt.want)
		}
	}
}

func TestPCMEncoder_WideContainers(t *testing.T) {
	encoder, _ := NewPCM(audio.S32LE)
	output, _ := encoder.Encode([]int32{-1})
	if got := int32(binary.LittleEndian.Uint32(output)); got != -256 {
		t.Errorf("S32LE: got %d, want -256", got)
	}

	encoder, _ = NewPCM(audio.S24_32LE)
	output, _ = encoder.Encode([]int32{-1})
	if got := binary.LittleEndian.Uint32(output); got != 0x00FFFFFF {
		t.Errorf("S24_32LE: got %#x, want 0xffffff", got)
	}

	encoder, _ = NewPCM(audio.S20LE)
	output, _ = encoder.Encode([]int32{0x7FFFFF})
	if got := binary.LittleEndian.Uint32(append(output, 0)); got != 0x7FFFF {
		t.Errorf("S20LE: got %#x, want 0x7ffff", got)
	}
}

func TestPCMEncoder_Float(t *testing.T) {
	encoder, _ := NewPCM(audio.Float32LE)
	output, _ := encoder.Encode([]int32{0, -0x800000, 0x400000})

	want := []float32{0, -1, 0.5}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(output[i*4:]))
		if got != w {
			t.Errorf("sample %d: got %v, want %v", i, got, w)
		}
	}

	encoder, _ = NewPCM(audio.Float64BE)
	output, _ = encoder.Encode([]int32{0x400000})
	if got := math.Float64frombits(binary.BigEndian.Uint64(output)); got != 0.5 {
		t.Errorf("float64be: got %v, want 0.5", got)
	}
}

func TestPCMEncoder_EncodeBuffer(t *testing.T) {
	encoder, _ := NewPCM(audio.S16LE)

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 48000},
		Data:           []int{0x1234, -2},
		SourceBitDepth: 16,
	}

	output, err := encoder.EncodeBuffer(buf)
	if err != nil {
		t.Fatalf("EncodeBuffer() failed: %v", err)
	}
	if got := int16(binary.LittleEndian.Uint16(output)); got != 0x1234 {
		t.Errorf("got %#x, want 0x1234", got)
	}
	if got := int16(binary.LittleEndian.Uint16(output[2:])); got != -2 {
		t.Errorf("got %d, want -2", got)
	}

	buf.SourceBitDepth = 64
	if _, err := encoder.EncodeBuffer(buf); err == nil {
		t.Error("expected error for 64-bit source depth")
	}
}

func TestPCMEncoder_Close(t *testing.T) {
	encoder, err := NewPCM(audio.S16LE)
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}

	if err := encoder.Close(); err != nil {
		t.Errorf("Close() unexpected error = %v", err)
	}
}
