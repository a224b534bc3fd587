// ABOUTME: Tests for the sample format table
// ABOUTME: Checks ordering, sizes and name parsing
package audio

import (
	"encoding/binary"
	"testing"
)

func TestFormatOrder(t *testing.T) {
	// Numeric values are part of the public contract.
	tests := []struct {
		format SampleFormat
		value  int
	}{
		{S8, 0},
		{U8, 1},
		{S16LE, 2},
		{S18LE, 6},
		{S24LE, 14},
		{S24_32LE, 18},
		{S32LE, 22},
		{Float32LE, 26},
		{IEC958LE, 30},
		{ALaw, 32},
		{AC3, 37},
	}

	for _, tt := range tests {
		if int(tt.format) != tt.value {
			t.Errorf("%s: expected %d, got %d", tt.format, tt.value, int(tt.format))
		}
	}

	if len(Formats()) != 38 {
		t.Errorf("expected 38 formats, got %d", len(Formats()))
	}
}

func TestFormatProperties(t *testing.T) {
	tests := []struct {
		format SampleFormat
		bits   int
		size   int
		linear bool
		order  binary.ByteOrder
	}{
		{S8, 8, 1, true, nil},
		{U16BE, 16, 2, true, binary.BigEndian},
		{S18LE, 18, 3, true, binary.LittleEndian},
		{S24_32LE, 24, 4, true, binary.LittleEndian},
		{Float64BE, 64, 8, true, binary.BigEndian},
		{IEC958LE, 32, 4, false, binary.LittleEndian},
		{ULaw, 8, 1, false, nil},
		{MPEG, 0, 0, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if tt.format.Bits() != tt.bits {
				t.Errorf("expected %d bits, got %d", tt.bits, tt.format.Bits())
			}
			if tt.format.BytesPerSample() != tt.size {
				t.Errorf("expected %d bytes, got %d", tt.size, tt.format.BytesPerSample())
			}
			if tt.format.IsLinear() != tt.linear {
				t.Errorf("expected linear=%v", tt.linear)
			}
			if tt.format.ByteOrder() != tt.order {
				t.Errorf("expected byte order %v, got %v", tt.order, tt.format.ByteOrder())
			}
		})
	}
}

func TestFrameSize(t *testing.T) {
	if S24LE.FrameSize(2) != 6 {
		t.Errorf("expected 6, got %d", S24LE.FrameSize(2))
	}
	if AC3.FrameSize(6) != 1 {
		t.Errorf("expected 1 for compressed, got %d", AC3.FrameSize(6))
	}
}

func TestInvalidFormat(t *testing.T) {
	f := SampleFormat(-1)
	if f.Valid() {
		t.Error("negative format should be invalid")
	}
	if f.String() != "SampleFormat(-1)" {
		t.Errorf("unexpected name %q", f.String())
	}
	if f.BytesPerSample() != 0 || f.IsLinear() {
		t.Error("invalid format should report no size")
	}
}

func TestParseSampleFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected SampleFormat
	}{
		{"s16le", S16LE},
		{"S16_LE", S16LE},
		{" float32le ", Float32LE},
		{"FLOAT_LE", Float32LE},
		{"s24_32le", S24_32LE},
		{"MU_LAW", ULaw},
		{"a_law", ALaw},
		{"ac3", AC3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseSampleFormat(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, f)
			}
		})
	}

	if _, err := ParseSampleFormat("wav"); err == nil {
		t.Error("expected error for unknown name")
	}
}

func TestFormatNamesRoundTrip(t *testing.T) {
	for _, f := range Formats() {
		parsed, err := ParseSampleFormat(f.String())
		if err != nil || parsed != f {
			t.Errorf("%s: parsed as %s (%v)", f, parsed, err)
		}
	}
}
