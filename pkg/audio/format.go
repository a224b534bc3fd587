// ABOUTME: Sample format enumeration shared by every output backend
// ABOUTME: Describes width, byte order and encoding family of each format
package audio

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// SampleFormat identifies the encoding of the bytes handed to an output.
// The declaration order is part of the public contract.
type SampleFormat int

const (
	S8 SampleFormat = iota
	U8

	S16LE
	S16BE
	U16LE
	U16BE

	S18LE
	S18BE
	U18LE
	U18BE

	S20LE
	S20BE
	U20LE
	U20BE

	S24LE
	S24BE
	U24LE
	U24BE

	S24_32LE
	S24_32BE
	U24_32LE
	U24_32BE

	S32LE
	S32BE
	U32LE
	U32BE

	Float32LE
	Float32BE
	Float64LE
	Float64BE

	IEC958LE
	IEC958BE

	ALaw
	ULaw
	ADPCM
	MPEG
	GSM
	AC3
)

// Encoding groups sample formats by how their bytes are interpreted.
type Encoding int

const (
	EncodingSigned Encoding = iota
	EncodingUnsigned
	EncodingFloat
	EncodingIEC958
	EncodingCompanded
	EncodingCompressed
)

func (e Encoding) String() string {
	switch e {
	case EncodingSigned:
		return "signed"
	case EncodingUnsigned:
		return "unsigned"
	case EncodingFloat:
		return "float"
	case EncodingIEC958:
		return "iec958"
	case EncodingCompanded:
		return "companded"
	case EncodingCompressed:
		return "compressed"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

type endian int

const (
	endianNone endian = iota
	endianLittle
	endianBig
)

type formatInfo struct {
	name     string
	encoding Encoding
	bits     int // significant bits, 0 for compressed streams
	size     int // bytes per sample, 0 for compressed streams
	endian   endian
}

var formats = [...]formatInfo{
	S8: {"s8", EncodingSigned, 8, 1, endianNone},
	U8: {"u8", EncodingUnsigned, 8, 1, endianNone},

	S16LE: {"s16le", EncodingSigned, 16, 2, endianLittle},
	S16BE: {"s16be", EncodingSigned, 16, 2, endianBig},
	U16LE: {"u16le", EncodingUnsigned, 16, 2, endianLittle},
	U16BE: {"u16be", EncodingUnsigned, 16, 2, endianBig},

	S18LE: {"s18le", EncodingSigned, 18, 3, endianLittle},
	S18BE: {"s18be", EncodingSigned, 18, 3, endianBig},
	U18LE: {"u18le", EncodingUnsigned, 18, 3, endianLittle},
	U18BE: {"u18be", EncodingUnsigned, 18, 3, endianBig},

	S20LE: {"s20le", EncodingSigned, 20, 3, endianLittle},
	S20BE: {"s20be", EncodingSigned, 20, 3, endianBig},
	U20LE: {"u20le", EncodingUnsigned, 20, 3, endianLittle},
	U20BE: {"u20be", EncodingUnsigned, 20, 3, endianBig},

	S24LE: {"s24le", EncodingSigned, 24, 3, endianLittle},
	S24BE: {"s24be", EncodingSigned, 24, 3, endianBig},
	U24LE: {"u24le", EncodingUnsigned, 24, 3, endianLittle},
	U24BE: {"u24be", EncodingUnsigned, 24, 3, endianBig},

	S24_32LE: {"s24_32le", EncodingSigned, 24, 4, endianLittle},
	S24_32BE: {"s24_32be", EncodingSigned, 24, 4, endianBig},
	U24_32LE: {"u24_32le", EncodingUnsigned, 24, 4, endianLittle},
	U24_32BE: {"u24_32be", EncodingUnsigned, 24, 4, endianBig},

	S32LE: {"s32le", EncodingSigned, 32, 4, endianLittle},
	S32BE: {"s32be", EncodingSigned, 32, 4, endianBig},
	U32LE: {"u32le", EncodingUnsigned, 32, 4, endianLittle},
	U32BE: {"u32be", EncodingUnsigned, 32, 4, endianBig},

	Float32LE: {"float32le", EncodingFloat, 32, 4, endianLittle},
	Float32BE: {"float32be", EncodingFloat, 32, 4, endianBig},
	Float64LE: {"float64le", EncodingFloat, 64, 8, endianLittle},
	Float64BE: {"float64be", EncodingFloat, 64, 8, endianBig},

	IEC958LE: {"iec958le", EncodingIEC958, 32, 4, endianLittle},
	IEC958BE: {"iec958be", EncodingIEC958, 32, 4, endianBig},

	ALaw:  {"alaw", EncodingCompanded, 8, 1, endianNone},
	ULaw:  {"ulaw", EncodingCompanded, 8, 1, endianNone},
	ADPCM: {"adpcm", EncodingCompressed, 0, 0, endianNone},
	MPEG:  {"mpeg", EncodingCompressed, 0, 0, endianNone},
	GSM:   {"gsm", EncodingCompressed, 0, 0, endianNone},
	AC3:   {"ac3", EncodingCompressed, 0, 0, endianNone},
}

// Formats returns every sample format in declaration order.
func Formats() []SampleFormat {
	out := make([]SampleFormat, len(formats))
	for i := range formats {
		out[i] = SampleFormat(i)
	}
	return out
}

// Valid reports whether f names a known sample format.
func (f SampleFormat) Valid() bool {
	return f >= 0 && int(f) < len(formats)
}

func (f SampleFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("SampleFormat(%d)", int(f))
	}
	return formats[f].name
}

// Encoding returns the encoding family of f.
func (f SampleFormat) Encoding() Encoding {
	if !f.Valid() {
		return EncodingCompressed
	}
	return formats[f].encoding
}

// Bits returns the number of significant bits per sample (24 for S24_32LE).
func (f SampleFormat) Bits() int {
	if !f.Valid() {
		return 0
	}
	return formats[f].bits
}

// BytesPerSample returns the container size of one sample, or 0 for
// compressed bitstreams that have no fixed sample size.
func (f SampleFormat) BytesPerSample() int {
	if !f.Valid() {
		return 0
	}
	return formats[f].size
}

// IsLinear reports whether f is plain linear PCM (integer or float).
func (f SampleFormat) IsLinear() bool {
	switch f.Encoding() {
	case EncodingSigned, EncodingUnsigned, EncodingFloat:
		return f.Valid()
	}
	return false
}

// IsSigned reports whether f carries signed integer or float samples.
func (f SampleFormat) IsSigned() bool {
	enc := f.Encoding()
	return f.Valid() && (enc == EncodingSigned || enc == EncodingFloat)
}

// IsCompressed reports whether f is a bitstream without fixed-size samples.
func (f SampleFormat) IsCompressed() bool {
	return f.Encoding() == EncodingCompressed
}

// IsLittleEndian reports whether multi-byte samples are stored LSB first.
// Single-byte formats report true.
func (f SampleFormat) IsLittleEndian() bool {
	return f.Valid() && formats[f].endian != endianBig
}

// ByteOrder returns the byte order of multi-byte samples, or nil when
// byte order has no meaning for f.
func (f SampleFormat) ByteOrder() binary.ByteOrder {
	if !f.Valid() {
		return nil
	}
	switch formats[f].endian {
	case endianLittle:
		return binary.LittleEndian
	case endianBig:
		return binary.BigEndian
	}
	return nil
}

// FrameSize returns the number of bytes in one frame of f with the given
// channel count. Compressed bitstreams are byte addressed and report 1.
func (f SampleFormat) FrameSize(channels int) int {
	if f.IsCompressed() {
		return 1
	}
	return f.BytesPerSample() * channels
}

// ParseSampleFormat maps a name such as "s16le", "S16_LE" or "float32le"
// back to its SampleFormat.
func ParseSampleFormat(s string) (SampleFormat, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, info := range formats {
		if key == info.name {
			return SampleFormat(i), nil
		}
	}

	// Accept ALSA style spellings ("S16_LE", "FLOAT_LE", "MU_LAW").
	alt := strings.ReplaceAll(key, "_le", "le")
	alt = strings.ReplaceAll(alt, "_be", "be")
	switch alt {
	case "floatle":
		return Float32LE, nil
	case "floatbe":
		return Float32BE, nil
	case "mu_law", "mulaw":
		return ULaw, nil
	case "a_law":
		return ALaw, nil
	}
	for i, info := range formats {
		if alt == info.name {
			return SampleFormat(i), nil
		}
	}

	return 0, fmt.Errorf("unknown sample format: %q", s)
}
