// ABOUTME: PCM sample packer
// ABOUTME: Packs 24-bit range int32 samples into any linear sample format
package encode

import (
	"encoding/binary"
	"fmt"
	"math"

	goaudio "github.com/go-audio/audio"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
)

var _ Encoder = (*PCMEncoder)(nil)

// PCMEncoder packs samples for one linear sample format
type PCMEncoder struct {
	format audio.SampleFormat
	order  binary.ByteOrder
	size   int
}

// NewPCM creates a packer for format
func NewPCM(format audio.SampleFormat) (*PCMEncoder, error) {
	if !format.IsLinear() {
		return nil, fmt.Errorf("%w: %s is not linear PCM", audio.ErrInvalidStream, format)
	}

	order := format.ByteOrder()
	if order == nil {
		order = binary.LittleEndian
	}

	return &PCMEncoder{
		format: format,
		order:  order,
		size:   format.BytesPerSample(),
	}, nil
}

// Format returns the sample format the encoder produces
func (e *PCMEncoder) Format() audio.SampleFormat {
	return e.format
}

// Encode converts int32 samples to PCM bytes
func (e *PCMEncoder) Encode(samples []int32) ([]byte, error) {
	out := make([]byte, len(samples)*e.size)
	e.pack(out, samples)
	return out, nil
}

// EncodeBuffer packs a go-audio IntBuffer, rescaling its samples from
// SourceBitDepth to 24-bit range first. A zero SourceBitDepth is read as 24.
func (e *PCMEncoder) EncodeBuffer(buf *goaudio.IntBuffer) ([]byte, error) {
	if buf == nil {
		return nil, nil
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 24
	}
	if depth < 1 || depth > 32 {
		return nil, fmt.Errorf("unsupported source bit depth: %d", depth)
	}

	samples := make([]int32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = rescale(int64(v), depth)
	}
	return e.Encode(samples)
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	return nil
}

func rescale(v int64, depth int) int32 {
	switch {
	case depth < 24:
		v <<= uint(24 - depth)
	case depth > 24:
		v >>= uint(depth - 24)
	}
	return audio.ClampTo24Bit(v)
}

func (e *PCMEncoder) pack(out []byte, samples []int32) {
	bits := e.format.Bits()
	unsigned := e.format.Encoding() == audio.EncodingUnsigned

	for i, s := range samples {
		dst := out[i*e.size : (i+1)*e.size]

		switch e.format {
		case audio.S16LE:
			binary.LittleEndian.PutUint16(dst, uint16(audio.SampleToInt16(s)))
			continue
		case audio.S24LE:
			packed := audio.SampleTo24Bit(s)
			copy(dst, packed[:])
			continue
		}

		if e.format.Encoding() == audio.EncodingFloat {
			f := float64(s) / float64(audio.Max24Bit+1)
			if e.size == 8 {
				e.order.PutUint64(dst, math.Float64bits(f))
			} else {
				e.order.PutUint32(dst, math.Float32bits(float32(f)))
			}
			continue
		}

		// Scale to the format's significant bits, then flip the sign bit
		// for unsigned encodings.
		v := int64(s)
		if bits > 24 {
			v <<= uint(bits - 24)
		} else if bits < 24 {
			v >>= uint(24 - bits)
		}
		u := uint32(v)
		if unsigned {
			u ^= 1 << uint(bits-1)
		}
		if bits < 32 {
			u &= 1<<uint(bits) - 1
		}

		switch e.size {
		case 1:
			dst[0] = byte(u)
		case 2:
			e.order.PutUint16(dst, uint16(u))
		case 3:
			if e.order == binary.BigEndian {
				dst[0], dst[1], dst[2] = byte(u>>16), byte(u>>8), byte(u)
			} else {
				dst[0], dst[1], dst[2] = byte(u), byte(u>>8), byte(u>>16)
			}
		case 4:
			e.order.PutUint32(dst, u)
		}
	}
}
