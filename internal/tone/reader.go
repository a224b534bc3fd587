// ABOUTME: io.Reader adapter that packs generated tone frames into bytes
// ABOUTME: Bounds the stream to a fixed number of frames
package tone

import (
	"io"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio/encode"
)

const readerChunkFrames = 512

// Reader streams frames of a Sine packed by an encoder
type Reader struct {
	sine      *Sine
	enc       *encode.PCMEncoder
	remaining int64
	pending   []byte
}

// NewReader returns a reader producing frames frames of s in enc's format
func NewReader(s *Sine, enc *encode.PCMEncoder, frames int64) *Reader {
	return &Reader{sine: s, enc: enc, remaining: frames}
}

func (r *Reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) == 0 {
			if r.remaining <= 0 {
				break
			}
			frames := int64(readerChunkFrames)
			if frames > r.remaining {
				frames = r.remaining
			}
			buf := r.sine.NewBuffer(int(frames))
			r.sine.Fill(buf)
			data, err := r.enc.EncodeBuffer(buf)
			if err != nil {
				return n, err
			}
			r.pending = data
			r.remaining -= frames
		}

		c := copy(p[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}

	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}
