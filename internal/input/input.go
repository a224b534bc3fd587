// ABOUTME: Input sources for the playback CLI
// ABOUTME: Raw PCM passthrough from file or stdin and WAV payload passthrough
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
)

// Stdin is the path that selects standard input
const Stdin = "-"

// WAV format tags from the fmt chunk
const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatALaw       = 6
	wavFormatMuLaw      = 7
	wavFormatExtensible = 0xFFFE
)

var (
	// ErrNotWAV is returned when a file does not carry a readable RIFF/WAVE header
	ErrNotWAV = errors.New("input: not a valid WAV file")

	// ErrUnsupportedWAV is returned for WAV encodings with no matching sample format
	ErrUnsupportedWAV = errors.New("input: unsupported WAV encoding")
)

// Source is a stream of bytes already in the layout described by Config
type Source struct {
	io.Reader

	Config audio.StreamConfig

	// Length is the payload size in bytes, or -1 when unknown
	Length int64

	closer io.Closer
}

// Close releases the underlying file. Standard input is left open.
func (s *Source) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open picks the WAV reader for .wav paths and raw passthrough otherwise.
// cfg describes raw input and is ignored for WAV files.
func Open(path string, cfg audio.StreamConfig) (*Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return OpenWAV(path)
	}
	return OpenRaw(path, cfg)
}

// OpenRaw streams path (or stdin for "-") as PCM in cfg's layout
func OpenRaw(path string, cfg audio.StreamConfig) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if path == Stdin || path == "" {
		return &Source{Reader: os.Stdin, Config: cfg, Length: -1}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	length := int64(-1)
	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
		length = fi.Size()
	}

	return &Source{Reader: f, Config: cfg, Length: length, closer: f}, nil
}

// OpenWAV reads the RIFF header of path and streams its data chunk untouched
func OpenWAV(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	src, err := NewWAV(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	src.closer = f
	return src, nil
}

// NewWAV positions rs at the start of the PCM payload and describes it
func NewWAV(rs io.ReadSeeker) (*Source, error) {
	dec := wav.NewDecoder(rs)
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWAV, err)
	}
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotWAV, err)
	}
	if dec.PCMChunk == nil || dec.NumChans == 0 {
		return nil, ErrNotWAV
	}

	format, err := wavSampleFormat(dec.WavAudioFormat, int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	cfg := audio.StreamConfig{
		Format:     format,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Source{
		Reader: io.LimitReader(dec.PCMChunk.R, int64(dec.PCMSize)),
		Config: cfg,
		Length: int64(dec.PCMSize),
	}, nil
}

func wavSampleFormat(tag uint16, bits int) (audio.SampleFormat, error) {
	switch tag {
	case wavFormatPCM, wavFormatExtensible:
		switch bits {
		case 8:
			return audio.U8, nil
		case 16:
			return audio.S16LE, nil
		case 24:
			return audio.S24LE, nil
		case 32:
			return audio.S32LE, nil
		}
	case wavFormatFloat:
		switch bits {
		case 32:
			return audio.Float32LE, nil
		case 64:
			return audio.Float64LE, nil
		}
	case wavFormatALaw:
		if bits == 8 {
			return audio.ALaw, nil
		}
	case wavFormatMuLaw:
		if bits == 8 {
			return audio.ULaw, nil
		}
	}
	return 0, fmt.Errorf("%w: format tag %#x, %d bits", ErrUnsupportedWAV, tag, bits)
}
