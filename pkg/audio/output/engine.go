// ABOUTME: Pull-model engine contract driven by the ring bridge
// ABOUTME: Optional drain and flush steps cover audio held past the ring
package output

import "github.com/Resonate-Protocol/pcaudio-go/pkg/audio"

// engine is a pull-model native API driven by ringBackend. The engine
// calls fill from its own thread whenever it needs len(out) bytes.
//
// Start and Stop are never called concurrently with each other. Stop must
// not return until fill has stopped being called, and must not be called
// from inside fill.
type engine interface {
	Init(cfg audio.StreamConfig, nf nativeFormat, fill func(out []byte)) error
	Start() error
	Stop() error

	// Err reports an asynchronous failure (device lost, busy).
	Err() error

	// Close releases everything Init acquired. Safe after a failed Init.
	Close()
}

// drainer is implemented by engines that still hold audio after the ring
// has run dry. Drain blocks until that audio has played.
type drainer interface {
	Drain() error
}

// flusher is implemented by engines that can discard the audio they hold.
type flusher interface {
	Flush() error
}
