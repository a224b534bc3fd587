// ABOUTME: Playback loop feeding an output handle from an input source
// ABOUTME: Writes frame-aligned chunks, drains at end of input and honours flushes
package main

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/Resonate-Protocol/pcaudio-go/internal/input"
	"github.com/Resonate-Protocol/pcaudio-go/internal/ui"
	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio/output"
)

// chunkDuration is the amount of audio handed to Write per call
const chunkDuration = 20 * time.Millisecond

// compressedChunk is the Write size for formats without a byte rate
const compressedChunk = 4096

const statusInterval = 250 * time.Millisecond

// player copies a source into an output handle
type player struct {
	obj     *output.Object
	src     *input.Source
	flushed atomic.Bool
	written atomic.Int64
}

func newPlayer(obj *output.Object, src *input.Source) *player {
	return &player{obj: obj, src: src}
}

// chunkSize returns the whole-frame byte count written per call.
func chunkSize(cfg audio.StreamConfig) int {
	if cfg.Format.IsCompressed() {
		return compressedChunk
	}
	frame := cfg.FrameSize()
	chunk := int(int64(cfg.BytesPerSecond())*int64(chunkDuration)/int64(time.Second)) / frame * frame
	if chunk < frame {
		chunk = frame
	}
	return chunk
}

// Flush discards queued audio and stops the playback loop. Safe to call
// from any goroutine.
func (p *player) Flush() {
	if p.flushed.Swap(true) {
		return
	}
	if err := p.obj.Flush(); err != nil {
		log.Warnf("Flush failed: %v", err)
	}
}

// Play runs until the source is exhausted or Flush is called. status, when
// non-nil, receives progress updates.
func (p *player) Play(status func(ui.StatusMsg)) error {
	cfg := p.src.Config
	frame := cfg.FrameSize()
	chunk := chunkSize(cfg)

	send := func(msg ui.StatusMsg) {
		if status != nil {
			status(msg)
		}
	}

	send(ui.StatusMsg{Backend: p.obj.Backend(), ID: p.obj.ID()})
	send(ui.StatusMsg{
		Format:     cfg.Format.String(),
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
		State:      ui.StatePlaying,
		Total:      p.src.Length,
	})

	start := time.Now()
	lastStatus := start
	buf := make([]byte, chunk)

	for !p.flushed.Load() {
		n, err := io.ReadFull(p.src, buf)
		// Trailing partial frames cannot be written.
		n -= n % frame

		if n > 0 {
			if werr := p.obj.Write(buf[:n]); werr != nil {
				send(ui.StatusMsg{Err: werr, Code: output.Code(werr)})
				return fmt.Errorf("write: %s (%d)", p.obj.Strerror(output.Code(werr)), output.Code(werr))
			}
			p.written.Add(int64(n))
		}

		if now := time.Now(); now.Sub(lastStatus) >= statusInterval {
			lastStatus = now
			send(ui.StatusMsg{Written: p.written.Load(), Elapsed: now.Sub(start)})
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}

	if p.flushed.Load() {
		log.Infof("Playback flushed after %d bytes", p.written.Load())
		send(ui.StatusMsg{State: ui.StateFlushed})
		return nil
	}

	send(ui.StatusMsg{State: ui.StateDraining, Written: p.written.Load()})
	if err := p.obj.Drain(); err != nil {
		send(ui.StatusMsg{Err: err, Code: output.Code(err)})
		return fmt.Errorf("drain: %w", err)
	}

	log.Infof("Played %d bytes in %v", p.written.Load(), time.Since(start).Round(time.Millisecond))
	send(ui.StatusMsg{State: ui.StateDone, Written: p.written.Load(), Elapsed: time.Since(start)})
	return nil
}
