// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines SampleFormat, StreamConfig and sample conversion functions
// Package audio describes the PCM data an output consumes.
//
// SampleFormat enumerates every encoding an output may be opened with,
// from 8-bit integer PCM through floats, IEC958 subframes and compressed
// bitstreams. StreamConfig pairs a format with a sample rate and channel
// count.
//
// Example:
//
//	cfg := audio.StreamConfig{
//	    Format:     audio.S16LE,
//	    SampleRate: 22050,
//	    Channels:   1,
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	frame := cfg.FrameSize() // 2
package audio
