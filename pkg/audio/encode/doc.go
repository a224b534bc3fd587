// ABOUTME: Sample packing package for linear PCM output formats
// ABOUTME: Provides Encoder interface and the PCM packer implementation
// Package encode packs samples into the byte layout of a linear
// audio.SampleFormat.
//
// Supports: signed and unsigned 8/16/18/20/24/32-bit integers in both byte
// orders, 24-in-32 containers, and 32/64-bit floats.
//
// All encoders accept int32 samples in 24-bit range. Companded, IEC958 and
// compressed formats are not packed.
//
// Example:
//
//	encoder, err := encode.NewPCM(audio.S16LE)
//	data, err := encoder.Encode(samples)
package encode
