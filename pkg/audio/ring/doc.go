// ABOUTME: Lock-free single-producer single-consumer byte ring
// ABOUTME: Sits between blocking writes and an engine pull callback
// Package ring provides the lock-free byte ring that sits between a
// blocking Write call and an audio engine's pull callback.
//
// Example:
//
//	rb := ring.New(64 * 1024)
//	n := rb.Write(pcm)     // producer goroutine
//	m := rb.Read(out)      // audio callback
package ring
