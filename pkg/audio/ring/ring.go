// ABOUTME: Lock-free single-producer/single-consumer byte ring
// ABOUTME: Carries PCM from a blocking writer to a realtime pull callback
package ring

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Buffer is a fixed-size byte ring. Exactly one goroutine may call Write
// and exactly one may call Read at a time; Reset may be called from any
// goroutine. Neither Read nor Write ever blocks.
//
// head and tail are monotonic byte counters, so Len is head-tail and the
// buffer never confuses empty with full.
type Buffer struct {
	data []byte
	mask uint64

	_    cpu.CacheLinePad
	head atomic.Uint64 // advanced by the producer
	_    cpu.CacheLinePad
	tail atomic.Uint64 // advanced by the consumer and by Reset
	_    cpu.CacheLinePad
}

// New creates a ring holding at least size bytes. The capacity is rounded
// up to the next power of two.
func New(size int) *Buffer {
	if size <= 0 {
		panic("ring: size must be positive")
	}
	n := 1
	for n < size {
		n <<= 1
		if n <= 0 {
			panic("ring: size overflows int")
		}
	}
	return &Buffer{
		data: make([]byte, n),
		mask: uint64(n - 1),
	}
}

// Cap returns the capacity in bytes.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Len returns the number of bytes waiting to be read.
func (b *Buffer) Len() int {
	tail := b.tail.Load()
	head := b.head.Load()
	if head < tail {
		// Reset raced between the two loads.
		return 0
	}
	return int(head - tail)
}

// Free returns the number of bytes that can be written without overwriting.
func (b *Buffer) Free() int {
	return len(b.data) - b.Len()
}

// Write copies as much of p as fits and returns the number of bytes copied.
func (b *Buffer) Write(p []byte) int {
	head := b.head.Load()
	tail := b.tail.Load()

	free := uint64(len(b.data)) - (head - tail)
	n := uint64(len(p))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	b.copyIn(head, p[:n])
	b.head.Store(head + n)
	return int(n)
}

// Read copies up to len(p) buffered bytes into p and returns the count.
func (b *Buffer) Read(p []byte) int {
	for {
		tail := b.tail.Load()
		head := b.head.Load()
		if head <= tail {
			return 0
		}

		n := head - tail
		if n > uint64(len(p)) {
			n = uint64(len(p))
		}
		if n == 0 {
			return 0
		}

		b.copyOut(tail, p[:n])
		if b.tail.CompareAndSwap(tail, tail+n) {
			return int(n)
		}
		// Reset discarded what we copied; start over.
	}
}

// Reset discards all buffered bytes.
func (b *Buffer) Reset() {
	for {
		tail := b.tail.Load()
		head := b.head.Load()
		if tail >= head || b.tail.CompareAndSwap(tail, head) {
			return
		}
	}
}

func (b *Buffer) copyIn(pos uint64, p []byte) {
	start := pos & b.mask
	n := copy(b.data[start:], p)
	if n < len(p) {
		copy(b.data, p[n:])
	}
}

func (b *Buffer) copyOut(pos uint64, p []byte) {
	start := pos & b.mask
	n := copy(p, b.data[start:])
	if n < len(p) {
		copy(p[n:], b.data)
	}
}
