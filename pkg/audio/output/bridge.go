// ABOUTME: Blocking write bridge over pull-callback audio engines
// ABOUTME: A lock-free ring carries PCM from Write to the engine callback
package output

import (
	"errors"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio/ring"
)

// ringBackend adapts an engine to the blocking Backend interface.
//
// The engine is started on the first Write after being stopped. When the
// callback finds the ring empty it marks the stream stopped and asks the
// stopper goroutine to stop the engine, since engines cannot be stopped
// from their own callback.
type ringBackend struct {
	name        string
	engine      engine
	formats     formatTable
	strerror    func(code int) string
	code        func(err error) int
	codes       sentinelCodes
	cfg         Config
	onDestroy   func()
	rb          *ring.Buffer
	frameSize   int
	initialized atomic.Bool
	running     atomic.Bool
	unplayed    atomic.Bool

	// engineMu serializes Start/Stop; started is guarded by it.
	engineMu sync.Mutex
	started  bool

	stopReq chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup
}

type ringOptions struct {
	strerror  func(code int) string
	code      func(err error) int
	codes     sentinelCodes
	onDestroy func()
}

// sentinelCodes are the native codes reported for the package's own
// errors, so that Strerror reads them back in the backend's convention.
type sentinelCodes struct {
	exist       int
	invalid     int
	unsupported int
}

func (c sentinelCodes) withDefaults() sentinelCodes {
	if c.exist == 0 {
		c.exist = -int(syscall.EEXIST)
	}
	if c.invalid == 0 {
		c.invalid = -int(syscall.EINVAL)
	}
	if c.unsupported == 0 {
		c.unsupported = -int(syscall.EINVAL)
	}
	return c
}

func newRingBackend(name string, cfg Config, e engine, formats formatTable, opts ringOptions) *ringBackend {
	b := &ringBackend{
		name:      name,
		engine:    e,
		formats:   formats,
		strerror:  opts.strerror,
		code:      opts.code,
		codes:     opts.codes.withDefaults(),
		cfg:       cfg.withDefaults(),
		onDestroy: opts.onDestroy,
	}
	if b.strerror == nil {
		b.strerror = errnoStrerror
	}
	if b.code == nil {
		b.code = Code
	}
	return b
}

func (b *ringBackend) Name() string {
	return b.name
}

func (b *ringBackend) Strerror(code int) string {
	return b.strerror(code)
}

func (b *ringBackend) nativeError(op string, err error) error {
	return &Error{Backend: b.name, Op: op, Code: b.code(err), Err: err}
}

// sentinelCode maps the package's sentinel errors to this backend's codes.
func (b *ringBackend) sentinelCode(err error) int {
	switch {
	case errors.Is(err, ErrAlreadyOpen):
		return b.codes.exist
	case errors.Is(err, ErrUnsupportedFormat):
		return b.codes.unsupported
	case errors.Is(err, ErrInvalidLength), errors.Is(err, ErrInvalidConfig), errors.Is(err, audio.ErrInvalidStream):
		return b.codes.invalid
	}
	return b.code(err)
}

func (b *ringBackend) Open(cfg audio.StreamConfig) error {
	if b.initialized.Load() {
		return &Error{Backend: b.name, Op: "open", Code: b.codes.exist, Err: ErrAlreadyOpen}
	}

	nf, err := b.formats.lookup(b.name, cfg.Format, b.codes.unsupported)
	if err != nil {
		return err
	}

	rb := ring.New(b.cfg.RingSize)
	stopReq := make(chan struct{}, 1)

	fill := func(out []byte) {
		b.fill(rb, stopReq, out)
	}
	if err := b.engine.Init(cfg, nf, fill); err != nil {
		b.engine.Close()
		return b.nativeError("open", err)
	}

	b.rb = rb
	b.frameSize = cfg.FrameSize()
	b.running.Store(false)
	b.unplayed.Store(false)
	b.started = false
	b.stopReq = stopReq
	b.done = make(chan struct{})

	b.wg.Add(1)
	go b.stopLoop(stopReq, b.done)

	b.initialized.Store(true)
	return nil
}

// fill runs on the engine thread and must never block.
func (b *ringBackend) fill(rb *ring.Buffer, stopReq chan<- struct{}, out []byte) {
	if !b.running.Load() {
		// Stop was requested but not yet acknowledged.
		clear(out)
		return
	}

	if rb.Len() == 0 {
		b.running.Store(false)
		select {
		case stopReq <- struct{}{}:
		default:
		}
		clear(out)
		return
	}

	n := rb.Read(out)
	clear(out[n:])
}

// stopLoop stops the engine after an underrun, unless a Write has already
// restarted the stream.
func (b *ringBackend) stopLoop(stopReq <-chan struct{}, done <-chan struct{}) {
	defer b.wg.Done()

	for {
		select {
		case <-done:
			return
		case <-stopReq:
			b.engineMu.Lock()
			if !b.running.Load() && b.started {
				if err := b.engine.Stop(); err != nil {
					log.Debugf("%s: stop after underrun: %v", b.name, err)
				}
				b.started = false
				log.Tracef("%s: underrun, stream stopped", b.name)
			}
			b.engineMu.Unlock()
		}
	}
}

func (b *ringBackend) start() error {
	b.engineMu.Lock()
	defer b.engineMu.Unlock()

	b.running.Store(true)
	if b.started {
		return nil
	}
	if err := b.engine.Start(); err != nil {
		b.running.Store(false)
		return b.nativeError("write", err)
	}
	b.started = true
	return nil
}

func (b *ringBackend) Write(data []byte) error {
	if !b.initialized.Load() {
		return nil
	}
	if len(data)%b.frameSize != 0 {
		return &Error{Backend: b.name, Op: "write", Code: b.codes.invalid, Err: ErrInvalidLength}
	}
	if err := b.engine.Err(); err != nil {
		return b.nativeError("write", err)
	}

	runningAtStart := b.running.Load()
	if !runningAtStart {
		b.rb.Reset()
	}

	for len(data) > 0 {
		for (!runningAtStart || b.running.Load()) && b.rb.Free() == 0 {
			time.Sleep(b.cfg.PollInterval)
		}

		// Flushed or underran while we waited.
		if runningAtStart && !b.running.Load() {
			return nil
		}

		n := b.rb.Write(data)
		data = data[n:]
		if n > 0 {
			b.unplayed.Store(true)
		}

		if !runningAtStart {
			if err := b.start(); err != nil {
				return err
			}
			runningAtStart = true
		}
	}

	return nil
}

func (b *ringBackend) Drain() error {
	for b.initialized.Load() && b.running.Load() {
		if err := b.engine.Err(); err != nil {
			return b.nativeError("drain", err)
		}
		time.Sleep(b.cfg.PollInterval)
	}

	// Flush clears unplayed before running, so a cancelled drain skips this.
	if !b.initialized.Load() || !b.unplayed.Swap(false) {
		return nil
	}
	if d, ok := b.engine.(drainer); ok {
		if err := d.Drain(); err != nil {
			return b.nativeError("drain", err)
		}
	}
	return nil
}

func (b *ringBackend) Flush() error {
	if !b.initialized.Load() {
		return nil
	}

	b.engineMu.Lock()
	defer b.engineMu.Unlock()

	var err error
	if b.started {
		err = b.engine.Stop()
		b.started = false
	}
	if f, ok := b.engine.(flusher); ok && err == nil {
		err = f.Flush()
	}
	b.unplayed.Store(false)
	b.running.Store(false)
	b.rb.Reset()

	if err != nil {
		return b.nativeError("flush", err)
	}
	return nil
}

func (b *ringBackend) Close() {
	if !b.initialized.CompareAndSwap(true, false) {
		return
	}

	close(b.done)
	b.wg.Wait()

	b.engineMu.Lock()
	if b.started {
		if err := b.engine.Stop(); err != nil {
			log.Debugf("%s: stop on close: %v", b.name, err)
		}
		b.started = false
	}
	b.running.Store(false)
	b.engine.Close()
	b.engineMu.Unlock()
}

func (b *ringBackend) Destroy() {
	b.Close()
	if b.onDestroy != nil {
		b.onDestroy()
		b.onDestroy = nil
	}
}
