package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/logger"
)

// ErrClosed is returned by Start after Close.
var ErrClosed = errors.New("speech: engine closed")

// eventBuffer is the capacity of an engine's event channel.
const eventBuffer = 64

// emitFunc delivers an event. It returns false once the engine is closed.
type emitFunc func(domain.RecognitionEvent) bool

// runFunc performs one recognition session until ctx is cancelled or the
// source is exhausted. A returned error is reported as an error event.
type runFunc func(ctx context.Context, emit emitFunc) error

// engine runs one recognition session at a time and serialises their events.
// Start and Stop never block on event delivery.
type engine struct {
	name string
	run  runFunc

	events    chan domain.RecognitionEvent
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func newEngine(name string, run runFunc) *engine {
	return &engine{
		name:   name,
		run:    run,
		events: make(chan domain.RecognitionEvent, eventBuffer),
		closed: make(chan struct{}),
	}
}

// Start begins a session. It is a no-op while a session is running.
func (e *engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	select {
	case <-e.closed:
		return ErrClosed
	default:
	}
	if e.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	prev := e.done
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done

	e.wg.Add(1)
	go e.session(runCtx, cancel, prev, done)
	return nil
}

// Stop cancels the running session. The session's end event follows.
func (e *engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	return nil
}

// Events returns the event channel.
func (e *engine) Events() <-chan domain.RecognitionEvent {
	return e.events
}

// Close stops any session and waits for it to finish.
func (e *engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.closed)
		_ = e.Stop()
	})
	e.wg.Wait()
	return nil
}

func (e *engine) session(ctx context.Context, cancel context.CancelFunc, prev, done chan struct{}) {
	defer e.wg.Done()
	defer close(done)
	defer cancel()

	if prev != nil {
		<-prev
	}

	logger.Debug("%s: session started", e.name)
	if e.emit(domain.RecognitionEvent{Type: domain.RecognitionStart}) {
		if err := e.run(ctx, e.emit); err != nil && ctx.Err() == nil {
			logger.Debug("%s: %v", e.name, err)
			e.emit(domain.RecognitionEvent{Type: domain.RecognitionError, Reason: err.Error()})
		}
	}
	e.emit(domain.RecognitionEvent{Type: domain.RecognitionEnd})
	logger.Debug("%s: session ended", e.name)

	e.mu.Lock()
	if e.done == done {
		e.cancel = nil
	}
	e.mu.Unlock()
}

func (e *engine) emit(ev domain.RecognitionEvent) bool {
	select {
	case e.events <- ev:
		return true
	case <-e.closed:
		return false
	}
}
