// Package signal cancels a running export when the process is interrupted.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context with an *InterruptError cause when SIGINT or
// SIGTERM is received. Groups already handed to the tracker finish; groups
// not yet started are skipped by the export passes.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel      context.CancelCauseFunc
	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal
	once        sync.Once
	stopOnce    sync.Once
	received    os.Signal
}

// InterruptError is the context cause recorded for a received signal.
type InterruptError struct {
	Signal os.Signal
}

// Error implements the error interface.
func (e *InterruptError) Error() string {
	return fmt.Sprintf("interrupted by %s", e.Signal)
}

// NewHandler creates a handler listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	summary, err := pipeline.Run(h.Context())
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancelCause(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on interruption.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel closed when a signal was received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Signal returns the received signal, or nil when not interrupted.
func (h *Handler) Signal() os.Signal {
	select {
	case <-h.interrupted:
		return h.received
	default:
		return nil
	}
}

// Stop stops listening and releases the context. It is safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel(context.Canceled)
	})
}

// handleSignal records the first signal; later signals are ignored.
func (h *Handler) handleSignal(sig os.Signal) {
	h.once.Do(func() {
		h.received = sig
		h.cancel(&InterruptError{Signal: sig})
		close(h.interrupted)
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handleSignal(sig)
		}
	}
}
