package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// SignalHandler manages cleanup-before-terminate on interrupt. It
// cancels the launch context (killing the container child) and lets
// the launch unwind through its deferred cleanup; the recorded signal
// is used afterwards to exit 128+signal instead of swallowing it.
type SignalHandler struct {
	signals    chan os.Signal
	stopCh     chan struct{} // closed by Stop to signal goroutine to exit
	done       chan struct{} // closed when goroutine exits
	stopOnce   sync.Once
	cancel     context.CancelFunc
	onShutdown []func()

	mu       sync.Mutex
	received syscall.Signal
}

// NewSignalHandler creates a signal handler with the given context cancel.
func NewSignalHandler(cancel context.CancelFunc) *SignalHandler {
	return &SignalHandler{
		signals: make(chan os.Signal, 1),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
}

// Start begins listening for SIGINT and SIGTERM.
func (h *SignalHandler) Start() {
	h.StartWithNotify(true)
}

// StartWithNotify begins listening for signals, optionally registering
// with OS signal handling. Pass false in unit tests to avoid global
// signal state interactions; deliver test signals via Deliver.
func (h *SignalHandler) StartWithNotify(notify bool) {
	if notify {
		signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	}

	started := make(chan struct{})
	go func() {
		defer close(h.done)
		close(started)

		select {
		case sig := <-h.signals:
			h.mu.Lock()
			if s, ok := sig.(syscall.Signal); ok {
				h.received = s
			} else {
				h.received = syscall.SIGTERM
			}
			callbacks := make([]func(), len(h.onShutdown))
			copy(callbacks, h.onShutdown)
			h.mu.Unlock()

			if h.cancel != nil {
				h.cancel()
			}
			for _, fn := range callbacks {
				fn()
			}
		case <-h.stopCh:
			return
		}
	}()

	<-started
}

// Deliver injects a signal, for tests.
func (h *SignalHandler) Deliver(sig os.Signal) {
	h.signals <- sig
}

// OnShutdown registers a callback to run when a signal arrives.
func (h *SignalHandler) OnShutdown(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onShutdown = append(h.onShutdown, fn)
}

// Received returns the signal that triggered shutdown, or 0.
func (h *SignalHandler) Received() syscall.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop stops the signal handler and cleans up.
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
	// Wait for goroutine to exit with a short timeout. This prevents
	// blocking if the goroutine is in the middle of shutdown.
	select {
	case <-h.done:
	case <-time.After(100 * time.Millisecond):
	}
}
