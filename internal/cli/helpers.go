package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/envguard/internal/presentation/tui"
	"github.com/muesli/termenv"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// ShutdownSignal returns the signal that cancelled ctx, or nil when ctx is not a
// *SignalContext or was cancelled some other way.
func ShutdownSignal(ctx context.Context) os.Signal {
	if sc, ok := ctx.(*SignalContext); ok {
		return sc.Signal()
	}
	return nil
}

// Output is where command results are written.
type Output struct {
	W io.Writer
	// TTY enables colors and rendered markdown.
	TTY bool
}

// Stdout returns an Output for os.Stdout, detecting whether it is a terminal.
func Stdout() Output {
	return Output{W: os.Stdout, TTY: tui.IsTerminal(os.Stdout)}
}

func (o Output) profile() termenv.Profile {
	if o.TTY {
		return termenv.ColorProfile()
	}
	return termenv.Ascii
}

// printSystemMessage prints a standardized system message.
func (o Output) printSystemMessage(format string, args ...any) {
	fmt.Fprintf(o.W, ">>> %s\n", fmt.Sprintf(format, args...))
}
