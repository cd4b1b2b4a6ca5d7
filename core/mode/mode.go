// Package mode holds the foreground-only switch toggled by SIGTSTP.
//
// The State cell and the message written on each flip are the only things the
// signal watcher touches; everything else reads the State at launch time.
package mode

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Mode controls whether background requests are honored.
type Mode int32

const (
	// Normal runs commands ending in & in the background.
	Normal Mode = iota
	// ForegroundOnly ignores & and waits for every command.
	ForegroundOnly
)

const (
	EnterForegroundOnly = "entering foreground-only mode (& is now ignored)"
	ExitForegroundOnly  = "exiting foreground-only mode"
)

// ToggleSignal flips the mode.
var ToggleSignal os.Signal = syscall.SIGTSTP

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case ForegroundOnly:
		return "foreground-only"
	default:
		return fmt.Sprintf("Mode(%d)", int32(m))
	}
}

// Message returns the notice printed when switching into m.
func (m Mode) Message() string {
	if m == ForegroundOnly {
		return EnterForegroundOnly
	}
	return ExitForegroundOnly
}

// State is a Mode that can be shared with a signal watcher. The zero value
// is Normal.
type State struct {
	v int32
}

// Load returns the current mode.
func (s *State) Load() Mode {
	return Mode(atomic.LoadInt32(&s.v))
}

// Toggle flips the mode and returns the new value.
func (s *State) Toggle() Mode {
	for {
		old := atomic.LoadInt32(&s.v)
		next := int32(Normal)
		if Mode(old) == Normal {
			next = int32(ForegroundOnly)
		}
		if atomic.CompareAndSwapInt32(&s.v, old, next) {
			return Mode(next)
		}
	}
}

// Watch toggles state each time ToggleSignal arrives and writes the matching
// message to w. It stops when ctx is done.
func Watch(ctx context.Context, state *State, w io.Writer) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, ToggleSignal)

	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigs:
				fmt.Fprintf(w, "\n%s\n", state.Toggle().Message())
			}
		}
	}()
}

// IgnoreInterrupt stops SIGINT from terminating the interpreter. Children
// restore the default disposition before running their program.
func IgnoreInterrupt() {
	signal.Ignore(os.Interrupt)
}

// Raise delivers ToggleSignal to the interpreter itself. Line editors that
// put the terminal in raw mode read the suspend key as input and use this
// instead.
func Raise() error {
	self, err := os.FindProcess(os.Getpid())
	if err != nil {
		return err
	}
	return self.Signal(ToggleSignal)
}
