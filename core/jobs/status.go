package jobs

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Status is the outcome of a terminated process: either an exit code or the
// number of the signal that killed it. The zero value is "exited 0".
type Status struct {
	Signaled bool
	Code     int
}

// Exited creates the status of a process that exited with code.
func Exited(code int) Status {
	return Status{Code: code}
}

// Killed creates the status of a process terminated by signal sig.
func Killed(sig int) Status {
	return Status{Signaled: true, Code: sig}
}

// FromWaitStatus converts the status reported by wait4.
func FromWaitStatus(ws unix.WaitStatus) Status {
	if ws.Signaled() {
		return Killed(int(ws.Signal()))
	}
	return Exited(ws.ExitStatus())
}

// String formats the status the way the status builtin prints it.
func (s Status) String() string {
	if s.Signaled {
		return fmt.Sprintf("terminated by signal %d", s.Code)
	}
	return fmt.Sprintf("exit status was %d", s.Code)
}
