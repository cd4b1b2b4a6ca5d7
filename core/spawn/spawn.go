package spawn

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Exit codes used by the helper when it cannot run the program.
const (
	// ExitFailure covers user facing problems: a file that can't be opened or
	// a program that can't be found.
	ExitFailure = 1
	// ExitRedirect means a stream could not be rebound after it was opened.
	ExitRedirect = 2
)

// Error is a child-fatal problem along with the exit code it maps to.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ResetInterrupt gives SIGINT its default disposition in the program about
// to be executed. execve keeps ignored signals ignored but resets caught
// ones, so the signal is caught here rather than reset.
func ResetInterrupt() {
	signal.Notify(make(chan os.Signal, 1), os.Interrupt)
}

// Apply performs the redirections in p on the current process.
func Apply(p *Plan) error {
	if p.Stdin != "" {
		if err := redirect(p.Stdin, os.O_RDONLY, unix.Stdin, "input"); err != nil {
			return err
		}
	}
	if p.Stdout != "" {
		if err := redirect(p.Stdout, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, unix.Stdout, "output"); err != nil {
			return err
		}
	}
	if p.NullStdin && p.Stdin == "" {
		if err := redirect(os.DevNull, os.O_RDONLY, unix.Stdin, "input"); err != nil {
			return err
		}
	}
	if p.NullStdout && p.Stdout == "" {
		if err := redirect(os.DevNull, os.O_WRONLY, unix.Stdout, "output"); err != nil {
			return err
		}
	}
	return nil
}

func redirect(path string, flag int, target int, direction string) error {
	fd, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return &Error{Code: ExitFailure, Err: fmt.Errorf("cannot open %s for %s: %w", path, direction, err)}
	}
	defer fd.Close()

	if err := unix.Dup2(int(fd.Fd()), target); err != nil {
		return &Error{Code: ExitRedirect, Err: fmt.Errorf("cannot redirect %s to %s: %w", direction, path, err)}
	}
	return nil
}

// Exec replaces the current process with argv. It only returns on failure.
func Exec(argv []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil && !errors.Is(err, exec.ErrDot) {
		return &Error{Code: ExitFailure, Err: fmt.Errorf("%s: no such command", argv[0])}
	}

	if err := unix.Exec(path, argv, os.Environ()); err != nil {
		return &Error{Code: ExitFailure, Err: fmt.Errorf("%s: no such command: %w", argv[0], err)}
	}
	return nil
}

// Main is the entry point of the helper. It does not return if the program
// starts, otherwise it reports why on stderr and returns the exit code.
func Main(args []string, stderr io.Writer) int {
	plan, err := ParsePlan(args)
	if err != nil {
		fmt.Fprintf(stderr, "spawn: %v\n", err)
		return ExitRedirect
	}

	ResetInterrupt()

	if err := Apply(plan); err != nil {
		return report(stderr, err)
	}
	return report(stderr, Exec(plan.Argv))
}

func report(w io.Writer, err error) int {
	fmt.Fprintln(w, err)

	var spawnErr *Error
	if errors.As(err, &spawnErr) {
		return spawnErr.Code
	}
	return ExitFailure
}
