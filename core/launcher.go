package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/mode"
	"github.com/josephlewis42/smallsh/core/shell"
	"github.com/josephlewis42/smallsh/core/spawn"
	"golang.org/x/sys/unix"
)

// ErrSpawn means no child process could be created. The interpreter can't
// make progress after this.
var ErrSpawn = errors.New("cannot create process")

// SpawnCommand is the hidden subcommand that runs spawn.Main.
const SpawnCommand = "spawn"

// Launcher starts external commands, tracks background jobs and reaps them.
type Launcher struct {
	// Helper is the argv prefix that starts the spawn helper, the encoded
	// spawn.Plan is appended to it.
	Helper []string
	// Env is the helper's environment, nil means the current environment.
	Env []string

	Files IO
	Out   io.Writer
	Jobs  *jobs.Table
	Mode  *mode.State

	events *eventLog
}

// DefaultHelper re-executes the running binary in spawn mode.
func DefaultHelper() ([]string, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating interpreter binary: %w", err)
	}
	return []string{self, SpawnCommand}, nil
}

// Launch runs cmd. Background requests made in Normal mode are registered in
// the job table and return a nil status immediately. Everything else blocks
// until the child exits and returns its status.
func (l *Launcher) Launch(cmd *shell.Command) (*jobs.Status, error) {
	currentMode := l.Mode.Load()
	background := cmd.Background && currentMode == mode.Normal

	if background && l.Jobs.Full() {
		return nil, fmt.Errorf("%w: limit is %d", jobs.ErrTableFull, l.Jobs.Cap())
	}

	plan := &spawn.Plan{
		Stdin:      cmd.InputPath,
		Stdout:     cmd.OutputPath,
		NullStdin:  background,
		NullStdout: background,
		Argv:       cmd.Args,
	}

	pid, err := l.start(plan)
	if err != nil {
		return nil, fmt.Errorf("%w: starting helper for %s: %v", ErrSpawn, plan, err)
	}

	l.events.Record(&logger.Launch{
		Command:        cmd.Args,
		Pid:            pid,
		Background:     background,
		ForegroundOnly: cmd.Background && !background,
	})

	if background {
		fmt.Fprintf(l.Out, "background pid is %d\n", pid)
		if err := l.Jobs.Add(pid); err != nil {
			return nil, err
		}
		return nil, nil
	}

	ws, err := waitPid(pid)
	if err != nil {
		return nil, fmt.Errorf("waiting for %d: %w", pid, err)
	}
	status := jobs.FromWaitStatus(ws)
	l.events.Record(logger.ForegroundExit(toProcessExit(pid, status)))
	return &status, nil
}

func (l *Launcher) start(plan *spawn.Plan) (int, error) {
	if len(l.Helper) == 0 {
		return 0, errors.New("no spawn helper configured")
	}
	argv := make([]string, 0, len(l.Helper)+len(plan.Argv)+5)
	argv = append(argv, l.Helper...)
	argv = append(argv, plan.Args()...)

	env := l.Env
	if env == nil {
		env = os.Environ()
	}

	return syscall.ForkExec(argv[0], argv, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{l.Files.Stdin.Fd(), l.Files.Stdout.Fd(), l.Files.Stderr.Fd()},
	})
}

// Reap collects every terminated child without blocking, reports it and
// removes it from the job table. It returns the number of children reaped.
func (l *Launcher) Reap() int {
	reaped := 0
	for {
		pid, ws, err := waitAny()
		if err != nil || pid <= 0 {
			return reaped
		}

		status := jobs.FromWaitStatus(ws)
		fmt.Fprintf(l.Out, "child %d terminated\n", pid)
		fmt.Fprintln(l.Out, status)
		l.Jobs.Remove(pid)
		l.events.Record(logger.JobReaped(toProcessExit(pid, status)))
		reaped++
	}
}

// KillAll sends SIGKILL to every tracked job without waiting for them.
func (l *Launcher) KillAll() []int {
	var killed []int
	for _, pid := range l.Jobs.Pids() {
		if err := unix.Kill(pid, unix.SIGKILL); err != nil && err != unix.ESRCH {
			fmt.Fprintf(l.Out, "cannot kill %d: %v\n", pid, err)
			continue
		}
		killed = append(killed, pid)
	}
	return killed
}

func waitPid(pid int) (unix.WaitStatus, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if err == unix.EINTR {
			continue
		}
		return ws, err
	}
}

func waitAny() (int, unix.WaitStatus, error) {
	var ws unix.WaitStatus
	for {
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		if err == unix.EINTR {
			continue
		}
		return pid, ws, err
	}
}

func toProcessExit(pid int, status jobs.Status) logger.ProcessExit {
	return logger.ProcessExit{Pid: pid, Signaled: status.Signaled, Code: status.Code}
}
