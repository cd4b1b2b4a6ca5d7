package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/josephlewis42/smallsh/core/config"
	"github.com/josephlewis42/smallsh/core/jobs"
	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/josephlewis42/smallsh/core/mode"
	"github.com/josephlewis42/smallsh/core/shell"
)

const (
	EnvHome = "HOME"
)

// Shell is the interpreter loop: it reads lines, runs builtins itself and
// hands everything else to its Launcher.
type Shell struct {
	Config   *config.Configuration
	Parser   shell.Parser
	Launcher *Launcher

	// In is the source of command lines.
	In io.Reader
	// Out and Err receive the interpreter's own messages.
	Out io.Writer
	Err io.Writer

	events     *eventLog
	color      *ColorPrinter
	outColor   *ColorPrinter
	lastStatus jobs.Status
	killedJobs []int

	// Set to true to quit the shell
	Quit bool
}

// NewShell creates an interpreter using files for its own I/O and as the
// inherited streams of every child. modeState is shared with the signal
// watcher.
func NewShell(cfg *config.Configuration, files IO, modeState *mode.State, events *logger.SessionLogger) (*Shell, error) {
	helper, err := DefaultHelper()
	if err != nil {
		return nil, err
	}
	out := newSyncWriter(files.Stdout)
	s := &Shell{
		Config: cfg,
		Parser: shell.Parser{
			Pid:     os.Getpid(),
			MaxArgs: cfg.MaxArgs,
		},
		Launcher: &Launcher{
			Helper: helper,
			Files:  files,
			Out:    out,
			Jobs:   jobs.NewTable(cfg.MaxJobs),
			Mode:   modeState,
		},
		In:       files.Stdin,
		Out:      out,
		Err:      newSyncWriter(files.Stderr),
		color:    NewColorPrinter(cfg.Color, files.Stderr),
		outColor: NewColorPrinter(cfg.Color, files.Stdout),
	}
	s.events = newEventLog(events, func(err error) {
		s.errorf("event log: %v", err)
	})
	s.Launcher.events = s.events
	return s, nil
}

// LastStatus is the outcome of the most recent foreground command.
func (s *Shell) LastStatus() jobs.Status {
	return s.lastStatus
}

// Run reads and executes lines until exit, end of input or a fatal error.
// A nil error means an orderly exit.
func (s *Shell) Run() error {
	lines, err := NewLineReader(s.In, s.Out, s.Err, s.Config.MaxLine, s.Config.LineEditing)
	if err != nil {
		return err
	}
	defer lines.Close()

	wd, err := os.Getwd()
	if err != nil {
		s.errorf("working directory: %v", err)
	}
	s.events.Record(&logger.SessionStart{Pid: s.Parser.Pid, WorkDir: wd})

	for !s.Quit {
		line, err := lines.ReadLine(s.Config.Prompt)
		switch {
		case errors.Is(err, ErrLineTooLong):
			s.warnf("line longer than %d bytes, the rest was discarded", s.Config.MaxLine)
		case err == io.EOF:
			// Input closed, behave like exit.
			fmt.Fprintln(s.Out)
			Exit(s, []string{"exit"})
			continue
		case err != nil:
			s.errorf("reading input: %v", err)
			s.endSession(err)
			return err
		}

		if err := s.RunLine(line); err != nil {
			s.endSession(err)
			return err
		}

		s.Launcher.Reap()
	}

	s.endSession(nil)
	return nil
}

// RunLine parses and dispatches a single line. Only interpreter-fatal errors
// are returned, everything else is reported to the user.
func (s *Shell) RunLine(line string) error {
	cmd, warnings, err := s.Parser.Parse(line)
	for _, warning := range warnings {
		s.warnf("%s", warning)
	}
	if err != nil {
		s.errorf("%v", err)
		return nil
	}
	if cmd == nil {
		return nil
	}

	return s.Dispatch(cmd)
}

// Dispatch runs cmd as a builtin if one matches its name, otherwise as an
// external program.
func (s *Shell) Dispatch(cmd *shell.Command) error {
	builtin, isBuiltin := AllBuiltins[cmd.Name()]

	s.events.Record(&logger.RunCommand{
		Command:    cmd.Args,
		InputPath:  cmd.InputPath,
		OutputPath: cmd.OutputPath,
		Background: cmd.Background,
		Builtin:    isBuiltin,
	})

	// Builtins always run in the foreground of the interpreter itself.
	if isBuiltin {
		builtin.Main(s, cmd.Args)
		return nil
	}

	status, err := s.Launcher.Launch(cmd)
	switch {
	case errors.Is(err, ErrSpawn):
		s.errorf("%v", err)
		s.events.Record(&logger.LaunchFailure{Command: cmd.Args, Error: err.Error()})
		return err
	case err != nil:
		s.errorf("%s: %v", cmd.Name(), err)
		s.events.Record(&logger.LaunchFailure{Command: cmd.Args, Error: err.Error()})
		return nil
	}

	if status != nil {
		s.lastStatus = *status
	}
	return nil
}

func (s *Shell) endSession(err error) {
	end := &logger.SessionEnd{KilledJobs: s.killedJobs}
	if err != nil {
		end.Error = err.Error()
	}
	s.events.Record(end)
}

func (s *Shell) errorf(format string, a ...interface{}) {
	fmt.Fprintln(s.Err, s.color.Sprintf(ColorBoldRed, "smallsh: "+format, a...))
}

func (s *Shell) warnf(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(s.Out, s.outColor.Sprintf(ColorBoldYellow, "%s", strings.TrimSpace(msg)))
}
