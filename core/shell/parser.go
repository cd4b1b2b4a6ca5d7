package shell

// A line is processed in the following order, loosely following
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
//
// 1. The input is broken into whitespace separated words. There is no quoting.
//
// 2. The redirection operators < and > remove themselves and the following
// word from the argument list. Comments (first remaining argument starting
// with #) are dropped along with their redirections.
//
// 3. A trailing & requests background execution and is removed.
//
// 4. Each argument ending in $$ has that suffix replaced by the process ID of
// the interpreter.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// SessionMarker is replaced by the interpreter's PID when it ends an
	// argument.
	SessionMarker = "$$"

	BackgroundMarker = "&"
	CommentPrefix    = "#"
	RedirectIn       = "<"
	RedirectOut      = ">"
)

// ErrTooManyArgs is returned for lines exceeding the argument limit.
var ErrTooManyArgs = errors.New("too many arguments")

// MissingRedirectTarget is the warning emitted when < or > ends the line.
const MissingRedirectTarget = "no file specified, not redirecting"

// Command is a single parsed line.
type Command struct {
	// Args holds the program name followed by its arguments, it is never empty.
	Args       []string
	InputPath  string
	OutputPath string
	Background bool
}

// Name returns the program name.
func (c *Command) Name() string {
	return c.Args[0]
}

// Parser turns input lines into commands.
type Parser struct {
	// Pid is substituted for a trailing SessionMarker.
	Pid int
	// MaxArgs limits the number of arguments, zero means no limit.
	MaxArgs int
}

// Parse a single line. A nil command with a nil error means the line had
// nothing to run. Warnings are non-fatal problems that should be shown to the
// user.
func (p *Parser) Parse(line string) (cmd *Command, warnings []string, err error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, nil, nil
	}

	cmd = &Command{}
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case RedirectIn, RedirectOut:
			if i+1 >= len(tokens) {
				warnings = append(warnings, MissingRedirectTarget)
				continue
			}
			if tokens[i] == RedirectIn {
				cmd.InputPath = tokens[i+1]
			} else {
				cmd.OutputPath = tokens[i+1]
			}
			i++
		default:
			cmd.Args = append(cmd.Args, tokens[i])
		}
	}

	// Comments run nothing, not even their redirections.
	if len(cmd.Args) > 0 && strings.HasPrefix(cmd.Args[0], CommentPrefix) {
		return nil, nil, nil
	}

	if n := len(cmd.Args); n > 0 && cmd.Args[n-1] == BackgroundMarker {
		cmd.Background = true
		cmd.Args = cmd.Args[:n-1]
	}

	for i, arg := range cmd.Args {
		cmd.Args[i] = ExpandSessionMarker(arg, p.Pid)
	}

	if len(cmd.Args) == 0 {
		return nil, warnings, nil
	}

	if p.MaxArgs > 0 && len(cmd.Args) > p.MaxArgs {
		return nil, warnings, fmt.Errorf("%w: %d given, limit is %d", ErrTooManyArgs, len(cmd.Args), p.MaxArgs)
	}

	return cmd, warnings, nil
}

// ExpandSessionMarker replaces a SessionMarker at the very end of arg with
// pid. Markers anywhere else are left alone.
func ExpandSessionMarker(arg string, pid int) string {
	if !strings.HasSuffix(arg, SessionMarker) {
		return arg
	}
	return strings.TrimSuffix(arg, SessionMarker) + strconv.Itoa(pid)
}
