// Package spawn is the child side of launching a command.
//
// The interpreter cannot run code between fork and exec, so it starts its own
// binary in a helper mode instead. The helper resets SIGINT, applies the
// redirections in its Plan and then replaces itself with the target program
// through execve, keeping the PID the interpreter already reported.
package spawn

import (
	"errors"
	"fmt"

	getopt "github.com/pborman/getopt/v2"
)

// Plan describes what the helper does before exec.
type Plan struct {
	// Stdin and Stdout are explicit redirection targets, empty when unset.
	Stdin  string
	Stdout string

	// NullStdin and NullStdout rebind the stream to the null device. They are
	// ignored for streams with an explicit target.
	NullStdin  bool
	NullStdout bool

	// Argv is the program followed by its arguments.
	Argv []string
}

// Args encodes the plan as helper command line arguments.
func (p *Plan) Args() []string {
	var out []string
	if p.Stdin != "" {
		out = append(out, "--stdin="+p.Stdin)
	}
	if p.Stdout != "" {
		out = append(out, "--stdout="+p.Stdout)
	}
	if p.NullStdin {
		out = append(out, "--null-stdin")
	}
	if p.NullStdout {
		out = append(out, "--null-stdout")
	}
	out = append(out, "--")
	return append(out, p.Argv...)
}

// ParsePlan decodes helper arguments, args[0] is the helper's own name.
func ParsePlan(args []string) (*Plan, error) {
	opts := getopt.New()
	stdin := opts.StringLong("stdin", 'i', "", "redirect standard input from FILE", "FILE")
	stdout := opts.StringLong("stdout", 'o', "", "redirect standard output to FILE", "FILE")
	nullStdin := opts.BoolLong("null-stdin", 'n', "read standard input from the null device")
	nullStdout := opts.BoolLong("null-stdout", 'N', "write standard output to the null device")

	if err := opts.Getopt(args, nil); err != nil {
		return nil, err
	}

	plan := &Plan{
		Stdin:      *stdin,
		Stdout:     *stdout,
		NullStdin:  *nullStdin,
		NullStdout: *nullStdout,
		Argv:       opts.Args(),
	}
	if len(plan.Argv) == 0 {
		return nil, errors.New("missing program")
	}
	return plan, nil
}

func (p *Plan) String() string {
	return fmt.Sprintf("%q", p.Args())
}
