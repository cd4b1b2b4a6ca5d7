package core

import (
	"fmt"
	"os"
	"sort"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinNames lists the registered builtins in sorted order.
func BuiltinNames() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Cd is the cd shell builtin. Extra arguments are ignored.
func Cd(s *Shell, args []string) int {
	dir := os.Getenv(EnvHome)
	if len(args) > 1 {
		dir = args[1]
	}

	if err := os.Chdir(dir); err != nil {
		s.errorf("%s: %v", args[0], err)
		return 1
	}
	return 0
}

// Exit kills every background job and quits the shell. Jobs are not waited
// for.
func Exit(s *Shell, args []string) int {
	s.killedJobs = s.Launcher.KillAll()
	s.Quit = true
	return 0
}

// Status prints how the last foreground command terminated.
func Status(s *Shell, args []string) int {
	fmt.Fprintln(s.Out, s.lastStatus)
	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["status"] = ShellBuiltinFunc(Status)
}
