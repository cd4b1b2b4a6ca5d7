package spawn

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const helperEnv = "SPAWN_TEST_HELPER"

func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		os.Unsetenv(helperEnv)
		os.Exit(Main(os.Args, os.Stderr))
	}
	os.Exit(m.Run())
}

type helperResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// runHelper starts the test binary as the spawn helper.
func runHelper(t *testing.T, stdin string, plan *Plan) helperResult {
	t.Helper()

	self, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := exec.Command(self, plan.Args()...)
	cmd.Env = append(os.Environ(), helperEnv+"=1")
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		t.Fatal(err)
	}

	return helperResult{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		exitCode: cmd.ProcessState.ExitCode(),
	}
}

func TestParsePlan(t *testing.T) {
	plan := &Plan{
		Stdin:      "-in file",
		Stdout:     "out.txt",
		NullStdout: true,
		Argv:       []string{"ls", "--stdin=x", "-la"},
	}

	parsed, err := ParsePlan(append([]string{"spawn"}, plan.Args()...))
	assert.Nil(t, err)
	assert.Equal(t, plan, parsed)

	_, err = ParsePlan([]string{"spawn", "--"})
	assert.NotNil(t, err, "no program")

	_, err = ParsePlan([]string{"spawn", "--bogus", "--", "ls"})
	assert.NotNil(t, err, "unknown flag")
}

func TestMain_exec(t *testing.T) {
	res := runHelper(t, "", &Plan{Argv: []string{"echo", "hello", "world"}})

	assert.Equal(t, 0, res.exitCode)
	assert.Equal(t, "hello world\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestMain_noSuchCommand(t *testing.T) {
	res := runHelper(t, "", &Plan{Argv: []string{"smallsh-does-not-exist"}})

	assert.Equal(t, ExitFailure, res.exitCode)
	assert.Equal(t, "smallsh-does-not-exist: no such command\n", res.stderr)
}

func TestMain_redirects(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	assert.Nil(t, os.WriteFile(in, []byte("from file\n"), 0600))
	// Existing content is truncated.
	assert.Nil(t, os.WriteFile(out, []byte("stale content that is longer\n"), 0600))

	res := runHelper(t, "from stdin\n", &Plan{Stdin: in, Stdout: out, Argv: []string{"cat"}})
	assert.Equal(t, 0, res.exitCode)
	assert.Empty(t, res.stdout)

	written, err := os.ReadFile(out)
	assert.Nil(t, err)
	assert.Equal(t, "from file\n", string(written))

	info, err := os.Stat(out)
	assert.Nil(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing permissions are kept")
}

func TestMain_createsOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "new.txt")

	res := runHelper(t, "", &Plan{Stdout: out, Argv: []string{"echo", "hi"}})
	assert.Equal(t, 0, res.exitCode)

	info, err := os.Stat(out)
	if assert.Nil(t, err) {
		// 0644 minus whatever the umask removes.
		assert.Zero(t, info.Mode().Perm()&^0644)
	}
}

func TestMain_openFailures(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]*Plan{
		"missing-input":  {Stdin: filepath.Join(dir, "missing.txt"), Argv: []string{"cat"}},
		"output-is-dir":  {Stdout: dir, Argv: []string{"echo"}},
		"output-no-dir":  {Stdout: filepath.Join(dir, "nope", "out.txt"), Argv: []string{"echo"}},
		"missing-before": {Stdin: filepath.Join(dir, "missing.txt"), Argv: []string{"smallsh-does-not-exist"}},
	}

	for tn, plan := range cases {
		t.Run(tn, func(t *testing.T) {
			res := runHelper(t, "", plan)

			assert.Equal(t, ExitFailure, res.exitCode)
			assert.Contains(t, res.stderr, "cannot open")
		})
	}
}

func TestMain_nullDevice(t *testing.T) {
	// cat would echo stdin back if the null device weren't used.
	res := runHelper(t, "should not be read\n", &Plan{NullStdin: true, Argv: []string{"cat"}})
	assert.Equal(t, 0, res.exitCode)
	assert.Empty(t, res.stdout)

	res = runHelper(t, "", &Plan{NullStdout: true, Argv: []string{"echo", "discarded"}})
	assert.Equal(t, 0, res.exitCode)
	assert.Empty(t, res.stdout)
}

func TestMain_explicitBeatsNull(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.txt")

	res := runHelper(t, "", &Plan{Stdout: out, NullStdout: true, Argv: []string{"echo", "kept"}})
	assert.Equal(t, 0, res.exitCode)

	written, err := os.ReadFile(out)
	assert.Nil(t, err)
	assert.Equal(t, "kept\n", string(written))
}

func TestError(t *testing.T) {
	inner := errors.New("boom")
	err := error(&Error{Code: ExitRedirect, Err: inner})

	assert.True(t, errors.Is(err, inner))
	assert.Equal(t, "boom", err.Error())

	buf := &bytes.Buffer{}
	assert.Equal(t, ExitRedirect, report(buf, err))
	assert.Equal(t, ExitFailure, report(buf, inner))
	assert.Equal(t, "boom\nboom\n", buf.String())
}
