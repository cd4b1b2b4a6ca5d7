package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/josephlewis42/smallsh/core/logger"
	"github.com/stretchr/testify/assert"
)

// recordTo swaps the shell's event log for session.
func recordTo(ts *testShell, session *logger.SessionLogger) {
	ts.events = newEventLog(session, func(err error) {
		ts.errorf("event log: %v", err)
	})
	ts.Launcher.events = ts.events
}

func TestShell_events(t *testing.T) {
	var buf bytes.Buffer
	ts := newTestShell(t, testConfig())
	session := logger.NewJsonLinesLogRecorder(&buf).NewSession()
	recordTo(ts, session)

	assert.NoError(t, ts.run("true\nstatus\nsleep 0.1 &\nsleep 1\nexit\n"))

	var report logger.Report
	var sessions []string
	assert.NoError(t, logger.ReadJSONLinesLog(&buf, func(le *logger.LogEntry) {
		sessions = append(sessions, le.SessionID)
		report.Update(le)
	}))

	assert.Equal(t, 1, report.Sessions)
	assert.Equal(t, 1, report.RunCommand.CommandNames.Count("true"))
	assert.Equal(t, 1, report.RunCommand.Builtins.Count("status"))
	assert.Equal(t, 1, report.RunCommand.Builtins.Count("exit"))
	assert.Equal(t, logger.LaunchReport{Foreground: 2, Background: 1}, report.Launch)
	assert.Equal(t, 2, report.Exit.Statuses.Count("foreground", "exit", "0"))
	assert.Equal(t, 1, report.Exit.Statuses.Count("background", "exit", "0"))
	for _, id := range sessions {
		assert.Equal(t, session.SessionID(), id)
	}
	assert.Empty(t, ts.Stderr(t))
}

func TestShell_eventLogFailureReportedOnce(t *testing.T) {
	ts := newTestShell(t, testConfig())
	broken := &logger.Logger{Record: func(*logger.LogEntry) error {
		return errors.New("disk full")
	}}
	recordTo(ts, broken.NewSession())

	assert.NoError(t, ts.run("status\ntrue\nstatus\nexit\n"))

	assert.Equal(t, 1, strings.Count(ts.Stderr(t), "event log: disk full"))
	assert.Equal(t, ": exit status was 0\n: : exit status was 0\n: ", ts.Stdout(t))
}
