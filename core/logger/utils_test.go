package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJsonLinesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	session := NewJsonLinesLogRecorder(buf).NewSession()

	assert.Nil(t, session.Record(&SessionStart{Pid: 42, WorkDir: "/tmp"}))
	assert.Nil(t, session.Record(&RunCommand{Command: []string{"sleep", "5"}, Background: true}))
	assert.Nil(t, session.Record(JobReaped(ProcessExit{Pid: 43, Signaled: true, Code: 9})))

	var entries []*LogEntry
	assert.Nil(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))

	if assert.Len(t, entries, 3) {
		for _, le := range entries {
			assert.Equal(t, session.SessionID(), le.SessionID)
			assert.NotZero(t, le.TimestampMicros)
		}
		assert.Equal(t, 42, entries[0].SessionStart.Pid)
		assert.Equal(t, []string{"sleep", "5"}, entries[1].RunCommand.Command)
		assert.Equal(t, &ProcessExit{Pid: 43, Signaled: true, Code: 9}, entries[2].JobReaped)
		assert.Nil(t, entries[2].ForegroundExit)
	}
}

func TestDiscard(t *testing.T) {
	assert.Nil(t, Discard().Sessionless().Record(&SessionEnd{}))
}

func TestReport(t *testing.T) {
	var report Report
	for _, event := range []LogType{
		&SessionStart{Pid: 1},
		&RunCommand{Command: []string{"cd"}, Builtin: true},
		&RunCommand{Command: []string{"ls"}, OutputPath: "out"},
		&Launch{Command: []string{"ls"}, Pid: 2},
		&Launch{Command: []string{"sleep"}, Pid: 3, Background: true},
		&Launch{Command: []string{"sleep"}, Pid: 4, ForegroundOnly: true},
		ForegroundExit(ProcessExit{Pid: 2, Code: 0}),
		ForegroundExit(ProcessExit{Pid: 4, Code: 0}),
		JobReaped(ProcessExit{Pid: 3, Signaled: true, Code: 15}),
		&SessionEnd{},
	} {
		le := &LogEntry{}
		event.attach(le)
		report.Update(le)
	}
	report.Update(&LogEntry{})

	assert.Equal(t, 11, report.LogEntries)
	assert.Equal(t, 1, report.Sessions)
	assert.Equal(t, 1, report.InvalidEntries.Count("empty"))
	assert.Equal(t, 1, report.RunCommand.Builtins.Count("cd"))
	assert.Equal(t, 1, report.RunCommand.Redirected)
	assert.Equal(t, LaunchReport{Foreground: 2, Background: 1, Demoted: 1}, report.Launch)
	assert.Equal(t, 2, report.Exit.Statuses.Count("foreground", "exit", "0"))
	assert.Equal(t, 1, report.Exit.Statuses.Count("background", "signal", "15"))

	_, err := json.Marshal(report)
	assert.Nil(t, err)
}
