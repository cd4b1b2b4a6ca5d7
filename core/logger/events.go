package logger

// LogEntry is a single recorded event. Exactly one of the event fields is
// set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart   *SessionStart  `json:"session_start,omitempty"`
	RunCommand     *RunCommand    `json:"run_command,omitempty"`
	Launch         *Launch        `json:"launch,omitempty"`
	ForegroundExit *ProcessExit   `json:"foreground_exit,omitempty"`
	JobReaped      *ProcessExit   `json:"job_reaped,omitempty"`
	LaunchFailure  *LaunchFailure `json:"launch_failure,omitempty"`
	SessionEnd     *SessionEnd    `json:"session_end,omitempty"`
}

// LogType is implemented by every event that can be attached to a LogEntry.
type LogType interface {
	attach(le *LogEntry)
}

// SessionStart is recorded once when the interpreter starts reading input.
type SessionStart struct {
	Pid     int    `json:"pid"`
	WorkDir string `json:"work_dir"`
}

func (e *SessionStart) attach(le *LogEntry) { le.SessionStart = e }

// RunCommand is recorded for every parsed command, builtin or external.
type RunCommand struct {
	Command    []string `json:"command"`
	InputPath  string   `json:"input_path,omitempty"`
	OutputPath string   `json:"output_path,omitempty"`
	Background bool     `json:"background,omitempty"`
	Builtin    bool     `json:"builtin,omitempty"`
}

func (e *RunCommand) attach(le *LogEntry) { le.RunCommand = e }

// Launch is recorded after a child process was created. Background is false
// for commands that were waited on, including background requests made in
// foreground-only mode.
type Launch struct {
	Command        []string `json:"command"`
	Pid            int      `json:"pid"`
	Background     bool     `json:"background"`
	ForegroundOnly bool     `json:"foreground_only,omitempty"`
}

func (e *Launch) attach(le *LogEntry) { le.Launch = e }

// ProcessExit describes how a child terminated.
type ProcessExit struct {
	Pid      int  `json:"pid"`
	Signaled bool `json:"signaled,omitempty"`
	Code     int  `json:"code"`
}

type foregroundExit ProcessExit
type jobReaped ProcessExit

// ForegroundExit wraps p as a foreground completion event.
func ForegroundExit(p ProcessExit) LogType { return (*foregroundExit)(&p) }

// JobReaped wraps p as a background completion event.
func JobReaped(p ProcessExit) LogType { return (*jobReaped)(&p) }

func (e *foregroundExit) attach(le *LogEntry) { p := ProcessExit(*e); le.ForegroundExit = &p }
func (e *jobReaped) attach(le *LogEntry)      { p := ProcessExit(*e); le.JobReaped = &p }

// LaunchFailure is recorded when a command could not be started.
type LaunchFailure struct {
	Command []string `json:"command"`
	Error   string   `json:"error"`
}

func (e *LaunchFailure) attach(le *LogEntry) { le.LaunchFailure = e }

// SessionEnd is recorded when the interpreter loop stops.
type SessionEnd struct {
	KilledJobs []int  `json:"killed_jobs,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (e *SessionEnd) attach(le *LogEntry) { le.SessionEnd = e }
