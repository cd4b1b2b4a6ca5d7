package logger

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand    RunCommandReport    `json:"run_command_report"`
	Launch        LaunchReport        `json:"launch_report"`
	Exit          ExitReport          `json:"exit_report"`
	LaunchFailure LaunchFailureReport `json:"launch_failure_report"`
}

// Update adds a single entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch {
	case le.SessionStart != nil:
		r.Sessions++
	case le.RunCommand != nil:
		r.RunCommand.update(le.RunCommand)
	case le.Launch != nil:
		r.Launch.update(le.Launch)
	case le.ForegroundExit != nil:
		r.Exit.update("foreground", le.ForegroundExit)
	case le.JobReaped != nil:
		r.Exit.update("background", le.JobReaped)
	case le.LaunchFailure != nil:
		r.LaunchFailure.update(le.LaunchFailure)
	case le.SessionEnd != nil:
		// Ignore
	default:
		r.InvalidEntries.Increment("empty")
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	Builtins     StrCounter `json:"builtins"`
	Redirected   int        `json:"redirected"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) > 0 {
		r.CommandNames.Increment(rc.Command[0])
		if rc.Builtin {
			r.Builtins.Increment(rc.Command[0])
		}
	}
	if rc.InputPath != "" || rc.OutputPath != "" {
		r.Redirected++
	}
}

type LaunchReport struct {
	Foreground int `json:"foreground"`
	Background int `json:"background"`
	// Background requests that ran in the foreground.
	Demoted int `json:"demoted"`
}

func (r *LaunchReport) update(l *Launch) {
	switch {
	case l.Background:
		r.Background++
	case l.ForegroundOnly:
		r.Demoted++
		r.Foreground++
	default:
		r.Foreground++
	}
}

type ExitReport struct {
	Statuses *PathCounter `json:"statuses"`
}

func (r *ExitReport) update(kind string, p *ProcessExit) {
	if r.Statuses == nil {
		r.Statuses = NewPathCounter("kind", "how", "value")
	}
	how := "exit"
	if p.Signaled {
		how = "signal"
	}
	r.Statuses.Increment(kind, how, strconv.Itoa(p.Code))
}

type LaunchFailureReport struct {
	Errors StrCounter `json:"errors"`
}

func (r *LaunchFailureReport) update(f *LaunchFailure) {
	r.Errors.Increment(f.Error)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Count returns the number of times key was seen.
func (s *StrCounter) Count(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of strings seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Count returns the number of times the given path was seen.
func (ctr *PathCounter) Count(path ...string) int {
	return ctr.internal[toKey(path...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
