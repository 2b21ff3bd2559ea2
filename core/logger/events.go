package logger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LogType is implemented by every event that can appear in a LogEntry.
type LogType interface {
	isLogType()
}

// LogEntry is one record of the JSON-lines event log.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	LogType         LogType
}

// Summary renders the entry's event as a single human readable line.
func (le *LogEntry) Summary() string {
	switch event := le.GetLogType().(type) {
	case *SessionStart:
		return fmt.Sprintf("session start user=%s", event.User)
	case *Dispatch:
		if event.Target != "" {
			return fmt.Sprintf("%s %s > %s pids=%v", event.Mode, strings.Join(event.Argv, " "), event.Target, event.Pids)
		}
		return fmt.Sprintf("%s %s pids=%v", event.Mode, strings.Join(event.Argv, " "), event.Pids)
	case *DispatchError:
		return fmt.Sprintf("%s %s failed: %s", event.Mode, strings.Join(event.Argv, " "), event.Error)
	case *ChildExit:
		if event.Background {
			return fmt.Sprintf("background pid %d exited with status %d", event.Pid, event.ExitStatus)
		}
		return fmt.Sprintf("pid %d exited with status %d", event.Pid, event.ExitStatus)
	default:
		return "unknown event"
	}
}

func (le *LogEntry) GetLogType() LogType {
	if le == nil {
		return nil
	}
	return le.LogType
}

// logEntryJSON is the wire form of LogEntry; exactly one of the event
// fields is set.
type logEntryJSON struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart  *SessionStart  `json:"session_start,omitempty"`
	Dispatch      *Dispatch      `json:"dispatch,omitempty"`
	DispatchError *DispatchError `json:"dispatch_error,omitempty"`
	ChildExit     *ChildExit     `json:"child_exit,omitempty"`
}

func (le *LogEntry) MarshalJSON() ([]byte, error) {
	out := logEntryJSON{
		TimestampMicros: le.TimestampMicros,
		SessionID:       le.SessionID,
	}

	switch event := le.LogType.(type) {
	case nil:
	case *SessionStart:
		out.SessionStart = event
	case *Dispatch:
		out.Dispatch = event
	case *DispatchError:
		out.DispatchError = event
	case *ChildExit:
		out.ChildExit = event
	default:
		return nil, fmt.Errorf("unknown event type: %T", event)
	}

	return json.Marshal(out)
}

func (le *LogEntry) UnmarshalJSON(data []byte) error {
	var in logEntryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	le.TimestampMicros = in.TimestampMicros
	le.SessionID = in.SessionID

	switch {
	case in.SessionStart != nil:
		le.LogType = in.SessionStart
	case in.Dispatch != nil:
		le.LogType = in.Dispatch
	case in.DispatchError != nil:
		le.LogType = in.DispatchError
	case in.ChildExit != nil:
		le.LogType = in.ChildExit
	default:
		le.LogType = nil
	}

	return nil
}

// SessionStart marks the beginning of an interactive session.
type SessionStart struct {
	User        string `json:"user,omitempty"`
	Interactive bool   `json:"interactive,omitempty"`
}

// Dispatch records one executed command line.
type Dispatch struct {
	// Mode is the resolved execution mode: foreground, background, piped
	// or redirected.
	Mode string   `json:"mode"`
	Argv []string `json:"argv"`
	// Target is the output file for redirected dispatches.
	Target string `json:"target,omitempty"`
	// Pids lists the processes started for this dispatch.
	Pids []int `json:"pids,omitempty"`
}

// DispatchError records a command line that could not be executed.
type DispatchError struct {
	Mode  string   `json:"mode"`
	Argv  []string `json:"argv"`
	Error string   `json:"error"`
}

// ChildExit records a reaped child process.
type ChildExit struct {
	Pid        int  `json:"pid"`
	ExitStatus int  `json:"exit_status"`
	Background bool `json:"background,omitempty"`
}

func (*SessionStart) isLogType()  {}
func (*Dispatch) isLogType()      {}
func (*DispatchError) isLogType() {}
func (*ChildExit) isLogType()     {}
