package logger

import (
	"encoding/json"
	"io"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

func NewReport() *Report {
	return &Report{
		Commands: NewPathCounter("mode", "command"),
		Errors:   NewPathCounter("mode", "command", "error"),
	}
}

// Report summarizes an event log for the operator.
type Report struct {
	LogEntries      int `json:"log_entries"`
	Sessions        int `json:"sessions"`
	BackgroundExits int `json:"background_exits"`

	Commands *PathCounter `json:"commands"`
	Errors   *PathCounter `json:"errors"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SessionStart:
		r.Sessions++
	case *Dispatch:
		r.Commands.Increment(event.Mode, argv0(event.Argv))
	case *DispatchError:
		r.Errors.Increment(event.Mode, argv0(event.Argv), event.Error)
	case *ChildExit:
		if event.Background {
			r.BackgroundExits++
		}
	}
}

func argv0(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return argv[0]
}

// NewPathCounter creates a counter for hierarchical keys, e.g.
// ("mode", "command").
func NewPathCounter(labels ...string) *PathCounter {
	return &PathCounter{labels: labels, counts: make(map[string]int)}
}

// PathCounter counts occurrences of slash separated hierarchical keys.
type PathCounter struct {
	labels []string
	counts map[string]int
}

func (c *PathCounter) Increment(path ...string) {
	c.counts[strings.Join(path, "/")]++
}

func (c *PathCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.counts)
}
