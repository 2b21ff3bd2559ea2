// Package engine decides how one tokenized command line gets executed —
// in the foreground, in the background, as a two-command pipeline, or
// with standard output redirected to a file — and manages the process,
// pipe and signal lifecycle needed to do it correctly.
package engine

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/mattn/go-isatty"
	"josephlewis.net/osh/core/logger"
)

// EventRecorder is a callback that stores shell events in an external
// datastore.
type EventRecorder interface {
	Record(event logger.LogType) error
}

type nopRecorder struct{}

func (nopRecorder) Record(logger.LogType) error { return nil }

// IOStreams holds the standard streams dispatched commands inherit.
type IOStreams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// StdIOStreams returns the process's own standard streams.
func StdIOStreams() IOStreams {
	return IOStreams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Engine executes one command line at a time. It never retains the
// caller's token slice past a Dispatch call.
type Engine struct {
	io     IOStreams
	events EventRecorder

	backgroundInterrupt InterruptPolicy

	// tty is the controlling terminal when stdin is interactive, nil
	// otherwise. Job control is skipped without one.
	tty *os.File
}

func New(streams IOStreams, backgroundInterrupt InterruptPolicy, events EventRecorder) *Engine {
	e := &Engine{
		io:                  streams,
		events:              events,
		backgroundInterrupt: backgroundInterrupt,
	}
	if e.events == nil {
		e.events = nopRecorder{}
	}
	if e.backgroundInterrupt == "" {
		e.backgroundInterrupt = InterruptInherit
	}
	if f, ok := streams.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		e.tty = f
	}
	return e
}

// Dispatch classifies and executes one tokenized command line. The
// return value tells the caller whether the shell should keep accepting
// commands: it is false only when the shell failed to create a process
// or a wait failed for a reason other than the child already being
// gone. A command's own exit status never fails a dispatch.
func (e *Engine) Dispatch(tokens []string) bool {
	req, err := Classify(tokens)
	if err != nil {
		e.reportf("%v", err)
		return true
	}

	switch req.Mode {
	case ModeBackground:
		return e.runBackground(req)
	case ModePiped:
		return e.runPipeline(req)
	case ModeRedirected:
		return e.runRedirect(req)
	default:
		return e.runForeground(req)
	}
}

// command builds a child that inherits the engine's standard streams.
func (e *Engine) command(argv []string) *exec.Cmd {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = e.io.Stdin
	cmd.Stdout = e.io.Stdout
	cmd.Stderr = e.io.Stderr
	return cmd
}

// reportf prints a diagnostic for the operator.
func (e *Engine) reportf(format string, args ...interface{}) {
	fmt.Fprintf(e.io.Stderr, "osh: "+format+"\n", args...)
}
