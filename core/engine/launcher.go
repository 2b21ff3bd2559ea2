package engine

import (
	"errors"
	"io/fs"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
	"josephlewis.net/osh/core/logger"
)

// startTerminatesChildOnly reports whether a Start failure is the
// equivalent of exec failing after a successful fork: the command
// itself cannot run, but the shell is healthy and keeps reading
// commands. Resource exhaustion (EAGAIN, ENOMEM) means process
// creation itself failed and fails the dispatch.
func startTerminatesChildOnly(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, syscall.ENOEXEC)
}

// startFailure reports a Start error and returns the dispatch's
// continue signal.
func (e *Engine) startFailure(mode ExecutionMode, argv []string, err error) bool {
	e.reportf("%s: %v", argv[0], err)
	_ = e.events.Record(&logger.DispatchError{Mode: mode.String(), Argv: argv, Error: err.Error()})
	return startTerminatesChildOnly(err)
}

// runForeground executes req.Argv and blocks until the child exits.
func (e *Engine) runForeground(req Request) bool {
	cmd := e.command(req.Argv)
	if e.tty != nil {
		// Own process group, so a terminal SIGINT hits the job and not
		// the shell.
		cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	}

	if err := cmd.Start(); err != nil {
		return e.startFailure(req.Mode, req.Argv, err)
	}
	_ = e.events.Record(&logger.Dispatch{Mode: req.Mode.String(), Argv: req.Argv, Pids: []int{cmd.Process.Pid}})

	restore := e.giveTerminal(cmd.Process.Pid)
	ok := e.tolerantWait(cmd)
	restore()

	_ = e.events.Record(&logger.ChildExit{Pid: cmd.Process.Pid, ExitStatus: exitStatus(cmd)})
	return ok
}

// runBackground starts req.Argv without waiting for it. The trailing
// marker was removed during classification and never reaches the
// child's argument list.
func (e *Engine) runBackground(req Request) bool {
	cmd := exec.Command(req.Argv[0], req.Argv[1:]...)
	// Stdin stays nil: a background job reads /dev/null rather than
	// competing with the shell for the terminal.
	cmd.Stdout = e.io.Stdout
	cmd.Stderr = e.io.Stderr

	if e.backgroundInterrupt == InterruptInherit {
		cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	}

	if err := cmd.Start(); err != nil {
		return e.startFailure(req.Mode, req.Argv, err)
	}

	pid := cmd.Process.Pid
	_ = e.events.Record(&logger.Dispatch{Mode: req.Mode.String(), Argv: req.Argv, Pids: []int{pid}})

	// No synchronous wait; the goroutine reaps the child whenever it
	// exits.
	go func() {
		_ = cmd.Wait()
		_ = e.events.Record(&logger.ChildExit{Pid: pid, ExitStatus: exitStatus(cmd), Background: true})
	}()

	return true
}
