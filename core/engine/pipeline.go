package engine

import (
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
	"josephlewis.net/osh/core/logger"
)

// runPipeline connects req.Argv's standard output to req.PipeTo's
// standard input through an anonymous pipe and waits for both
// commands. Both children are started before either is waited on, and
// the shell's copies of the pipe descriptors are closed before any
// wait so the consumer observes end-of-stream when the producer exits.
func (e *Engine) runPipeline(req Request) bool {
	read, write, err := os.Pipe()
	if err != nil {
		e.reportf("pipe: %v", err)
		return false
	}

	producer := exec.Command(req.Argv[0], req.Argv[1:]...)
	producer.Stdin = e.io.Stdin
	producer.Stdout = write
	producer.Stderr = e.io.Stderr

	consumer := exec.Command(req.PipeTo[0], req.PipeTo[1:]...)
	consumer.Stdin = read
	consumer.Stdout = e.io.Stdout
	consumer.Stderr = e.io.Stderr

	if e.tty != nil {
		// Each half gets its own process group; the terminal follows
		// the producer's. Joining one group would race a fast-exiting
		// producer.
		producer.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
		consumer.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	}

	ok := true
	var started []*exec.Cmd

	if err := producer.Start(); err != nil {
		if !e.startFailure(req.Mode, req.Argv, err) {
			write.Close()
			read.Close()
			return false
		}
		// The producer alone could not run; once the write end is
		// closed below the consumer reads an immediate end-of-stream.
	} else {
		started = append(started, producer)
	}

	if err := consumer.Start(); err != nil {
		if !e.startFailure(req.Mode, req.PipeTo, err) {
			ok = false
		}
		// Without a reader the producer gets EPIPE, the same outcome as
		// a consumer that died right after starting.
	} else {
		started = append(started, consumer)
	}

	// The shell must hold neither pipe end once the children own their
	// copies, otherwise a reader waits forever for end-of-stream.
	write.Close()
	read.Close()

	var pids []int
	for _, c := range started {
		pids = append(pids, c.Process.Pid)
	}
	_ = e.events.Record(&logger.Dispatch{Mode: req.Mode.String(), Argv: req.Argv, Pids: pids})

	restore := func() {}
	if len(started) > 0 {
		restore = e.giveTerminal(started[0].Process.Pid)
	}
	for _, c := range started {
		if !e.tolerantWait(c) {
			ok = false
		}
		_ = e.events.Record(&logger.ChildExit{Pid: c.Process.Pid, ExitStatus: exitStatus(c)})
	}
	restore()

	return ok
}
