package engine

import (
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// InterruptPolicy decides which SIGINT disposition a child starts with
// relative to the controlling terminal.
type InterruptPolicy string

const (
	// InterruptInherit detaches the child from terminal-generated
	// SIGINT, the same outcome as inheriting the shell's ignored SIGINT.
	InterruptInherit InterruptPolicy = "inherit"

	// InterruptDefault leaves the child where terminal-generated SIGINT
	// reaches it.
	InterruptDefault InterruptPolicy = "default"
)

// Setup installs the shell's own signal dispositions: SIGINT is ignored
// so an interactive Ctrl-C only reaches the foreground job. Children
// are reaped with explicit waits, so SIGCHLD keeps its default
// disposition. Must be called once before the first dispatch.
func Setup() {
	signal.Ignore(syscall.SIGINT)
}

// Teardown restores the default dispositions. It always succeeds.
func Teardown() {
	signal.Reset(syscall.SIGINT)
}

// giveTerminal makes the child's process group the terminal's
// foreground group so it receives Ctrl-C instead of the shell. The
// returned func hands the terminal back; it must run before the next
// prompt is read.
func (e *Engine) giveTerminal(pid int) func() {
	if e.tty == nil {
		return func() {}
	}

	pgid, err := unix.Getpgid(pid)
	if err != nil {
		// The child is already gone; there is nothing to hand over.
		return func() {}
	}

	// TIOCSPGRP takes a pointer to the pgid, not the pgid itself.
	fd := int(e.tty.Fd())
	_ = unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, pgid)
	return func() {
		_ = unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, unix.Getpgrp())
	}
}
