package engine

import (
	"os"

	"golang.org/x/sys/unix"
	"josephlewis.net/osh/core/logger"
)

// redirectFlags matches sh's ">" semantics: create or clobber.
const redirectFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC

// runRedirect executes req.Argv with standard output replaced by
// req.Target. The file is created or truncated before the child
// starts; the shell's copy of the descriptor is closed as soon as the
// child owns it.
func (e *Engine) runRedirect(req Request) bool {
	out, err := os.OpenFile(req.Target, redirectFlags, 0777)
	if err != nil {
		// Only the redirected command dies when its target can't be
		// opened; the shell keeps reading commands.
		e.reportf("%s: %v", req.Target, err)
		_ = e.events.Record(&logger.DispatchError{Mode: req.Mode.String(), Argv: req.Argv, Error: err.Error()})
		return true
	}

	cmd := e.command(req.Argv)
	cmd.Stdout = out
	if e.tty != nil {
		cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	}

	if err := cmd.Start(); err != nil {
		out.Close()
		return e.startFailure(req.Mode, req.Argv, err)
	}
	out.Close()

	_ = e.events.Record(&logger.Dispatch{Mode: req.Mode.String(), Argv: req.Argv, Target: req.Target, Pids: []int{cmd.Process.Pid}})

	restore := e.giveTerminal(cmd.Process.Pid)
	ok := e.tolerantWait(cmd)
	restore()

	_ = e.events.Record(&logger.ChildExit{Pid: cmd.Process.Pid, ExitStatus: exitStatus(cmd)})
	return ok
}
