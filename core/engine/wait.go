package engine

import (
	"errors"
	"os/exec"
	"syscall"
)

// tolerantWait reaps one child, treating two failure classes as benign:
// the child exiting with its own non-zero status, and the wait being
// cut short because the child is already gone (ECHILD) or the call was
// interrupted (EINTR). Anything else is reported and fails the
// dispatch.
func (e *Engine) tolerantWait(cmd *exec.Cmd) bool {
	err := cmd.Wait()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true
	case errors.As(err, &exitErr):
		// The child's exit status is its own business.
		return true
	case errors.Is(err, syscall.ECHILD), errors.Is(err, syscall.EINTR):
		return true
	default:
		e.reportf("wait: %v", err)
		return false
	}
}

// exitStatus extracts the child's exit code, or -1 when the child was
// reaped elsewhere and no status is available.
func exitStatus(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}
