package engine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newTestEngine() (*Engine, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	e := New(IOStreams{Stdin: strings.NewReader(""), Stdout: stdout, Stderr: stderr}, InterruptInherit, nil)
	return e, stdout, stderr
}

func TestDispatchForeground(t *testing.T) {
	e, stdout, _ := newTestEngine()

	assert.True(t, e.Dispatch([]string{"echo", "hello"}))
	assert.Equal(t, "hello\n", stdout.String())
}

func TestDispatchForegroundBlocks(t *testing.T) {
	e, _, _ := newTestEngine()

	start := time.Now()
	assert.True(t, e.Dispatch([]string{"sleep", "0.2"}))
	assert.True(t, time.Since(start) >= 150*time.Millisecond, "dispatch returned before the child exited")
}

func TestDispatchNonZeroExitContinues(t *testing.T) {
	e, _, stderr := newTestEngine()

	assert.True(t, e.Dispatch([]string{"false"}))
	assert.Empty(t, stderr.String())
}

func TestDispatchUnknownCommand(t *testing.T) {
	e, _, stderr := newTestEngine()

	assert.True(t, e.Dispatch([]string{"definitely-not-a-command-7f3a"}))
	assert.Contains(t, stderr.String(), "definitely-not-a-command-7f3a")
}

func TestDispatchBackgroundReturnsImmediately(t *testing.T) {
	e, _, _ := newTestEngine()

	start := time.Now()
	assert.True(t, e.Dispatch([]string{"sleep", "5", "&"}))
	assert.True(t, time.Since(start) < time.Second, "background dispatch blocked on the child")
}

func TestDispatchPipe(t *testing.T) {
	e, stdout, _ := newTestEngine()

	assert.True(t, e.Dispatch([]string{"printf", "hi", "|", "cat"}))
	assert.Equal(t, "hi", stdout.String())
}

func TestDispatchPipeUnknownProducer(t *testing.T) {
	e, stdout, stderr := newTestEngine()

	// The consumer still runs and reads an immediate end-of-stream.
	assert.True(t, e.Dispatch([]string{"no-such-producer-5b1c", "|", "cat"}))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "no-such-producer-5b1c")
}

func TestDispatchPipeUnknownConsumer(t *testing.T) {
	e, _, stderr := newTestEngine()

	assert.True(t, e.Dispatch([]string{"echo", "hi", "|", "no-such-consumer-5b1c"}))
	assert.Contains(t, stderr.String(), "no-such-consumer-5b1c")
}

func TestDispatchRedirect(t *testing.T) {
	e, _, _ := newTestEngine()
	target := filepath.Join(t.TempDir(), "out")

	require.True(t, e.Dispatch([]string{"echo", "ok", ">", target}))
	contents, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(contents))

	// A second redirect truncates rather than appends.
	require.True(t, e.Dispatch([]string{"echo", "x", ">", target}))
	contents, err = os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(contents))
}

func TestDispatchRedirectUnopenableTarget(t *testing.T) {
	e, _, stderr := newTestEngine()

	assert.True(t, e.Dispatch([]string{"echo", "hi", ">", "/no-such-dir-5b1c/out"}))
	assert.Contains(t, stderr.String(), "/no-such-dir-5b1c/out")
}

func TestDispatchSyntaxErrorContinues(t *testing.T) {
	e, _, stderr := newTestEngine()

	assert.True(t, e.Dispatch([]string{"cat", ">"}))
	assert.Contains(t, stderr.String(), "syntax error")
}

func openDescriptors(t *testing.T) int {
	t.Helper()

	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("cannot enumerate descriptors: %v", err)
	}
	return len(entries)
}

func TestPipeLeavesNoDescriptors(t *testing.T) {
	e, _, _ := newTestEngine()

	require.True(t, e.Dispatch([]string{"printf", "x", "|", "cat"}))
	before := openDescriptors(t)

	for i := 0; i < 5; i++ {
		require.True(t, e.Dispatch([]string{"printf", "x", "|", "cat"}))
	}

	assert.Equal(t, before, openDescriptors(t))
}

func TestRedirectLeavesNoDescriptors(t *testing.T) {
	e, _, _ := newTestEngine()
	target := filepath.Join(t.TempDir(), "out")

	require.True(t, e.Dispatch([]string{"echo", "x", ">", target}))
	before := openDescriptors(t)

	for i := 0; i < 5; i++ {
		require.True(t, e.Dispatch([]string{"echo", "x", ">", target}))
	}

	assert.Equal(t, before, openDescriptors(t))
}

func TestBackgroundInterruptPolicy(t *testing.T) {
	if _, err := os.Stat("/proc/self/stat"); err != nil {
		t.Skipf("needs procfs: %v", err)
	}

	shellPgid := unix.Getpgrp()

	tests := []struct {
		name         string
		policy       InterruptPolicy
		wantDetached bool
	}{
		{name: "inherit detaches the job", policy: InterruptInherit, wantDetached: true},
		{name: "default keeps the shell's group", policy: InterruptDefault, wantDetached: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			e := New(IOStreams{Stdin: strings.NewReader(""), Stdout: stdout, Stderr: stdout}, tc.policy, nil)

			reportPath := filepath.Join(t.TempDir(), "pgid")
			script := fmt.Sprintf(`read -r _ _ _ _ pgrp _ < /proc/self/stat && echo "$pgrp" > %s`, reportPath)
			require.True(t, e.Dispatch([]string{"sh", "-c", script, "&"}))

			jobPgid := waitForPgid(t, reportPath)
			if tc.wantDetached {
				assert.NotEqual(t, shellPgid, jobPgid)
			} else {
				assert.Equal(t, shellPgid, jobPgid)
			}
		})
	}
}

func waitForPgid(t *testing.T, path string) int {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		data, err := os.ReadFile(path)
		if err == nil && strings.HasSuffix(string(data), "\n") {
			pgid, err := strconv.Atoi(strings.TrimSpace(string(data)))
			require.NoError(t, err)
			return pgid
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("background job never reported its process group")
	return 0
}
