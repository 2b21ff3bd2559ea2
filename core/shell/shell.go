// Package shell is the interactive read-eval loop in front of the
// dispatch engine: it reads lines, tokenizes them, handles the builtins
// that must run inside the shell process, and hands everything else to
// the engine.
package shell

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"
	"github.com/fatih/color"
	"josephlewis.net/osh/core/config"
	"josephlewis.net/osh/core/engine"
)

type Shell struct {
	cfg     *config.Config
	streams engine.IOStreams
	engine  *engine.Engine
}

func New(cfg *config.Config, streams engine.IOStreams, events engine.EventRecorder) *Shell {
	return &Shell{
		cfg:     cfg,
		streams: streams,
		engine:  engine.New(streams, engine.InterruptPolicy(cfg.BackgroundInterrupt), events),
	}
}

// Prompt renders the configured prompt. \u, \h, \w and \$ expand to
// the user, hostname, working directory and privilege marker.
func (s *Shell) Prompt() string {
	prompt := s.cfg.Prompt

	user := os.Getenv("USER")
	host, _ := os.Hostname()
	prompt = strings.ReplaceAll(prompt, `\u@\h`, color.New(color.FgGreen).Sprintf("%s@%s", user, host))
	prompt = strings.ReplaceAll(prompt, `\u`, user)
	prompt = strings.ReplaceAll(prompt, `\h`, host)

	wd, _ := os.Getwd()
	if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(wd, home) {
		wd = "~" + strings.TrimPrefix(wd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, wd)

	if os.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and dispatches commands until exit or end of input.
func (s *Shell) Run() error {
	cfg := &readline.Config{
		Stdin:       readline.NewCancelableStdin(s.streams.Stdin),
		Stdout:      s.streams.Stdout,
		Stderr:      s.streams.Stderr,
		HistoryFile: s.cfg.HistoryPath(),
	}

	if err := cfg.Init(); err != nil {
		return err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		rl.SetPrompt(s.Prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // Ctrl-C with no job running, show a fresh prompt.

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue
		}

		if !s.handleLine(line) {
			return nil
		}
	}
}

// handleLine tokenizes and executes one input line. It reports whether
// the shell should keep reading.
func (s *Shell) handleLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}

	tokens, err := shlex.Split(line, true)
	if err != nil {
		fmt.Fprintln(s.streams.Stderr, "osh: syntax error: unexpected end of file")
		return true
	}
	if len(tokens) == 0 {
		return true
	}

	// Builtins run inside the shell process.
	switch tokens[0] {
	case "exit":
		return false
	case "cd":
		s.builtinCd(tokens)
		return true
	}

	return s.engine.Dispatch(tokens)
}

func (s *Shell) builtinCd(args []string) {
	switch len(args) {
	case 1:
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(s.streams.Stderr, "%s: %v\n", args[0], err)
			return
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.streams.Stderr, "%s: %v\n", args[0], err)
		}
	default:
		fmt.Fprintf(s.streams.Stderr, "%s: too many arguments\n", args[0])
	}
}
