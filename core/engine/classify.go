package engine

import (
	"errors"
	"fmt"
)

// Markers recognized in a tokenized command line.
const (
	backgroundMarker = "&"
	pipeMarker       = "|"
	redirectMarker   = ">"
)

// ExecutionMode tags how a submitted command line is executed.
type ExecutionMode int

const (
	ModeForeground ExecutionMode = iota
	ModeBackground
	ModePiped
	ModeRedirected
)

func (m ExecutionMode) String() string {
	switch m {
	case ModeForeground:
		return "foreground"
	case ModeBackground:
		return "background"
	case ModePiped:
		return "piped"
	case ModeRedirected:
		return "redirected"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Request is the classified form of one command line. Its segments are
// views into the caller's token slice; the tokens themselves are never
// modified and no marker appears in any segment.
type Request struct {
	Mode ExecutionMode

	// Argv is the first (or only) command.
	Argv []string

	// PipeTo is the command consuming Argv's output for ModePiped.
	PipeTo []string

	// Target is the standard output destination for ModeRedirected.
	Target string
}

func (r Request) String() string {
	switch r.Mode {
	case ModePiped:
		return fmt.Sprintf("%s %q | %q", r.Mode, r.Argv, r.PipeTo)
	case ModeRedirected:
		return fmt.Sprintf("%s %q > %s", r.Mode, r.Argv, r.Target)
	default:
		return fmt.Sprintf("%s %q", r.Mode, r.Argv)
	}
}

// Classify resolves the execution mode of a tokenized command line:
// a trailing "&" marks a background command, otherwise the first "|"
// or ">" wins and splits the line. A pipe or redirect found after
// stripping "&" takes over the mode; the marker is dropped either way.
func Classify(tokens []string) (Request, error) {
	if len(tokens) == 0 {
		return Request{}, errors.New("empty command")
	}

	req := Request{Mode: ModeForeground}

	if tokens[len(tokens)-1] == backgroundMarker {
		req.Mode = ModeBackground
		tokens = tokens[:len(tokens)-1]
		if len(tokens) == 0 {
			return Request{}, syntaxError(backgroundMarker)
		}
	}

	for i, tok := range tokens {
		switch tok {
		case pipeMarker:
			if i == 0 || i == len(tokens)-1 {
				return Request{}, syntaxError(tok)
			}
			req.Mode = ModePiped
			req.Argv = tokens[:i:i]
			req.PipeTo = tokens[i+1:]
			return req, nil

		case redirectMarker:
			if i == 0 || i == len(tokens)-1 {
				return Request{}, syntaxError(tok)
			}
			req.Mode = ModeRedirected
			req.Argv = tokens[:i:i]
			// Tokens past the filename are dropped, like the marker.
			req.Target = tokens[i+1]
			return req, nil
		}
	}

	req.Argv = tokens
	return req, nil
}

func syntaxError(token string) error {
	return fmt.Errorf("syntax error near unexpected token %q", token)
}
