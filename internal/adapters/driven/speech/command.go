package speech

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/logger"
)

// Ensure Command implements the interface.
var _ driven.Recogniser = (*Command)(nil)

// LanguageEnv is the environment variable carrying the language tag to the
// recogniser process.
const LanguageEnv = "QUILL_LANG"

// Command is a recogniser backed by an external process.
//
// The process is started for each session and must print one JSON event
// per line on stdout:
//
//	{"type":"result","results":[{"transcript":"hello ","isFinal":true}],"resultIndex":0}
//	{"type":"error","error":"no-speech"}
//
// start and end lines are ignored; the engine reports those itself when the
// process starts and exits. Stopping a session kills the process.
type Command struct {
	*engine
	argv     []string
	language string
}

// NewCommand creates a command engine running argv.
func NewCommand(argv []string, language string) (*Command, error) {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return nil, fmt.Errorf("%w: recogniser command is empty", domain.ErrInvalidInput)
	}
	c := &Command{argv: append([]string(nil), argv...), language: language}
	c.engine = newEngine("command "+argv[0], c.listen)
	return c, nil
}

func (c *Command) listen(ctx context.Context, emit emitFunc) error {
	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Env = append(os.Environ(), LanguageEnv+"="+c.language)
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("recogniser stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting recogniser: %w", err)
	}

	reported := false
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ev, ok := decodeLine(scanner.Bytes())
		if !ok {
			continue
		}
		if ev.Type == domain.RecognitionError {
			reported = true
		}
		if !emit(ev) {
			break
		}
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil || reported {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return fmt.Errorf("recogniser exited with status %d", exitErr.ExitCode())
	}
	return waitErr
}

// decodeLine parses one stdout line. Blank, malformed and lifecycle lines
// are skipped.
func decodeLine(line []byte) (domain.RecognitionEvent, bool) {
	line = []byte(strings.TrimSpace(string(line)))
	if len(line) == 0 {
		return domain.RecognitionEvent{}, false
	}
	var ev domain.RecognitionEvent
	if err := json.Unmarshal(line, &ev); err != nil {
		logger.Debug("recogniser: skipping malformed line %q: %v", line, err)
		return domain.RecognitionEvent{}, false
	}
	switch ev.Type {
	case domain.RecognitionResult:
		return ev, true
	case domain.RecognitionError:
		if ev.Reason == "" {
			ev.Reason = "unknown"
		}
		return ev, true
	default:
		return domain.RecognitionEvent{}, false
	}
}
