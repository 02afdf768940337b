// Package speech synthesizes WAV audio by driving the piper binary over
// pipes. Each request spawns a fresh process; nothing is shared or cached.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxTextLen is the input ceiling in Unicode codepoints.
	maxTextLen = 500

	// synthesisTimeout is the wall-clock budget for one synthesis.
	synthesisTimeout = 30 * time.Second
)

var (
	// ErrInvalidText is returned for empty or over-long input.
	ErrInvalidText = errors.New("invalid text")

	// ErrUnavailable is returned when the binary is missing or the
	// synthesis exceeds its budget.
	ErrUnavailable = errors.New("synthesizer unavailable")
)

// Config locates the synthesizer and its voice model.
type Config struct {
	BinaryPath string
	ModelPath  string
	ConfigPath string
}

// Gateway spawns piper subprocesses.
type Gateway struct {
	cfg Config
}

// NewGateway creates a speech Gateway.
func NewGateway(cfg Config) *Gateway {
	return &Gateway{cfg: cfg}
}

// Available reports whether the synthesizer binary exists on disk. Used by
// the health endpoint.
func (g *Gateway) Available() bool {
	info, err := os.Stat(g.cfg.BinaryPath)
	return err == nil && !info.IsDir()
}

// Synthesize validates the text and runs one piper process under the
// 30-second budget, returning the complete WAV byte stream from its
// stdout. Stderr is drained into the log and never reaches the caller.
func (g *Gateway) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidText)
	}
	if utf8.RuneCountInString(text) > maxTextLen {
		return nil, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidText, maxTextLen)
	}

	ctx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, g.cfg.BinaryPath,
		"--model", g.cfg.ModelPath,
		"--config", g.cfg.ConfigPath,
		"--output_file", "-")
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// After the process is killed, stop waiting on its output pipes once
	// this grace period passes, so a lingering child cannot hold Run open.
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if len(stderr.Bytes()) > 0 {
		slog.Debug("piper stderr", "output", stderr.String())
	}
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: synthesis timed out after %s", ErrUnavailable, synthesisTimeout)
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: piper binary not found at %s", ErrUnavailable, g.cfg.BinaryPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	wav := stdout.Bytes()
	if len(wav) == 0 {
		return nil, fmt.Errorf("%w: synthesizer produced no audio", ErrUnavailable)
	}
	return wav, nil
}
