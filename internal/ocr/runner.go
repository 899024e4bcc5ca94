package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// Runner executes the external OCR tools; tests swap in a fake.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}

// stderrTailBytes bounds how much tool output ends up in errors and logs.
const stderrTailBytes = 2 << 10

// CommandError is returned by the exec runner when a tool exits unsuccessfully.
// Stderr keeps the last part of the tool's diagnostics, which is where
// tesseract and poppler report missing language data or unreadable input.
type CommandError struct {
	Name   string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Name, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	var out, errb bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errb
	runErr := cmd.Run()

	attrs := []any{"cmd", name, "args", strings.Join(args, " "), "duration_ms", time.Since(start).Milliseconds()}
	if runErr != nil {
		// a cancelled context reads better than "signal: killed"
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = fmt.Errorf("%w (%v)", ctxErr, runErr)
		}
		tail := tailString(strings.TrimSpace(errb.String()), stderrTailBytes)
		logger.Error("ocr tool failed", append(attrs, "error", runErr, "stderr", tail)...)
		return out.Bytes(), errb.Bytes(), &CommandError{Name: name, Stderr: tail, Err: runErr}
	}
	logger.Debug("ocr tool ok", append(attrs, "stdout_bytes", out.Len(), "stderr_bytes", errb.Len())...)
	return out.Bytes(), errb.Bytes(), nil
}

// tailString keeps the last max bytes of s without splitting a rune.
func tailString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	i := len(s) - max
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return "..." + s[i:]
}
