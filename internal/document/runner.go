package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// stderrLogLimit bounds how much subprocess stderr lands in a log record.
const stderrLogLimit = 4 << 10

// Runner executes an external command and hands back its captured output.
// Extractor uses it for pdftotext; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type commandRunner struct {
	logger *slog.Logger
}

func (r commandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	began := time.Now()
	err := cmd.Run()
	attrs := []any{
		slog.String("command", name),
		slog.Any("args", args),
		slog.Int64("elapsed_ms", time.Since(began).Milliseconds()),
		slog.Int("stdout_bytes", stdout.Len()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("%s exited with status %d: %w", name, exitErr.ExitCode(), err)
		}
		attrs = append(attrs, slog.Any("error", err), slog.String("stderr_tail", tail(stderr.String(), stderrLogLimit)))
		r.logger.Warn("document.command.failed", attrs...)
		return stdout.Bytes(), stderr.Bytes(), err
	}

	r.logger.Debug("document.command.done", attrs...)
	return stdout.Bytes(), stderr.Bytes(), nil
}

// tail keeps the last n bytes of s; tools like pdftotext print the cause last.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
