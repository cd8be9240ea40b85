// Package primitive traces images by running the primitive command line tool.
package primitive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"go.trai.ch/sqip/internal/adapters/svg"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports"
	"go.trai.ch/zerr"
)

// stderrTail bounds how much of the tool's stderr is attached to an error.
const stderrTail = 2048

var _ ports.Tracer = (*Tracer)(nil)

// Tracer implements ports.Tracer by invoking the primitive binary
// (github.com/fogleman/primitive) and post-processing its SVG output.
type Tracer struct {
	binary    string
	timeout   time.Duration
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewTracer creates a Tracer that runs binary. A zero timeout disables the deadline.
func NewTracer(binary string, timeout time.Duration, logger ports.Logger, telemetry ports.Telemetry) *Tracer {
	if binary == "" {
		binary = domain.DefaultTracerBinary
	}
	return &Tracer{
		binary:    binary,
		timeout:   timeout,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Trace runs primitive on imagePath and returns the blurred SVG markup.
func (t *Tracer) Trace(ctx context.Context, imagePath string, opts domain.Options) (markup string, err error) {
	ctx, span := t.telemetry.Start(ctx, "sqip.trace",
		ports.WithAttribute("sqip.image", imagePath),
		ports.WithAttribute("sqip.primitives", opts.NumberOfPrimitives),
		ports.WithAttribute("sqip.mode", opts.Mode.String()),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	executable, err := exec.LookPath(t.binary)
	if err != nil {
		return "", zerr.With(domain.WithCause(domain.ErrTracerNotFound, err), "binary", t.binary)
	}

	tmpDir, err := os.MkdirTemp("", "sqip-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create temporary directory")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck // Best effort cleanup

	output := filepath.Join(tmpDir, "primitive"+domain.ArtifactExt)

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	if err := t.run(ctx, executable, Args(imagePath, output, opts)); err != nil {
		return "", zerr.With(err, "image", imagePath)
	}

	//nolint:gosec // Path lives inside our temporary directory
	data, err := os.ReadFile(output)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "primitive produced no output"), "image", imagePath)
	}

	markup = svg.ApplyBlur(svg.EnsureViewBox(string(data)), opts.Blur)
	span.SetAttribute("sqip.svg_bytes", len(markup))
	return markup, nil
}

// Args returns the primitive command line for one invocation.
func Args(input, output string, opts domain.Options) []string {
	return []string{
		"-i", input,
		"-o", output,
		"-n", strconv.Itoa(opts.NumberOfPrimitives),
		"-m", strconv.Itoa(int(opts.Mode)),
	}
}

func (t *Tracer) run(ctx context.Context, executable string, args []string) error {
	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // Binary comes from configuration

	stdoutLog := &logWriter{logger: t.logger}
	stderrLog := &logWriter{logger: t.logger}
	var stderr bytes.Buffer
	cmd.Stdout = stdoutLog
	cmd.Stderr = &tailWriter{w: stderrLog, buf: &stderr}

	err := cmd.Run()
	_ = stdoutLog.Close()
	_ = stderrLog.Close()

	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return zerr.Wrap(errors.Join(ctxErr, err), "primitive interrupted")
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	wrapped := zerr.With(zerr.Wrap(err, "primitive failed"), "exit_code", exitCode)
	if stderr.Len() > 0 {
		wrapped = zerr.With(wrapped, "stderr", string(bytes.TrimSpace(stderr.Bytes())))
	}
	return wrapped
}

// tailWriter forwards to w and keeps the last stderrTail bytes in buf.
type tailWriter struct {
	w   *logWriter
	buf *bytes.Buffer
}

func (t *tailWriter) Write(p []byte) (int, error) {
	_, _ = t.w.Write(p)
	t.buf.Write(p)
	if extra := t.buf.Len() - stderrTail; extra > 0 {
		t.buf.Next(extra)
	}
	return len(p), nil
}
