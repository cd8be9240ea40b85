package primitive_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/sqip/internal/adapters/primitive"
	"go.trai.ch/sqip/internal/adapters/telemetry"
	"go.trai.ch/sqip/internal/core/domain"
	"go.trai.ch/sqip/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakePrimitive parses the flags primitive understands and writes a tiny SVG.
const fakePrimitive = `#!/bin/sh
out=""; n=""; m=""
while [ $# -gt 0 ]; do
  case "$1" in
    -o) out="$2"; shift 2 ;;
    -n) n="$2"; shift 2 ;;
    -m) m="$2"; shift 2 ;;
    *) shift ;;
  esac
done
echo "tracing $n shapes"
printf '<svg xmlns="http://www.w3.org/2000/svg" width="4" height="2"><g data-n="%s" data-m="%s"><rect/></g></svg>\n' "$n" "$m" > "$out"
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "primitive")
	//nolint:gosec // Test script must be executable
	require.NoError(t, os.WriteFile(path, []byte(body), 0o700))
	return path
}

func TestArgs(t *testing.T) {
	t.Parallel()

	opts := domain.Options{NumberOfPrimitives: 12, Blur: 3, Mode: domain.ModeRotatedEllipse}
	assert.Equal(t,
		[]string{"-i", "in.png", "-o", "out.svg", "-n", "12", "-m", "7"},
		primitive.Args("in.png", "out.svg", opts),
	)
}

func TestTracer_Trace(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, fakePrimitive)

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("primitive: tracing 7 shapes").Times(1)

	tracer := primitive.NewTracer(bin, 0, mockLogger, telemetry.NewNoOpTelemetry())
	opts := domain.Options{NumberOfPrimitives: 7, Blur: 2, Mode: domain.ModeRect}

	got, err := tracer.Trace(context.Background(), "image.png", opts)
	require.NoError(t, err)

	want := `<svg viewBox="0 0 4 2" xmlns="http://www.w3.org/2000/svg" width="4" height="2">` +
		`<filter id="b"><feGaussianBlur stdDeviation="2"/></filter>` +
		`<g filter="url(#b)" data-n="7" data-m="2"><rect/></g></svg>` + "\n"
	assert.Equal(t, want, got)
}

func TestTracer_Trace_NoBlur(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, fakePrimitive)

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	tracer := primitive.NewTracer(bin, time.Minute, mockLogger, telemetry.NewNoOpTelemetry())
	got, err := tracer.Trace(context.Background(), "image.png", domain.Options{NumberOfPrimitives: 1})
	require.NoError(t, err)
	assert.NotContains(t, got, "feGaussianBlur")
	assert.Contains(t, got, `viewBox="0 0 4 2"`)
}

func TestTracer_Trace_ToolFailure(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, "#!/bin/sh\necho boom >&2\nexit 3\n")

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug("primitive: boom").Times(1)

	recorder := tracetest.NewSpanRecorder()
	tel := telemetry.NewOTelTelemetry("test", recorder)

	tracer := primitive.NewTracer(bin, 0, mockLogger, tel)
	_, err := tracer.Trace(context.Background(), "image.png", domain.DefaultOptions())
	require.Error(t, err)
	assert.ErrorContains(t, err, "primitive failed")

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "sqip.trace", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestTracer_Trace_NoOutput(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, "#!/bin/sh\nexit 0\n")

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	tracer := primitive.NewTracer(bin, 0, mockLogger, telemetry.NewNoOpTelemetry())
	_, err := tracer.Trace(context.Background(), "image.png", domain.DefaultOptions())
	require.Error(t, err)
	assert.ErrorContains(t, err, "primitive produced no output")
}

func TestTracer_Trace_Timeout(t *testing.T) {
	t.Parallel()

	bin := writeScript(t, "#!/bin/sh\nexec sleep 10\n")

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	tracer := primitive.NewTracer(bin, 50*time.Millisecond, mockLogger, telemetry.NewNoOpTelemetry())
	_, err := tracer.Trace(context.Background(), "image.png", domain.DefaultOptions())
	require.Error(t, err)
	assert.ErrorContains(t, err, "primitive interrupted")
}

func TestTracer_Trace_BinaryNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	tracer := primitive.NewTracer("sqip-test-no-such-binary", 0, mockLogger, telemetry.NewNoOpTelemetry())
	_, err := tracer.Trace(context.Background(), "image.png", domain.DefaultOptions())
	require.ErrorIs(t, err, domain.ErrTracerNotFound)
}
