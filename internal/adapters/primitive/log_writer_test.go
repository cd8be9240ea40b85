package primitive

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sqip/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogWriter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	gomock.InOrder(
		mockLogger.EXPECT().Debug("primitive: first"),
		mockLogger.EXPECT().Debug("primitive: second"),
		mockLogger.EXPECT().Debug("primitive: partial"),
	)

	w := &logWriter{logger: mockLogger}
	n, err := w.Write([]byte("fir"))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	_, _ = w.Write([]byte("st\r\n\nsecond\npar"))
	_, _ = w.Write([]byte("tial"))
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestTailWriter_KeepsLastBytes(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()

	var buf bytes.Buffer
	tw := &tailWriter{w: &logWriter{logger: mockLogger}, buf: &buf}

	chunk := strings.Repeat("x", stderrTail) + "\n"
	n, err := tw.Write([]byte(chunk))
	assert.NoError(t, err)
	assert.Equal(t, len(chunk), n)

	_, _ = tw.Write([]byte("tail"))
	assert.Equal(t, stderrTail, buf.Len())
	assert.True(t, strings.HasSuffix(buf.String(), "x\ntail"))
}
