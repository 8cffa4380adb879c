package framework

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLoggerWritesAtDebugLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	NewZapLogger(zap.New(core)).Printf("received HTTP %d", 404)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "received HTTP 404", entries[0].Message)
}

func TestNilZapLoggerIsNullLogger(t *testing.T) {
	assert.Equal(t, NullLogger(), NewZapLogger(nil))
}

func TestCapturedOutputDump(t *testing.T) {
	var l CapturingLogger
	l.Printf("first %s", "message")
	l.Printf("second")
	output := l.Output()
	require.Len(t, output, 2)

	var buf bytes.Buffer
	output.Dump(&buf, "  DEBUG ")
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  DEBUG ["))
	assert.True(t, strings.HasSuffix(lines[0], "] first message"))
	assert.True(t, strings.HasSuffix(lines[1], "] second"))
}
