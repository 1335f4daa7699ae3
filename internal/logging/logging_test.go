package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreInitLoggerUsesConfiguredHandler(t *testing.T) {
	logger := L("scan")

	var buf bytes.Buffer
	Init("text", "info", &buf)
	t.Cleanup(func() { Init("text", "warn", nil) })

	logger.Info("scanned", KeyProtocol, "TCP", "records", 3)

	out := buf.String()
	assert.Contains(t, out, "msg=scanned")
	assert.Contains(t, out, "component=scan")
	assert.Contains(t, out, "protocol=TCP")
	assert.Contains(t, out, "records=3")
}

func TestPreInitLoggerRespectsConfiguredLevel(t *testing.T) {
	logger := L("resolve")

	var buf bytes.Buffer
	Init("text", "warn", &buf)
	t.Cleanup(func() { Init("text", "warn", nil) })

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("json", "debug", &buf)
	t.Cleanup(func() { Init("text", "warn", nil) })

	L("killer").Debug("signal sent", KeyPID, 42)

	out := buf.String()
	assert.Contains(t, out, `"component":"killer"`)
	assert.Contains(t, out, `"pid":42`)
}

func TestSwitchFormatsRepeatedly(t *testing.T) {
	t.Cleanup(func() { Init("text", "warn", nil) })
	logger := L("app")

	for _, format := range []string{"json", "text", "json"} {
		var buf bytes.Buffer
		Init(format, "info", &buf)
		logger.Info("switched")
		if format == "json" {
			assert.Contains(t, buf.String(), `"msg":"switched"`)
		} else {
			assert.Contains(t, buf.String(), "msg=switched")
		}
	}
}

func TestDiscard(t *testing.T) {
	var buf bytes.Buffer
	Init("text", "debug", &buf)
	Discard()
	t.Cleanup(func() { Init("text", "warn", nil) })

	L("tui").Error("should not appear")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"bogus", slog.LevelWarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
	assert.True(t, ValidLevel("Debug"))
	assert.False(t, ValidLevel("verbose"))
}
