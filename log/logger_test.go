package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   Debug,
		"INFO":    Info,
		"":        Info,
		"warning": Warn,
		" error ": Error,
		"fatal":   Fatal,
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			level, err := ParseLevel(input)
			require.NoError(t, err)
			assert.Equal(t, want, level)
		})
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("sizefs", Warn, &buf)

	logger.Debug("hidden %d", 1)
	logger.Info("hidden %d", 2)
	logger.Warn("shown %d", 3)
	logger.Error("shown %d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WARN  [sizefs] shown 3")
	assert.Contains(t, lines[1], "ERROR [sizefs] shown 4")
}

func TestLogger_NamedAndJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("sizefs", Debug, &buf)
	logger.JSON = true

	logger.Named("webdav").Info("listening on %s", ":8080")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sizefs/webdav", entry.Service)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "listening on :8080", entry.Message)
}

func TestLogLevel_UnmarshalText(t *testing.T) {
	var level LogLevel
	require.NoError(t, level.UnmarshalText([]byte("debug")))
	assert.Equal(t, Debug, level)
	assert.Error(t, level.UnmarshalText([]byte("nope")))

	text, err := Warn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warn", string(text))
}
