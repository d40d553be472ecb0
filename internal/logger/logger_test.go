package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_WritesJSONWithComponent(t *testing.T) {
	var buf bytes.Buffer

	l, err := NewWithWriter(Config{Level: "debug"}, &buf)
	require.NoError(t, err)

	cl := WithComponent(l, "meraki-sync")
	cl.Debug().Str("serial", "Q2AA-0000-0001").Msg("computed uptime")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "meraki-sync", entry["component"])
	assert.Equal(t, "Q2AA-0000-0001", entry["serial"])
	assert.Equal(t, "computed uptime", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	l, err := NewWithWriter(Config{Level: "WARN"}, &buf)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNewWithWriter_DebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer

	l, err := NewWithWriter(Config{Level: "error", Debug: true}, &buf)
	require.NoError(t, err)

	l.Debug().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNewWithWriter_BadLevel(t *testing.T) {
	_, err := NewWithWriter(Config{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestDefaultConfig_ReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DEBUG", "yes")
	t.Setenv("LOG_OUTPUT", "stderr")

	cfg := DefaultConfig()
	assert.Equal(t, "error", cfg.Level)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "stderr", cfg.Output)
}
