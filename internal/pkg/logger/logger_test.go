package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: InfoLevel, Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	Info().Str("component", "test").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestConfigure_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: WarnLevel, Output: &buf})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	Info().Msg("dropped")
	assert.Empty(t, buf.String())

	Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLogLevel_Mapping(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, LogLevel("DEBUG").zerologLevel())
	assert.Equal(t, zerolog.ErrorLevel, ErrorLevel.zerologLevel())
	assert.Equal(t, zerolog.InfoLevel, LogLevel("verbose").zerologLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, WarnLevel, ParseLevel(" Warning "))
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigure_AppAndComponent(t *testing.T) {
	var buf bytes.Buffer
	lgr := Configure(Config{Level: InfoLevel, App: "clubsite", Output: &buf})

	componentLogger := Component(lgr, "membership")
	componentLogger.Info().Msg("stored")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "clubsite", entry["app"])
	assert.Equal(t, "membership", entry["component"])
}
