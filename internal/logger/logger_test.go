package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New("debug", FormatJSON, buf)
	require.NoError(t, err)

	log.Debug().Str("store", "Target").Msg("card committed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "Target", entry["store"])
	assert.Equal(t, "card committed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New("info", FormatConsole, buf)
	require.NoError(t, err)

	log.Info().Msg("test message")
	assert.Contains(t, buf.String(), "test message")
}

func TestNew_LevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New("warn", FormatJSON, buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	assert.Zero(t, buf.Len())
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

func TestNew_EmptyLevelIsInfo(t *testing.T) {
	log, err := New("", FormatJSON, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", FormatJSON, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	testLog, err := New("info", FormatJSON, buf)
	require.NoError(t, err)
	ctx := WithContext(context.Background(), testLog)

	retrieved := FromContext(ctx)
	retrieved.Info().Msg("test")
	assert.NotZero(t, buf.Len())
}

func TestFromContext_DefaultLogger(t *testing.T) {
	log := FromContext(context.Background())
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}
