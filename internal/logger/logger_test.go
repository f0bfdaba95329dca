package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/bookstore/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LoggingConfig{Level: "info", Format: "json"}, "staging")

	log.Debug().Msg("hidden")
	log.Info().Str("isbn", "111").Msg("book created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "staging", line["env"])
	assert.Equal(t, "111", line["isbn"])
	assert.Equal(t, "book created", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LoggingConfig{Level: "debug", Format: "console"}, "development")

	log.Debug().Msg("starting")

	assert.Contains(t, buf.String(), "starting")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LoggingConfig{Level: "loud", Format: "json"}, "development")

	log.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Info().Msg("shown")
	assert.NotEmpty(t, buf.String())
}
