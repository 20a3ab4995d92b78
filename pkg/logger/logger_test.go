package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterfire-source/Mycalinks-sub015/pkg/logger"
)

func TestComponentAddsField(t *testing.T) {
	var buf bytes.Buffer
	log := logger.WithWriter(&buf, "info").Component("ledger")

	log.Info().Str("store_id", "s1").Msg("increase")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ledger", line["component"])
	assert.Equal(t, "s1", line["store_id"])
	assert.Equal(t, "info", line["level"])
}

func TestWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := logger.WithWriter(&buf, "warn")

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestWithWriter_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.WithWriter(&buf, "verbose")

	log.Debug().Msg("descartado")
	assert.Zero(t, buf.Len())
	log.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}
