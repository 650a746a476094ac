package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/bodega-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConServicioYNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "bodega-api", Output: &buf})

	l.Info().Msg("no debe salir")
	l.Warn().Str("batch_id", "b1").Msg("desvío")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "bodega-api", entry["service"])
	assert.Equal(t, "b1", entry["batch_id"])
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "ruidoso", Output: &buf})
	l.Debug().Msg("x")
	assert.Empty(t, buf.String())
	l.Info().Msg("y")
	assert.NotEmpty(t, buf.String())
}
