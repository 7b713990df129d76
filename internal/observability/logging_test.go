package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/delve/internal/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: format}, "simulate")
		require.NoError(t, err, format)
		assert.NotNil(t, logger)
	}
}

func TestNewLogger_Rejects(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "trace", Format: "json"}, "simulate")
	assert.ErrorContains(t, err, "trace")

	_, err = NewLogger(config.LoggingConfig{Level: "info", Format: "xml"}, "simulate")
	assert.ErrorContains(t, err, "xml")
}

func TestNewLogger_WritesNamedJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json", File: path}, "simulate")
	require.NoError(t, err)

	logger.Info("below level")
	logger.Warn("skill slot disabled", RunFields("hollow_crypt", 3, 99)...)
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "below level")
	assert.Contains(t, out, `"logger":"simulate"`)
	assert.Contains(t, out, `"encounter":"hollow_crypt"`)
	assert.Contains(t, out, `"run":3`)
	assert.Contains(t, out, `"seed":99`)
}
