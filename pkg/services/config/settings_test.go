package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSettings(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		settings, err := LoadSettings("")
		require.NoError(t, err)
		assert.Equal(t, Default(), settings)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeSettingsFile(t, `
variance_threshold: 0.1
duplicate_savings: false
anomaly:
  z_score_threshold: 3.0
  model_timeout: 5s
chunking:
  max_tokens: 2000
`)

		settings, err := LoadSettings(path)
		require.NoError(t, err)

		assert.Equal(t, 0.1, settings.Audit.VarianceThreshold)
		assert.False(t, settings.Audit.DuplicateSavings)
		assert.Equal(t, 3.0, settings.Anomaly.ZScoreThreshold)
		assert.Equal(t, 5*time.Second, settings.Anomaly.ModelTimeout)
		assert.Equal(t, 2000, settings.Chunking.MaxTokens)

		// Keys the file omits keep their defaults.
		defaults := Default()
		assert.Equal(t, defaults.Audit.SeverityEscalationFactor, settings.Audit.SeverityEscalationFactor)
		assert.Equal(t, defaults.Audit.DefaultOvertimeThreshold, settings.Audit.DefaultOvertimeThreshold)
		assert.Equal(t, defaults.Anomaly.MinSamples, settings.Anomaly.MinSamples)
		assert.Equal(t, defaults.Chunking.MaxSheetRows, settings.Chunking.MaxSheetRows)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
