package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfilesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice-atlas.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("reads a fully configured profile", func(t *testing.T) {
		path := writeProfilesFile(t, `
[acme]
rates_db = /var/lib/invoice-atlas/acme.db
location = north-region
model_endpoint = cost-anomaly-prod
region = us-east-1
report_bucket = acme-audit-reports
`)
		registry, err := NewRegistry(path)
		require.NoError(t, err)

		profile, err := registry.GetProfile(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "acme", profile.Name)
		assert.Equal(t, "/var/lib/invoice-atlas/acme.db", profile.RatesDBPath)
		assert.Equal(t, "north-region", profile.Location)
		assert.Equal(t, "cost-anomaly-prod", profile.ModelEndpoint)
		assert.Equal(t, "us-east-1", profile.Region)
		assert.Equal(t, "acme-audit-reports", profile.ReportBucket)
	})

	t.Run("optional collaborators may be omitted", func(t *testing.T) {
		path := writeProfilesFile(t, `
[default]
rates_db = rates.db
`)
		registry, err := NewRegistry(path)
		require.NoError(t, err)

		profile, err := registry.GetProfile(ctx, "default")
		require.NoError(t, err)
		assert.Empty(t, profile.ModelEndpoint)
		assert.Empty(t, profile.ReportBucket)
	})

	t.Run("missing rates_db is an error", func(t *testing.T) {
		path := writeProfilesFile(t, `
[broken]
location = somewhere
`)
		registry, err := NewRegistry(path)
		require.NoError(t, err)

		_, err = registry.GetProfile(ctx, "broken")
		assert.ErrorContains(t, err, "rates_db")
	})

	t.Run("unknown profile is an error", func(t *testing.T) {
		path := writeProfilesFile(t, `
[acme]
rates_db = rates.db
`)
		registry, err := NewRegistry(path)
		require.NoError(t, err)

		_, err = registry.GetProfile(ctx, "nope")
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("lists configured profiles", func(t *testing.T) {
		path := writeProfilesFile(t, `
[acme]
rates_db = acme.db

[globex]
rates_db = globex.db
`)
		registry, err := NewRegistry(path)
		require.NoError(t, err)

		profiles, err := registry.GetProfiles(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"acme", "globex"}, profiles)
	})
}
