package configuration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConfiguration is a smoke test over the package-level config.
func TestConfiguration(t *testing.T) {
	t.Run("configuration_struct_exists", func(t *testing.T) {
		require.NotNil(t, &C, "Configuration should not be nil")
		require.NotNil(t, &C.App, "App configuration should exist")
		require.NotNil(t, &C.Database, "Database configuration should exist")
	})

	t.Run("defaults_applied", func(t *testing.T) {
		require.NotZero(t, C.App.Port, "App port should default when unset")
		require.Equal(t, 50, C.Sync.BatchSize, "sync batch size default")
		require.Equal(t, 30, C.Sync.ReanalyzeBatchSize, "reanalyze batch size default")
		require.NotEmpty(t, C.Database.Mongo.Host, "Mongo host should default")
	})

	t.Run("gemini_defaults", func(t *testing.T) {
		g := GetGeminiConfig()
		require.NotEmpty(t, g.Model)
		require.NotEmpty(t, g.BaseURL)
	})
}
