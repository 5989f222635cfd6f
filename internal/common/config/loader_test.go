// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: "phone-assistant"
catalog:
  source: "file"
  path: "data/phones.json"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Assist.TopK)
	assert.Equal(t, 80, cfg.Assist.ModelThreshold)
	assert.Equal(t, 92, cfg.Assist.BrandThreshold)
	assert.Equal(t, "gemini-1.5-flash", cfg.GenAI.Model)
	assert.Equal(t, 300000, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_RejectsUnknownCatalogSource(t *testing.T) {
	path := writeConfigFile(t, `
catalog:
  source: "elasticsearch"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog.source")
}

func TestLoadFromFile_PostgresSourceNeedsConnection(t *testing.T) {
	path := writeConfigFile(t, `
catalog:
  source: "postgres"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 10*time.Second, GetDuration(10000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
