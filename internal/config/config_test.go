package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create temporary directory
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pokestrat.yml")

	// Write valid config
	validConfig := `namespace: "prod"
redis:
  url: "redis://localhost:6379"
catalog:
  api_key: "test-key"
`
	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	// Load and validate
	config, err := Load(configPath)
	require.NoError(t, err)
	assert.NotNil(t, config)
	assert.Equal(t, "prod", config.Namespace)
	assert.Equal(t, "redis://localhost:6379", config.Redis.URL)
	require.NotNil(t, config.Catalog)
	assert.Equal(t, "test-key", config.Catalog.APIKey)
}

func TestLoad_DefaultNamespace(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pokestrat.yml")

	err := os.WriteFile(configPath, []byte("redis:\n  url: \"redis://localhost:6379\"\n"), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "default", config.Namespace)
	assert.Nil(t, config.Catalog)
}

func TestLoad_FileNotFoundUsesEnvironment(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://envhost:6379")
	t.Setenv("POKESTRAT_NAMESPACE", "staging")

	config, err := Load(filepath.Join(t.TempDir(), "pokestrat.yml"))
	require.NoError(t, err)
	assert.Equal(t, "redis://envhost:6379", config.Redis.URL)
	assert.Equal(t, "staging", config.Namespace)
}

func TestLoad_FileNotFoundNoEnvironment(t *testing.T) {
	config, err := Load(filepath.Join(t.TempDir(), "pokestrat.yml"))
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "redis.url is required")
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pokestrat.yml")

	// Write invalid YAML
	invalidYAML := `redis:
  - this is invalid
    yaml syntax
`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pokestrat.yml")

	fileConfig := `namespace: "prod"
redis:
  url: "redis://filehost:6379"
`
	err := os.WriteFile(configPath, []byte(fileConfig), 0644)
	require.NoError(t, err)

	t.Setenv("REDIS_URL", "redis://envhost:6379")
	t.Setenv("POKEMON_TCG_API_KEY", "env-key")

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "redis://envhost:6379", config.Redis.URL)
	assert.Equal(t, "prod", config.Namespace)
	require.NotNil(t, config.Catalog)
	assert.Equal(t, "env-key", config.Catalog.APIKey)
}

func TestValidate_MissingRedisURL(t *testing.T) {
	config := &Config{Namespace: "default"}

	err := config.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis.url is required")
}
