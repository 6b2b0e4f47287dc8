package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `yaml:"name" env:"TEST_NAME"`
	Port    int           `yaml:"port" env:"TEST_PORT"`
	Debug   bool          `yaml:"debug"`
	Timeout time.Duration `yaml:"timeout"`
	Peers   []string      `yaml:"peers"`
	Nested  struct {
		Ratio float64 `yaml:"ratio"`
		Limit uint    `yaml:"limit"`
	} `yaml:"nested"`
	Rules []struct {
		Name string `yaml:"name"`
	} `yaml:"rules" env:"-"`
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: file
port: 1
timeout: 3s
peers: [a, b]
nested:
  ratio: 0.5
rules:
  - name: first
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_PORT", "8080")
	t.Setenv("DEBUG", "true")
	t.Setenv("TIMEOUT", "1m30s")
	t.Setenv("NESTED_LIMIT", "7")
	t.Setenv("PEERS", "gw-1, gw-2,,")

	var cfg testConfig
	require.NoError(t, LoadConfig(&cfg))

	assert.Equal(t, "file", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"gw-1", "gw-2"}, cfg.Peers)
	assert.Equal(t, 0.5, cfg.Nested.Ratio)
	assert.Equal(t, uint(7), cfg.Nested.Limit)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, "first", cfg.Rules[0].Name)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	assert.Error(t, LoadConfig(nil))
	assert.Error(t, LoadConfig(testConfig{}))

	t.Setenv("TEST_PORT", "eighty")
	var cfg testConfig
	err := LoadConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_PORT")

	t.Setenv("TEST_PORT", "80")
	t.Setenv("TIMEOUT", "soon")
	assert.Error(t, LoadConfig(&cfg))

	t.Setenv("TIMEOUT", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, LoadConfig(&cfg))
}

func TestLoadConfigExpandsReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: ${TEST_EXPAND_NAME}
peers: ["${TEST_EXPAND_MISSING:-fallback}", "$2a$10$kept"]
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TEST_EXPAND_NAME", "from-env")

	var cfg testConfig
	require.NoError(t, LoadConfig(&cfg))
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, []string{"fallback", "$2a$10$kept"}, cfg.Peers)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nprot: 80\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	var cfg testConfig
	err := LoadConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prot")
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	t.Setenv("CONFIG_FILE", path)

	var cfg testConfig
	require.NoError(t, LoadConfig(&cfg))
}
