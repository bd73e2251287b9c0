package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 1500*time.Millisecond, cfg.Scan.Delay.Std())
	assert.Equal(t, 150*time.Millisecond, cfg.Scan.Stagger.Std())
	assert.Equal(t, 75.0, cfg.Thresholds.CPU.Warning)
	assert.Equal(t, 90.0, cfg.Thresholds.CPU.Critical)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procheck.yaml")
	content := `
listen_addr: ":9090"
storage_dir: /var/lib/procheck
scan:
  delay: 2s
  stagger: 200ms
summary:
  api_key: test-key
  model: gpt-4o
thresholds:
  cpu:
    warning: 70
    critical: 85
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/procheck", cfg.StorageDir)
	assert.Equal(t, 2*time.Second, cfg.Scan.Delay.Std())
	assert.Equal(t, 200*time.Millisecond, cfg.Scan.Stagger.Std())
	assert.Equal(t, "test-key", cfg.Summary.APIKey)
	assert.Equal(t, 70.0, cfg.Thresholds.CPU.Warning)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.ListenAddr = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.StorageDir = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Scan.Delay = 0
	assert.Error(t, cfg.Validate())
}
