package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azure-innovate/procheck/config"
)

func TestBuildAppWiresComponents(t *testing.T) {
	cfg := config.Default()
	cfg.StorageDir = t.TempDir()

	application, err := buildApp(cfg)
	require.NoError(t, err)
	defer func() { _ = application.Close() }()

	assert.NotNil(t, application.store)
	assert.NotNil(t, application.recorder)
	assert.NotNil(t, application.orch)
	assert.NotNil(t, application.sessions)
	assert.NotNil(t, application.summary)
	assert.NotNil(t, application.registry)

	tenants, err := application.store.GetTenants(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tenants)
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	configPath = ""

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
}
