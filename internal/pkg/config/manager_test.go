package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *ViperManager {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	mgr, err := NewManager(configPath)
	require.NoError(t, err)
	return mgr
}

func TestLoad_Defaults(t *testing.T) {
	mgr := newTestManager(t)

	cfg, err := mgr.Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Provider.Model)
	assert.Equal(t, float32(0.2), cfg.Provider.Temperature)
	assert.Equal(t, 500, cfg.Provider.MaxTokens)
	assert.Equal(t, 10240, cfg.Git.DiffSizeThreshold)
	assert.Equal(t, 10, cfg.Git.UnifiedContext)
	assert.True(t, cfg.UI.ColorEnabled)
	assert.False(t, cfg.Security.WarningAcknowledged)
}

func TestInit_CreatesFileWithRestrictedPermissions(t *testing.T) {
	mgr := newTestManager(t)

	require.NoError(t, mgr.Init())

	info, err := os.Stat(mgr.GetConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Second init must refuse to clobber.
	assert.Error(t, mgr.Init())
}

func TestSetAndGet(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.Init())

	require.NoError(t, mgr.Set("provider.model", "gpt-4o"))

	got, err := mgr.Get("provider.model")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", got)
}

func TestEnvOverridesFile(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.Init())
	require.NoError(t, mgr.Set("provider.model", "file-model"))

	t.Setenv("AUTOCOMMIT_PROVIDER_MODEL", "env-model")

	mgr2, err := NewManager(mgr.GetConfigPath())
	require.NoError(t, err)

	cfg, err := mgr2.Load()
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.Provider.Model)
}

func TestSetOverride_TakesPrecedence(t *testing.T) {
	mgr := newTestManager(t)
	require.NoError(t, mgr.Init())
	require.NoError(t, mgr.Set("provider.model", "file-model"))

	mgr.SetOverride("provider.model", "flag-model")

	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "flag-model", cfg.Provider.Model)
}

func TestAcknowledgeSecurityWarning(t *testing.T) {
	mgr := newTestManager(t)

	assert.False(t, mgr.IsSecurityWarningAcknowledged())
	require.NoError(t, mgr.AcknowledgeSecurityWarning())
	assert.True(t, mgr.IsSecurityWarningAcknowledged())
}

func TestConfigExists(t *testing.T) {
	mgr := newTestManager(t)

	assert.False(t, mgr.ConfigExists())
	require.NoError(t, mgr.Init())
	assert.True(t, mgr.ConfigExists())
}
