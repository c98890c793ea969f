package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/franckalain/recipebook/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Wiring(t *testing.T) {
	assert.Equal(t, "recipebook", rootCmd.Use)

	serve, _, err := rootCmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	initConfig, _, err := rootCmd.Find([]string{"init-config"})
	require.NoError(t, err)
	assert.NotNil(t, initConfig.Flags().Lookup("force"))

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestPersistentPreRun_LoadsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9191\"\nlogging:\n  level: warn\n"), 0o644))

	configPath = path
	t.Cleanup(func() { configPath = ""; cfg = nil; logger = nil })

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NotNil(t, cfg)
	assert.Equal(t, "9191", cfg.Server.Port)
	require.NotNil(t, logger)
}

func TestPersistentPreRun_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeout: forever\n"), 0o644))

	configPath = path
	t.Cleanup(func() { configPath = ""; cfg = nil; logger = nil })

	assert.Error(t, rootCmd.PersistentPreRunE(rootCmd, nil))
}

func TestInitConfig(t *testing.T) {
	t.Setenv("RECIPEBOOK_API_URL", "https://api.example.test")
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	configPath = path
	t.Cleanup(func() { configPath = ""; cfg = nil; logger = nil; force = false })

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NoError(t, runInitConfig(initConfigCmd, nil))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.test", loaded.API.BaseURL)
	assert.Equal(t, "/dashboard", loaded.Session.DashboardPath)

	assert.Error(t, runInitConfig(initConfigCmd, nil))

	force = true
	assert.NoError(t, runInitConfig(initConfigCmd, nil))
}
