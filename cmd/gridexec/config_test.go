package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:10080", cfg.HTTPAddr)
	require.Equal(t, "127.0.0.1:10081", cfg.GRPCAddr)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, "info", cfg.Log.Level)
	require.Len(t, cfg.Nodes, 1)
	require.Equal(t, "node-0", cfg.Nodes[0].Name)
}

func TestLoadConfigFromFile(t *testing.T) {
	content := `
http-addr = "0.0.0.0:8080"
workers = 8

[log]
level = "debug"

[[nodes]]
name = "crd"
[nodes.attributes]
zone = "a"

[[nodes]]
name = "srv"
`
	path := filepath.Join(t.TempDir(), "gridexec.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	require.Equal(t, "127.0.0.1:10081", cfg.GRPCAddr)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Nodes, 2)
	require.Equal(t, "crd", cfg.Nodes[0].Name)
	require.Equal(t, "a", cfg.Nodes[0].Attributes["zone"])
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}
