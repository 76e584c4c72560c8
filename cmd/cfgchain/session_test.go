package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/cfgchain"
	"github.com/sagarc03/cfgchain/config"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		raw  bool
		want any
	}{
		{in: "us-west-2", want: "us-west-2"},
		{in: "false", want: false},
		{in: "3", want: 3},
		{in: "1.5", want: 1.5},
		{in: "", want: ""},
		{in: "null", want: nil},
		{in: "[a, b]", want: []any{"a", "b"}},
		{in: "{ec2: v1, retries: 3}", want: map[string]any{"ec2": "v1", "retries": 3}},
		{in: "0755", raw: true, want: "0755"},
		{in: "false", raw: true, want: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseValue(tt.in, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseValue("[unclosed", false)
	assert.Error(t, err)
}

func TestOpenSession(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	profilePath := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(profilePath, []byte("profiles:\n  dev:\n    region: eu-west-1\n    app_workers: \"8\"\n"), 0o600))

	defsPath := filepath.Join(dir, "variables.yaml")
	require.NoError(t, os.WriteFile(defsPath, []byte(`variables:
  - name: app_workers
    config_property: app_workers
    default: 2
    type: int
`), 0o600))

	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)
	cfg.Session.Profile = "dev"
	cfg.Session.ConfigFile = profilePath
	cfg.Session.Definitions = defsPath
	cfg.Database.Enabled = true
	cfg.Database.DSN = ":memory:"

	sess, cleanup, err := openSession(ctx, cfg)
	require.NoError(t, err)
	defer cleanup()

	scoped, err := sess.ScopedConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", scoped["region"])

	workers, _, err := sess.GetConfigVariable(ctx, "app_workers")
	require.NoError(t, err)
	assert.Equal(t, 8, workers)

	require.NoError(t, sess.SetInstanceVariable(ctx, cfgchain.Region, "us-east-2"))
	region, _, err := sess.GetConfigVariable(ctx, cfgchain.Region)
	require.NoError(t, err)
	assert.Equal(t, "us-east-2", region)
}

func TestOpenSession_BadDefinitions(t *testing.T) {
	cfg, err := config.Load(nil, nil)
	require.NoError(t, err)
	cfg.Session.Definitions = filepath.Join(t.TempDir(), "missing.yaml")

	_, _, err = openSession(context.Background(), cfg)
	assert.ErrorContains(t, err, "load definitions")
}
