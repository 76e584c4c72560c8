package definition_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/cfgchain"
	"github.com/sagarc03/cfgchain/definition"
)

type staticSession struct {
	vars   map[string]any
	scoped map[string]any
}

func (s staticSession) InstanceVariables(context.Context) (map[string]any, error) {
	return s.vars, nil
}

func (s staticSession) ScopedConfig(context.Context) (map[string]any, error) {
	return s.scoped, nil
}

const tableYAML = `variables:
  - name: request_timeout
    env_vars: [APP_REQUEST_TIMEOUT, REQUEST_TIMEOUT]
    config_property: request_timeout
    default: 30s
    type: duration
  - name: retries
    instance_var: retries
    config_property: retries
    type: int
  - name: endpoint
    env_vars: [APP_ENDPOINT]
    default:
  - name: tags
    env_vars: [APP_TAGS]
    type: string_slice
`

func TestParse(t *testing.T) {
	table, err := definition.Parse([]byte(tableYAML))
	require.NoError(t, err)
	require.Len(t, table.Variables, 4)

	timeout := table.Variables[0]
	assert.Equal(t, "request_timeout", timeout.Name)
	assert.Equal(t, []string{"APP_REQUEST_TIMEOUT", "REQUEST_TIMEOUT"}, timeout.EnvVars)
	assert.True(t, timeout.HasDefault)
	assert.Equal(t, "30s", timeout.Default)

	assert.False(t, table.Variables[1].HasDefault)

	endpoint := table.Variables[2]
	assert.True(t, endpoint.HasDefault)
	assert.Nil(t, endpoint.Default)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing name",
			yaml: "variables:\n  - env_vars: [A]\n",
		},
		{
			name: "unknown type",
			yaml: "variables:\n  - name: a\n    type: complex\n",
		},
		{
			name: "duplicate names",
			yaml: "variables:\n  - name: a\n  - name: a\n",
		},
		{
			name: "empty env var name",
			yaml: "variables:\n  - name: a\n    env_vars: [\"\"]\n",
		},
		{
			name: "not yaml",
			yaml: "variables: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := definition.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestTable_Build(t *testing.T) {
	ctx := context.Background()
	table, err := definition.Parse([]byte(tableYAML))
	require.NoError(t, err)

	env := cfgchain.MapEnviron{"REQUEST_TIMEOUT": "5", "APP_TAGS": "a,b"}
	sess := staticSession{
		vars:   map[string]any{"retries": "7"},
		scoped: map[string]any{"retries": 2, "request_timeout": "1m"},
	}
	f := cfgchain.NewConfigChainFactory(sess, env)

	mapping, err := table.Build(f)
	require.NoError(t, err)
	store := cfgchain.NewConfigValueStore(mapping)

	v, _, err := store.GetConfigVariable(ctx, "request_timeout")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, v)

	v, _, err = store.GetConfigVariable(ctx, "retries")
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	v, ok, err := store.GetConfigVariable(ctx, "endpoint")
	require.NoError(t, err)
	assert.True(t, ok, "explicit null default is present")
	assert.Nil(t, v)

	v, _, err = store.GetConfigVariable(ctx, "tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestTable_BuildDefaultOnly(t *testing.T) {
	table, err := definition.Parse([]byte("variables:\n  - name: x\n    default: 30s\n    type: duration\n"))
	require.NoError(t, err)

	f := cfgchain.NewConfigChainFactory(staticSession{}, cfgchain.MapEnviron{})
	mapping, err := table.Build(f)
	require.NoError(t, err)

	chain, ok := mapping["x"].(*cfgchain.ChainProvider)
	require.True(t, ok)
	assert.Len(t, chain.Providers(), 1)

	v, _, err := chain.Provide(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, v)
}

func TestTable_Extend(t *testing.T) {
	ctx := context.Background()
	table, err := definition.Parse([]byte("variables:\n  - name: region\n    default: local\n  - name: extra\n    default: 1\n"))
	require.NoError(t, err)

	mappingFn, err := table.Extend(cfgchain.DefaultConfigMapping)
	require.NoError(t, err)

	f := cfgchain.NewConfigChainFactory(staticSession{}, cfgchain.MapEnviron{})
	store := cfgchain.NewConfigValueStore(mappingFn(f))

	v, _, err := store.GetConfigVariable(ctx, cfgchain.Region)
	require.NoError(t, err)
	assert.Equal(t, "local", v, "definition replaces the built-in region chain")

	v, _, err = store.GetConfigVariable(ctx, "extra")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, _, err = store.GetConfigVariable(ctx, cfgchain.MetadataServiceTimeout)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tableYAML), 0o600))

	table, err := definition.Load(path)
	require.NoError(t, err)
	assert.Len(t, table.Variables, 4)

	_, err = definition.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
