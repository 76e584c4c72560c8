package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/cfgchain/database/postgres"
	"github.com/sagarc03/cfgchain/session"
)

func TestRepo_SetAndList(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := setupTestRepo(t)

	vars, err := repo.List(ctx, "ci")
	require.NoError(t, err)
	assert.Empty(t, vars)

	require.NoError(t, repo.Set(ctx, "ci", "region", "us-west-2"))
	require.NoError(t, repo.Set(ctx, "ci", "metadata_service_timeout", 3))
	require.NoError(t, repo.Set(ctx, "ci", "parameter_validation", false))
	require.NoError(t, repo.Set(ctx, "other", "region", "eu-west-1"))

	vars, err = repo.List(ctx, "ci")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"region":                   "us-west-2",
		"metadata_service_timeout": 3,
		"parameter_validation":     false,
	}, vars)
}

func TestRepo_SetReplaces(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := setupTestRepo(t)

	require.NoError(t, repo.Set(ctx, "ci", "region", "us-west-2"))
	require.NoError(t, repo.Set(ctx, "ci", "region", "ap-south-1"))

	vars, err := repo.List(ctx, "ci")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"region": "ap-south-1"}, vars)
}

func TestRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _, _ := setupTestRepo(t)

	require.NoError(t, repo.Set(ctx, "ci", "region", "us-west-2"))
	require.NoError(t, repo.Delete(ctx, "ci", "region"))

	err := repo.Delete(ctx, "ci", "region")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestValidateSchema(t *testing.T) {
	ctx := context.Background()
	_, pool, tableName := setupTestRepo(t)

	require.NoError(t, postgres.ValidateSchema(ctx, pool, tableName))

	require.NoError(t, postgres.DropTables(ctx, pool, tableName))
	err := postgres.ValidateSchema(ctx, pool, tableName)
	assert.ErrorContains(t, err, "does not exist")
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo, pool, tableName := setupTestRepo(t)

	require.NoError(t, repo.Set(ctx, "ci", "region", "us-west-2"))
	require.NoError(t, postgres.Migrate(ctx, pool, tableName))

	vars, err := repo.List(ctx, "ci")
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", vars["region"])
}

func TestNewRepo_InvalidTableName(t *testing.T) {
	_, err := postgres.NewRepo(nil, "bad-name")
	assert.Error(t, err)

	err = postgres.Migrate(context.Background(), nil, "Bad")
	assert.Error(t, err)
}
