package container

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uidlens/app"
	"uidlens/internal/config"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Store:      config.StoreConfig{Backend: backend, WorkspaceID: "ws-1", SnapshotKey: "uidlens:test"},
		Processing: config.ProcessingConfig{ChunkSize: 10, ParseWorkers: 2},
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitMemory(t *testing.T) {
	c, err := New(testConfig(config.BackendMemory))
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))

	require.NotNil(t, c.Workspace)
	require.NotNil(t, c.Analysis)
	assert.NoError(t, c.Workspace.Restore(context.Background()))
	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestInitWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := New(testConfig(config.BackendRedis))
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	require.NoError(t, c.InitWithRedis(context.Background(), client))

	_, err = c.Workspace.Upload(context.Background(), []app.Upload{
		{Name: "friends.csv", Content: []byte("uid,name\n1,Anh\n")},
	}, app.UploadMeta{})
	require.NoError(t, err)
	assert.True(t, mr.Exists("uidlens:test"))

	assert.NoError(t, c.Shutdown(context.Background()))
}

func TestInitWithRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c, err := New(testConfig(config.BackendRedis))
	require.NoError(t, err)
	client := goredis.NewClient(&goredis.Options{Addr: addr, MaxRetries: -1})
	defer client.Close()
	assert.Error(t, c.InitWithRedis(context.Background(), client))
}

func TestInitWithDatabaseRunsMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS workspace_snapshots").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_workspace_snapshots_saved_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectClose()

	c, err := New(testConfig(config.BackendPostgres))
	require.NoError(t, err)
	require.NoError(t, c.InitWithDatabase(context.Background(), sqlx.NewDb(db, "postgres")))
	assert.NotNil(t, c.Store)

	require.NoError(t, c.Shutdown(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitWithDatabaseNil(t *testing.T) {
	c, err := New(testConfig(config.BackendPostgres))
	require.NoError(t, err)
	assert.Error(t, c.InitWithDatabase(context.Background(), nil))
}
