package container

import (
	"context"
	"fmt"
	"log"

	"uidlens/adapters/excel"
	"uidlens/adapters/memory"
	"uidlens/adapters/postgres"
	"uidlens/adapters/redis"
	"uidlens/app"
	"uidlens/internal/config"
	"uidlens/internal/migration"
	"uidlens/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB    *sqlx.DB
	Redis *goredis.Client

	// Ports
	Reader ports.SpreadsheetReader
	Store  ports.SnapshotStore

	// Services
	Workspace *app.WorkspaceService
	Analysis  *app.AnalysisService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Reader: excel.NewDataReader(),
	}

	return c, nil
}

// Init connects the configured snapshot backend and builds the services
func (c *Container) Init(ctx context.Context) error {
	switch c.Config.Store.Backend {
	case config.BackendPostgres:
		db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return c.InitWithDatabase(ctx, db)
	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     c.Config.Redis.Addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		return c.InitWithRedis(ctx, client)
	default:
		c.Store = memory.NewSnapshotStore()
		log.Printf("Container initialized with in-memory snapshot store")
		return c.initServices()
	}
}

// InitWithDatabase migrates the schema and stores snapshots in postgres
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	c.Store = postgres.NewSnapshotRepository(db, c.Config.Store.WorkspaceID)
	log.Printf("Container initialized successfully with database connection")
	return c.initServices()
}

// InitWithRedis stores snapshots in redis under the configured key
func (c *Container) InitWithRedis(ctx context.Context, client *goredis.Client) error {
	if client == nil {
		return fmt.Errorf("redis client cannot be nil")
	}

	c.Redis = client

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection test failed: %w", err)
	}

	c.Store = redis.NewSnapshotStore(client, c.Config.Store.SnapshotKey, 0)
	log.Printf("Container initialized successfully with redis at %s", c.Config.Redis.Addr)
	return c.initServices()
}

// initServices wires the application services over the chosen store
func (c *Container) initServices() error {
	c.Workspace = app.NewWorkspaceService(c.Reader, c.Store, app.WorkspaceOptions{
		WorkspaceID:  c.Config.Store.WorkspaceID,
		ChunkSize:    c.Config.Processing.ChunkSize,
		ParseWorkers: c.Config.Processing.ParseWorkers,
	})
	c.Analysis = app.NewAnalysisService(c.Workspace, c.Config.Processing.ChunkSize)
	return nil
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			return err
		}
	}

	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
