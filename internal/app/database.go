package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nexusqa/agents/internal/domain/repository"
	"github.com/nexusqa/agents/internal/infrastructure/db"
	"github.com/nexusqa/agents/internal/infrastructure/memory"
	httphandler "github.com/nexusqa/agents/internal/interface/http"
	"github.com/nexusqa/agents/pkg/config"
	"github.com/nexusqa/agents/pkg/logger"
)

// connectTimeout bounds the initial database ping
const connectTimeout = 10 * time.Second

// Store is the selected task repository with its health check
type Store struct {
	Repo    repository.TaskRepository
	Health  httphandler.StoreChecker
	closers []func()
}

// Close releases the store's connections
func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenStore opens the task store selected by TASK_STORE
func OpenStore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := ConnectDatabase(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		gormDB, err := ConnectGORMDatabase(cfg, log)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := db.AutoMigrate(gormDB); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate task table: %w", err)
		}
		store := &Store{Repo: db.NewTaskRepository(gormDB), Health: pool}
		store.closers = append(store.closers, pool.Close)
		if sqlDB, err := gormDB.DB(); err == nil {
			store.closers = append(store.closers, func() { _ = sqlDB.Close() })
		}
		return store, nil

	case config.StoreSQLite:
		repo, err := db.NewSQLiteTaskRepository(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("Opened SQLite task store", logger.String("path", cfg.Store.SQLitePath))
		return &Store{Repo: repo, Health: repo, closers: []func(){func() { _ = repo.Close() }}}, nil

	default:
		log.Info("Using in-memory task store")
		return &Store{Repo: memory.NewTaskRepository()}, nil
	}
}

// ConnectDatabase establishes the pgx pool used for health checks
func ConnectDatabase(ctx context.Context, cfg *config.Config, log logger.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Store.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = 2

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	// Ping database to verify connection
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := dbPool.Ping(pingCtx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Connected to database")
	return dbPool, nil
}

// ConnectGORMDatabase opens the GORM handle used by the task repository
func ConnectGORMDatabase(cfg *config.Config, log logger.Logger) (*gorm.DB, error) {
	level := gormlogger.Silent
	if cfg.App.Debug {
		level = gormlogger.Info
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.Store.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database with GORM: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Store.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.Store.MaxConnections / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Connected to database with GORM", logger.Int("max_connections", cfg.Store.MaxConnections))
	return gormDB, nil
}
