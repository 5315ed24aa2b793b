// Package database opens the connection behind the configured store driver.
//
// It handles:
//   - a pgx connection pool for postgres, with query tracing (pgx tracelog)
//     in the local env and New Relic instrumentation (nrpgx5) when enabled
//   - a mongo client for mongo, with the nrmongo command monitor when enabled
//   - nothing at all for memory, whose state lives in the repositories
package database

import (
	"context"
	"fmt"

	"github.com/deppfellow/storefront/internal/config"
	loggerConfig "github.com/deppfellow/storefront/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// Database holds the live handle of the active driver. Exactly one of Pool
// and Mongo is set, except for the memory driver where neither is.
type Database struct {
	Driver string
	Pool   *pgxpool.Pool
	Mongo  *mongo.Database

	log *zerolog.Logger
}

// New connects to the configured store and pings it, so startup fails fast
// when the store is down.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	db := &Database{Driver: cfg.Database.Driver, log: logger}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := newPostgresPool(connectCtx, cfg, logger, loggerService)
		if err != nil {
			return nil, err
		}
		db.Pool = pool
	case config.DriverMongo:
		mdb, err := newMongoDatabase(connectCtx, cfg, loggerService)
		if err != nil {
			return nil, err
		}
		db.Mongo = mdb
	case config.DriverMemory:
		logger.Warn().Msg("using the in-memory store, data is lost on restart")
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := db.Ping(connectCtx); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", db.Driver).Msg("connected to the database")

	return db, nil
}

// Ping checks the store is reachable. The memory store always is.
func (db *Database) Ping(ctx context.Context) error {
	switch {
	case db.Pool != nil:
		return db.Pool.Ping(ctx)
	case db.Mongo != nil:
		return pingMongo(ctx, db.Mongo.Client())
	}
	return nil
}

// Close releases the driver's connections.
func (db *Database) Close(ctx context.Context) error {
	db.log.Info().Str("driver", db.Driver).Msg("closing database connection")

	switch {
	case db.Pool != nil:
		db.Pool.Close()
	case db.Mongo != nil:
		return db.Mongo.Client().Disconnect(ctx)
	}
	return nil
}
