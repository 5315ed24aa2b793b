package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the store's schema up to date.
//
// Postgres runs the embedded tern migrations; Mongo has no schema, so only
// the listing indexes are created. The memory store needs nothing.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return migratePostgres(ctx, logger, cfg.Database.URI)
	case config.DriverMongo:
		return migrateMongo(ctx, logger, cfg)
	}

	logger.Info().Str("driver", cfg.Database.Driver).Msg("nothing to migrate")
	return nil
}

func migratePostgres(ctx context.Context, logger *zerolog.Logger, dsn string) error {
	// A single connection is enough for a one-off run.
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

// productIndexes back the default listing order and the company filter.
var productIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}, Options: options.Index().SetName("createdAt_id")},
	{Keys: bson.D{{Key: "company", Value: 1}}, Options: options.Index().SetName("company")},
}

func migrateMongo(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	mdb, err := newMongoDatabase(connectCtx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = mdb.Client().Disconnect(ctx) }()

	names, err := mdb.Collection(ProductsCollection).Indexes().CreateMany(ctx, productIndexes)
	if err != nil {
		return fmt.Errorf("creating product indexes: %w", err)
	}

	logger.Info().Strs("indexes", names).Msg("mongo indexes ensured")
	return nil
}
