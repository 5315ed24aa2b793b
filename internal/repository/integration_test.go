package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/deppfellow/storefront/internal/database"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoreSuite runs the repository contract against real Mongo and Postgres
// containers. It is skipped with -short or when Docker is unavailable.
type StoreSuite struct {
	suite.Suite

	containers []testcontainers.Container
	mongoURI   string
	pgURI      string
}

func TestStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) startContainer(req testcontainers.ContainerRequest, port string) string {
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.containers = append(s.containers, c)

	host, err := c.Host(ctx)
	s.Require().NoError(err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	s.Require().NoError(err)

	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

func (s *StoreSuite) SetupSuite() {
	mongoAddr := s.startContainer(testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	}, "27017")
	s.mongoURI = "mongodb://" + mongoAddr

	pgAddr := s.startContainer(testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "storefront",
			"POSTGRES_PASSWORD": "storefront",
			"POSTGRES_DB":       "storefront",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}, "5432")
	s.pgURI = fmt.Sprintf("postgres://storefront:storefront@%s/storefront?sslmode=disable", pgAddr)
}

func (s *StoreSuite) TearDownSuite() {
	for _, c := range s.containers {
		_ = c.Terminate(context.Background())
	}
}

// open connects a fresh store. Mongo gets its own database per test;
// Postgres is migrated and truncated.
func (s *StoreSuite) open(driver string) *database.Database {
	ctx := context.Background()
	logger := zerolog.Nop()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Database: config.DatabaseConfig{
			Driver:         driver,
			ConnectTimeout: 30 * time.Second,
			MaxConns:       4,
		},
	}

	switch driver {
	case config.DriverMongo:
		cfg.Database.URI = s.mongoURI
		cfg.Database.Name = "test_" + primitive.NewObjectID().Hex()
	case config.DriverPostgres:
		cfg.Database.URI = s.pgURI
	}

	s.Require().NoError(database.Migrate(ctx, &logger, cfg))

	db, err := database.New(ctx, cfg, &logger, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close(context.Background()) })

	if db.Pool != nil {
		_, err := db.Pool.Exec(ctx, "TRUNCATE tasks, products")
		s.Require().NoError(err)
	}

	return db
}

func (s *StoreSuite) TestMongoTasks() {
	db := s.open(config.DriverMongo)
	testTaskRepository(s.T(), NewMongoTaskRepository(db.Mongo), primitive.NewObjectID().Hex())
}

func (s *StoreSuite) TestMongoProducts() {
	db := s.open(config.DriverMongo)
	testProductRepository(s.T(), NewMongoProductRepository(db.Mongo), primitive.NewObjectID().Hex())
}

func (s *StoreSuite) TestPostgresTasks() {
	db := s.open(config.DriverPostgres)
	testTaskRepository(s.T(), NewPostgresTaskRepository(db.Pool), uuid.NewString())
}

func (s *StoreSuite) TestPostgresProducts() {
	db := s.open(config.DriverPostgres)
	testProductRepository(s.T(), NewPostgresProductRepository(db.Pool), uuid.NewString())
}

func (s *StoreSuite) TestPostgresMigrateIsIdempotent() {
	logger := zerolog.Nop()
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: config.DriverPostgres, URI: s.pgURI}}

	require.NoError(s.T(), database.Migrate(context.Background(), &logger, cfg))
	require.NoError(s.T(), database.Migrate(context.Background(), &logger, cfg))
}
