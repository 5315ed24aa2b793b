// Package repository handles all interactions with the store.
//
// Every resource has one interface and one implementation per driver
// (mongo, postgres, memory). Implementations report a missing or
// malformed id as dberr.ErrNotFound and wrap driver failures with
// pkg/errors; services map both onto HTTP errors.
package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/storefront/internal/config"
	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/deppfellow/storefront/internal/query"
	"github.com/deppfellow/storefront/internal/server"
)

type TaskRepository interface {
	ListTasks(ctx context.Context) ([]task.Task, error)
	CreateTask(ctx context.Context, payload *task.CreateTaskPayload) (*task.Task, error)
	GetTaskByID(ctx context.Context, id string) (*task.Task, error)
	UpdateTask(ctx context.Context, id string, update task.Update) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type ProductRepository interface {
	ListProducts(ctx context.Context, q query.ProductQuery) ([]product.Product, error)
	CreateProduct(ctx context.Context, p product.Product) (*product.Product, error)
	GetProductByID(ctx context.Context, id string) (*product.Product, error)
	UpdateProduct(ctx context.Context, id string, update product.Update) (*product.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// ReplaceAll deletes every product and inserts products in their place.
	// It returns how many products were deleted.
	ReplaceAll(ctx context.Context, products []product.Product) (int64, error)
}

// Repositories is a container for all repository instances.
type Repositories struct {
	Tasks    TaskRepository
	Products ProductRepository
}

// NewRepositories builds the repositories matching the active store driver.
func NewRepositories(s *server.Server) (*Repositories, error) {
	switch s.Config.Database.Driver {
	case config.DriverMongo:
		return &Repositories{
			Tasks:    NewMongoTaskRepository(s.DB.Mongo),
			Products: NewMongoProductRepository(s.DB.Mongo),
		}, nil
	case config.DriverPostgres:
		return &Repositories{
			Tasks:    NewPostgresTaskRepository(s.DB.Pool),
			Products: NewPostgresProductRepository(s.DB.Pool),
		}, nil
	case config.DriverMemory:
		return &Repositories{
			Tasks:    NewMemoryTaskRepository(),
			Products: NewMemoryProductRepository(),
		}, nil
	}

	return nil, fmt.Errorf("no repositories for driver %q", s.Config.Database.Driver)
}
