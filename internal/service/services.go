// Package service holds the business rules between handlers and repositories:
// token issuing, product projection, catalogue seeding and the mapping of
// store errors to client errors.
package service

import (
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/deppfellow/storefront/internal/server"
)

type Services struct {
	Auth    *AuthService
	Task    *TaskService
	Product *ProductService
	Seed    *SeedService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Auth:    NewAuthService(s),
		Task:    NewTaskService(s, repos.Tasks),
		Product: NewProductService(s, repos.Products),
		Seed:    NewSeedService(s, repos.Products),
	}
}

// exposeErrors reports whether driver messages may reach the client.
func exposeErrors(s *server.Server) bool {
	return !s.Config.IsProduction()
}
