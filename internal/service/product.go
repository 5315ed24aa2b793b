package service

import (
	"context"
	"time"

	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/query"
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/deppfellow/storefront/internal/server"
)

const (
	ProductNotFoundMessage = "No Product Found"
	ProductDeletedMessage  = "Product Deleted Successfully"
)

type ProductService struct {
	server *server.Server
	repo   repository.ProductRepository
	now    func() time.Time
}

func NewProductService(s *server.Server, repo repository.ProductRepository) *ProductService {
	return &ProductService{server: s, repo: repo, now: time.Now}
}

func (s *ProductService) fail(err error) error {
	return dberr.HandleError(err, ProductNotFoundMessage, exposeErrors(s.server))
}

// ListProducts returns the matching products, each projected to q.Fields.
func (s *ProductService) ListProducts(ctx context.Context, q query.ProductQuery) ([]map[string]any, error) {
	products, err := s.repo.ListProducts(ctx, q)
	if err != nil {
		return nil, s.fail(err)
	}

	out := make([]map[string]any, 0, len(products))
	for _, p := range products {
		out = append(out, p.Project(q.Fields))
	}
	return out, nil
}

func (s *ProductService) ListStaticProducts(ctx context.Context) ([]map[string]any, error) {
	return s.ListProducts(ctx, query.Static())
}

func (s *ProductService) CreateProduct(ctx context.Context, payload *product.CreateProductPayload) (*product.Product, error) {
	created, err := s.repo.CreateProduct(ctx, payload.ToProduct(s.now()))
	if err != nil {
		return nil, s.fail(err)
	}
	return created, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return p, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, payload *product.UpdateProductPayload) (*product.Product, error) {
	updated, err := s.repo.UpdateProduct(ctx, payload.ID, payload.ToUpdate())
	if err != nil {
		return nil, s.fail(err)
	}
	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*product.DeletedResponse, error) {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return nil, s.fail(err)
	}
	return &product.DeletedResponse{Message: ProductDeletedMessage}, nil
}
