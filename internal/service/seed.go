package service

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"
)

var (
	//go:embed seed/products.schema.json
	catalogueSchema []byte

	//go:embed seed/products.json
	sampleCatalogue []byte
)

// SampleCatalogue returns the built-in product catalogue.
func SampleCatalogue() []byte {
	return sampleCatalogue
}

type seedProduct struct {
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Feature   *bool      `json:"feature"`
	Rating    *float64   `json:"rating"`
	CreatedAt *time.Time `json:"createdAt"`
	Company   string     `json:"company"`
}

// SeedResult summarises a populate run.
type SeedResult struct {
	Deleted  int64
	Inserted int
}

// SeedService replaces the product catalogue with the contents of a JSON file.
type SeedService struct {
	server *server.Server
	repo   repository.ProductRepository
	schema *gojsonschema.Schema
	now    func() time.Time
}

func NewSeedService(s *server.Server, repo repository.ProductRepository) *SeedService {
	return &SeedService{server: s, repo: repo, now: time.Now}
}

func (s *SeedService) compiledSchema() (*gojsonschema.Schema, error) {
	if s.schema == nil {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(catalogueSchema))
		if err != nil {
			return nil, fmt.Errorf("compile catalogue schema: %w", err)
		}
		s.schema = schema
	}
	return s.schema, nil
}

// Parse validates data against the catalogue schema and decodes it,
// applying the same defaults as product creation.
func (s *SeedService) Parse(data []byte) ([]product.Product, error) {
	schema, err := s.compiledSchema()
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("invalid catalogue: %s", strings.Join(problems, "; "))
	}

	var items []seedProduct
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}

	now := s.now().UTC()
	products := make([]product.Product, 0, len(items))
	for i, item := range items {
		p := product.Product{
			Name:    item.Name,
			Price:   item.Price,
			Feature: product.DefaultFeature,
			Rating:  product.DefaultRating,
			// Spread default timestamps so file order is the listing order.
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
			Company:   product.Company(item.Company),
		}
		if item.Feature != nil {
			p.Feature = *item.Feature
		}
		if item.Rating != nil {
			p.Rating = *item.Rating
		}
		if item.CreatedAt != nil {
			p.CreatedAt = item.CreatedAt.UTC()
		}
		products = append(products, p)
	}

	return products, nil
}

// Populate deletes every product and inserts the catalogue in data.
func (s *SeedService) Populate(ctx context.Context, data []byte) (*SeedResult, error) {
	products, err := s.Parse(data)
	if err != nil {
		return nil, err
	}

	deleted, err := s.repo.ReplaceAll(ctx, products)
	if err != nil {
		return nil, dberr.HandleError(err, ProductNotFoundMessage, true)
	}

	s.server.Logger.Info().
		Int64("deleted", deleted).
		Int("inserted", len(products)).
		Msg("product catalogue populated")

	return &SeedResult{Deleted: deleted, Inserted: len(products)}, nil
}
