package service

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/query"
	"github.com/deppfellow/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductServiceCreateAppliesDefaults(t *testing.T) {
	svc := NewProductService(newTestServer(t, "development"), repository.NewMemoryProductRepository())
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	price := 10.0
	created, err := svc.CreateProduct(context.Background(), &product.CreateProductPayload{Name: "lamp", Price: &price})
	require.NoError(t, err)

	assert.Equal(t, product.DefaultRating, created.Rating)
	assert.False(t, created.Feature)
	assert.Equal(t, fixed, created.CreatedAt)
}

func TestProductServiceListProjects(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	_, err := repo.ReplaceAll(context.Background(), []product.Product{
		{Name: "cheap", Price: 5},
		{Name: "pricey", Price: 50},
	})
	require.NoError(t, err)

	svc := NewProductService(newTestServer(t, "development"), repo)

	listed, err := svc.ListProducts(context.Background(), query.ProductQuery{Fields: []string{"name"}})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, p := range listed {
		assert.Len(t, p, 1)
		assert.Contains(t, p, "name")
	}

	static, err := svc.ListStaticProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, static, 1)
	assert.Equal(t, "pricey", static[0]["name"])
	assert.Contains(t, static[0], "_id")
	assert.NotContains(t, static[0], "rating")
}
