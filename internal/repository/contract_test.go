package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/model/task"
	"github.com/deppfellow/storefront/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every driver runs the same contract. malformedID must be an id the
// driver cannot parse; missingID a well-formed id that does not exist.

func testTaskRepository(t *testing.T, repo TaskRepository, missingID string) {
	ctx := context.Background()

	done := true
	created, err := repo.CreateTask(ctx, &task.CreateTaskPayload{Name: "write tests", Completed: &done})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "write tests", created.Name)
	require.NotNil(t, created.Completed)
	assert.True(t, *created.Completed)

	open, err := repo.CreateTask(ctx, &task.CreateTaskPayload{Name: "ship"})
	require.NoError(t, err)
	assert.Nil(t, open.Completed)

	got, err := repo.GetTaskByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	all, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []string{created.ID, open.ID}, []string{all[0].ID, all[1].ID}, "tasks list in insertion order")

	rename := "write more tests"
	updated, err := repo.UpdateTask(ctx, created.ID, task.Update{Name: &rename})
	require.NoError(t, err)
	assert.Equal(t, rename, updated.Name)
	require.NotNil(t, updated.Completed)
	assert.True(t, *updated.Completed, "fields absent from the update are kept")

	require.NoError(t, repo.DeleteTask(ctx, created.ID))

	for _, id := range []string{created.ID, missingID, "not-an-id"} {
		_, err = repo.GetTaskByID(ctx, id)
		assert.Equal(t, http.StatusNotFound, notFoundStatus(err), id)

		_, err = repo.UpdateTask(ctx, id, task.Update{Name: &rename})
		assert.Equal(t, http.StatusNotFound, notFoundStatus(err), id)

		err = repo.DeleteTask(ctx, id)
		assert.Equal(t, http.StatusNotFound, notFoundStatus(err), id)
	}
}

func testProductRepository(t *testing.T, repo ProductRepository, missingID string) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	seed := []product.Product{
		{Name: "accent chair", Price: 25.99, Rating: 4, Feature: true, CreatedAt: base, Company: product.CompanyIkea},
		{Name: "albany table", Price: 309.99, Rating: 5, CreatedAt: base.Add(time.Hour), Company: product.CompanyMarcos},
		{Name: "bar stool", Price: 40.99, Rating: 4.5, CreatedAt: base.Add(2 * time.Hour), Company: product.CompanyLiddy},
		{Name: "wooden bed", Price: 15, Rating: 3, CreatedAt: base.Add(3 * time.Hour)},
	}
	_, err := repo.ReplaceAll(ctx, seed)
	require.NoError(t, err)

	all, err := repo.ListProducts(ctx, query.ProductQuery{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "accent chair", all[0].Name, "default order is createdAt ascending")
	assert.Equal(t, "wooden bed", all[3].Name)
	assert.Empty(t, all[3].Company)

	numeric, err := repo.ListProducts(ctx, query.ProductQuery{Filter: query.Filter{Numeric: []query.NumericCondition{
		{Field: product.FieldPrice, Op: query.OpGT, Value: 20},
		{Field: product.FieldRating, Op: query.OpLTE, Value: 4},
	}}})
	require.NoError(t, err)
	require.Len(t, numeric, 1)
	assert.Equal(t, "accent chair", numeric[0].Name)

	featured := true
	byFlags, err := repo.ListProducts(ctx, query.ProductQuery{Filter: query.Filter{Featured: &featured, Company: "ikea", Name: "CHAIR"}})
	require.NoError(t, err)
	require.Len(t, byFlags, 1)

	literal, err := repo.ListProducts(ctx, query.ProductQuery{Filter: query.Filter{Name: "a.*"}})
	require.NoError(t, err)
	assert.Empty(t, literal)

	sorted, err := repo.ListProducts(ctx, query.ProductQuery{Sort: []query.SortField{{Field: product.FieldPrice, Desc: true}}})
	require.NoError(t, err)
	assert.Equal(t, "albany table", sorted[0].Name)
	assert.Equal(t, "wooden bed", sorted[3].Name)

	page, err := repo.ListProducts(ctx, query.ProductQuery{Skip: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "albany table", page[0].Name)
	assert.Equal(t, "bar stool", page[1].Name)

	projected, err := repo.ListProducts(ctx, query.ProductQuery{Fields: []string{product.FieldName, product.FieldPrice}})
	require.NoError(t, err)
	require.Len(t, projected, 4)
	assert.Equal(t, map[string]any{"name": "accent chair", "price": 25.99}, projected[0].Project([]string{"name", "price"}))

	created, err := repo.CreateProduct(ctx, product.Product{Name: "sofa", Price: 99, Rating: 4.5, CreatedAt: base.Add(4*time.Hour + 123456789*time.Nanosecond)})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "sofa", got.Name)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))

	price := 120.0
	company := product.CompanyCaressa
	updated, err := repo.UpdateProduct(ctx, created.ID, product.Update{Price: &price, Company: &company})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Price)
	assert.Equal(t, product.CompanyCaressa, updated.Company)
	assert.Equal(t, "sofa", updated.Name)

	require.NoError(t, repo.DeleteProduct(ctx, created.ID))

	for _, id := range []string{created.ID, missingID, "not-an-id"} {
		_, err = repo.GetProductByID(ctx, id)
		assert.Equal(t, http.StatusNotFound, notFoundStatus(err), id)

		_, err = repo.UpdateProduct(ctx, id, product.Update{Price: &price})
		assert.Equal(t, http.StatusNotFound, notFoundStatus(err), id)

		assert.Equal(t, http.StatusNotFound, notFoundStatus(repo.DeleteProduct(ctx, id)), id)
	}

	deleted, err := repo.ReplaceAll(ctx, seed[:1])
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}

// notFoundStatus is the HTTP status the services would answer err with.
func notFoundStatus(err error) int {
	var httpErr *errs.HTTPError
	if errors.As(dberr.HandleError(err, "gone", false), &httpErr) {
		return httpErr.Status
	}
	return 0
}
