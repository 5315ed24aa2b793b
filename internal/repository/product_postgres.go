package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/query"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// pgProductColumns maps wire field names to select expressions.
var pgProductColumns = map[string]string{
	product.FieldID:        "id::text AS id",
	product.FieldName:      "name",
	product.FieldPrice:     "price",
	product.FieldFeature:   "feature",
	product.FieldRating:    "rating",
	product.FieldCreatedAt: "created_at",
	product.FieldCompany:   "company",
}

// pgOrderColumns maps sortable wire fields to column names.
var pgOrderColumns = map[string]string{
	product.FieldName:      "name",
	product.FieldPrice:     "price",
	product.FieldFeature:   "feature",
	product.FieldRating:    "rating",
	product.FieldCreatedAt: "created_at",
	product.FieldCompany:   "company",
}

var pgOps = map[query.Op]string{
	query.OpLT:  "<",
	query.OpLTE: "<=",
	query.OpEQ:  "=",
	query.OpGTE: ">=",
	query.OpGT:  ">",
}

var allProductColumns = pgSelectList(product.Fields)

type productRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Price     float64   `db:"price"`
	Feature   bool      `db:"feature"`
	Rating    float64   `db:"rating"`
	CreatedAt time.Time `db:"created_at"`
	Company   *string   `db:"company"`
}

func (r productRow) toProduct() product.Product {
	p := product.Product{
		ID:        r.ID,
		Name:      r.Name,
		Price:     r.Price,
		Feature:   r.Feature,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
	}
	if r.Company != nil {
		p.Company = product.Company(*r.Company)
	}
	return p
}

func pgSelectList(fields []string) string {
	if len(fields) == 0 {
		fields = product.Fields
	}

	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, pgProductColumns[f])
	}
	return strings.Join(cols, ", ")
}

// nullableCompany stores the empty company as NULL to satisfy the check constraint.
func nullableCompany(c product.Company) *string {
	if c == "" {
		return nil
	}
	s := string(c)
	return &s
}

// buildProductSelect renders q as a single SELECT with named arguments.
// Only whitelisted identifiers reach the SQL text; values are always bound.
func buildProductSelect(q query.ProductQuery) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	var where []string

	if q.Filter.Featured != nil {
		where = append(where, "feature = @featured")
		args["featured"] = *q.Filter.Featured
	}
	if q.Filter.Company != "" {
		where = append(where, "company = @company")
		args["company"] = q.Filter.Company
	}
	if q.Filter.Name != "" {
		where = append(where, "strpos(lower(name), lower(@name::text)) > 0")
		args["name"] = q.Filter.Name
	}
	for i, cond := range q.Filter.Numeric {
		arg := fmt.Sprintf("n%d", i)
		where = append(where, fmt.Sprintf("%s %s @%s", pgOrderColumns[cond.Field], pgOps[cond.Op], arg))
		args[arg] = cond.Value
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(pgSelectList(q.Fields))
	sb.WriteString(" FROM products")

	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	sort := q.Sort
	if len(sort) == 0 {
		sort = []query.SortField{{Field: product.FieldCreatedAt}}
	}
	order := make([]string, 0, len(sort)+1)
	for _, s := range sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		order = append(order, pgOrderColumns[s.Field]+" "+dir)
	}
	order = append(order, "id ASC")
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(order, ", "))

	if q.Limit > 0 {
		sb.WriteString(" LIMIT @limit")
		args["limit"] = q.Limit
	}
	if q.Skip > 0 {
		sb.WriteString(" OFFSET @skip")
		args["skip"] = q.Skip
	}

	return sb.String(), args
}

type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

func (r *PostgresProductRepository) ListProducts(ctx context.Context, q query.ProductQuery) ([]product.Product, error) {
	stmt, args := buildProductSelect(q)

	rows, err := r.pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, errors.Wrap(err, "select products")
	}

	// Projected queries return a subset of the columns.
	collected, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[productRow])
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}

	products := make([]product.Product, 0, len(collected))
	for _, row := range collected {
		products = append(products, row.toProduct())
	}
	return products, nil
}

func (r *PostgresProductRepository) CreateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	stmt := `
		INSERT INTO products (name, price, feature, rating, created_at, company)
		VALUES (@name, @price, @feature, @rating, @created_at, @company)
		RETURNING ` + allProductColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"name":       p.Name,
		"price":      p.Price,
		"feature":    p.Feature,
		"rating":     p.Rating,
		"created_at": p.CreatedAt,
		"company":    nullableCompany(p.Company),
	})
	if err != nil {
		return nil, errors.Wrap(err, "insert product")
	}

	return collectProduct(rows, "insert product")
}

func (r *PostgresProductRepository) GetProductByID(ctx context.Context, id string) (*product.Product, error) {
	if uuid.Validate(id) != nil {
		return nil, dberr.NotFound("products")
	}

	rows, err := r.pool.Query(ctx, `SELECT `+allProductColumns+` FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, errors.Wrapf(err, "select product %s", id)
	}

	return collectProduct(rows, "select product "+id)
}

func (r *PostgresProductRepository) UpdateProduct(ctx context.Context, id string, update product.Update) (*product.Product, error) {
	if uuid.Validate(id) != nil {
		return nil, dberr.NotFound("products")
	}

	var company *string
	if update.Company != nil {
		company = nullableCompany(*update.Company)
	}

	stmt := `
		UPDATE products
		SET name = COALESCE(@name, name),
			price = COALESCE(@price, price),
			feature = COALESCE(@feature, feature),
			rating = COALESCE(@rating, rating),
			company = COALESCE(@company, company)
		WHERE id = @id
		RETURNING ` + allProductColumns

	rows, err := r.pool.Query(ctx, stmt, pgx.NamedArgs{
		"id":      id,
		"name":    update.Name,
		"price":   update.Price,
		"feature": update.Feature,
		"rating":  update.Rating,
		"company": company,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "update product %s", id)
	}

	return collectProduct(rows, "update product "+id)
}

func (r *PostgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	if uuid.Validate(id) != nil {
		return dberr.NotFound("products")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return errors.Wrapf(err, "delete product %s", id)
	}
	if tag.RowsAffected() == 0 {
		return dberr.NotFound("products")
	}
	return nil
}

// ReplaceAll swaps the catalogue inside one transaction, copying the new
// rows in with COPY.
func (r *PostgresProductRepository) ReplaceAll(ctx context.Context, products []product.Product) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "begin replace products")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, errors.Wrap(err, "delete products")
	}

	columns := []string{"name", "price", "feature", "rating", "created_at", "company"}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"products"}, columns,
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			p := products[i]
			return []any{p.Name, p.Price, p.Feature, p.Rating, p.CreatedAt, nullableCompany(p.Company)}, nil
		}))
	if err != nil {
		return 0, errors.Wrap(err, "copy products")
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "commit replace products")
	}

	return tag.RowsAffected(), nil
}

func collectProduct(rows pgx.Rows, op string) (*product.Product, error) {
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	p := row.toProduct()
	return &p, nil
}
