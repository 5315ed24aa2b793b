// Package query turns product listing parameters into a ProductQuery that
// every store implementation understands.
//
// The query is rebuilt for every request and never cached.
package query

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/model/product"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit far from overflowing.
	MaxPage = 1_000_000

	// StaticMinPrice is the price floor of the static listing.
	StaticMinPrice = 20
)

// Op is a numeric comparison operator.
type Op string

const (
	OpLT  Op = "lt"
	OpLTE Op = "lte"
	OpEQ  Op = "eq"
	OpGTE Op = "gte"
	OpGT  Op = "gt"
)

// operators is ordered longest symbol first so ">=" is never read as ">".
var operators = []struct {
	symbol string
	op     Op
}{
	{"<=", OpLTE},
	{">=", OpGTE},
	{"<", OpLT},
	{">", OpGT},
	{"=", OpEQ},
}

// numericFields may appear in numericFilters.
var numericFields = []string{product.FieldPrice, product.FieldRating}

// sortFields may appear in sort.
var sortFields = []string{
	product.FieldName,
	product.FieldPrice,
	product.FieldFeature,
	product.FieldRating,
	product.FieldCreatedAt,
	product.FieldCompany,
}

// NumericCondition is one "<field><op><value>" clause.
type NumericCondition struct {
	Field string
	Op    Op
	Value float64
}

// Holds reports whether v satisfies the condition.
func (c NumericCondition) Holds(v float64) bool {
	switch c.Op {
	case OpLT:
		return v < c.Value
	case OpLTE:
		return v <= c.Value
	case OpEQ:
		return v == c.Value
	case OpGTE:
		return v >= c.Value
	case OpGT:
		return v > c.Value
	}
	return false
}

// Filter is a conjunction. Zero values mean "no constraint".
type Filter struct {
	Featured *bool
	Company  string
	Name     string
	Numeric  []NumericCondition
}

type SortField struct {
	Field string
	Desc  bool
}

// ProductQuery is the store-agnostic form of a listing request.
//
// Limit 0 means unlimited. Stores order by Sort (createdAt ascending when
// empty) and break ties on _id.
type ProductQuery struct {
	Filter Filter
	Sort   []SortField
	Fields []string
	Skip   int
	Limit  int
}

// Translate validates the raw listing parameters and builds a ProductQuery.
// Every failure is a 400 carrying a field error for the offending parameter.
func Translate(p *product.ListProductsPayload) (ProductQuery, error) {
	var q ProductQuery

	if p.Featured != "" {
		featured := p.Featured == "true"
		q.Filter.Featured = &featured
	}
	q.Filter.Company = p.Company
	q.Filter.Name = p.Name

	numeric, err := parseNumericFilters(p.NumericFilters)
	if err != nil {
		return ProductQuery{}, err
	}
	q.Filter.Numeric = numeric

	if q.Sort, err = parseSort(p.Sort); err != nil {
		return ProductQuery{}, err
	}

	if q.Fields, err = parseFields(p.Fields); err != nil {
		return ProductQuery{}, err
	}

	page := firstPositive(p.Page, p.BodyPage, DefaultPage)
	if page > MaxPage {
		return ProductQuery{}, errs.NewFieldError("page", fmt.Sprintf("must be less than or equal to %d", MaxPage))
	}
	limit := min(firstPositive(p.Limit, p.BodyLimit, DefaultLimit), MaxLimit)
	q.Skip = (page - 1) * limit
	q.Limit = limit

	return q, nil
}

// Static is the query behind the static listing: every product priced above
// StaticMinPrice, projected to its id, name and price, unpaginated.
func Static() ProductQuery {
	return ProductQuery{
		Filter: Filter{
			Numeric: []NumericCondition{{Field: product.FieldPrice, Op: OpGT, Value: StaticMinPrice}},
		},
		Fields: []string{product.FieldID, product.FieldName, product.FieldPrice},
	}
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseNumericFilters(raw string) ([]NumericCondition, error) {
	var conditions []NumericCondition

	for _, clause := range splitList(raw) {
		cond, err := parseClause(clause)
		if err != nil {
			return nil, errs.NewFieldError("numericFilters", err.Error())
		}
		conditions = append(conditions, cond)
	}

	return conditions, nil
}

func parseClause(clause string) (NumericCondition, error) {
	idx := strings.IndexAny(clause, "<>=")
	if idx <= 0 {
		return NumericCondition{}, fmt.Errorf("%q is not of the form <field><op><number>", clause)
	}

	field := strings.TrimSpace(clause[:idx])
	if !slices.Contains(numericFields, field) {
		return NumericCondition{}, fmt.Errorf("%q cannot be filtered numerically, use one of: %s",
			field, strings.Join(numericFields, ", "))
	}

	rest := clause[idx:]
	for _, o := range operators {
		if !strings.HasPrefix(rest, o.symbol) {
			continue
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(rest[len(o.symbol):]), 64)
		if err != nil {
			return NumericCondition{}, fmt.Errorf("%q does not end in a number", clause)
		}
		return NumericCondition{Field: field, Op: o.op, Value: value}, nil
	}

	return NumericCondition{}, fmt.Errorf("%q has no operator", clause)
}

func parseSort(raw string) ([]SortField, error) {
	var fields []SortField

	for _, item := range splitList(raw) {
		desc := strings.HasPrefix(item, "-")
		name := strings.TrimPrefix(item, "-")
		if !slices.Contains(sortFields, name) {
			return nil, errs.NewFieldError("sort",
				fmt.Sprintf("cannot sort by %q, use one of: %s", name, strings.Join(sortFields, ", ")))
		}
		fields = append(fields, SortField{Field: name, Desc: desc})
	}

	return fields, nil
}

func parseFields(raw string) ([]string, error) {
	var fields []string

	for _, name := range splitList(raw) {
		if !slices.Contains(product.Fields, name) {
			return nil, errs.NewFieldError("fields",
				fmt.Sprintf("unknown field %q, use any of: %s", name, strings.Join(product.Fields, ", ")))
		}
		if !slices.Contains(fields, name) {
			fields = append(fields, name)
		}
	}

	return fields, nil
}

// ------------------------------------------------------------
// In-process evaluation, used by the memory store.

// Matches reports whether p satisfies every constraint of f.
func (f Filter) Matches(p product.Product) bool {
	if f.Featured != nil && p.Feature != *f.Featured {
		return false
	}
	if f.Company != "" && string(p.Company) != f.Company {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}

	for _, cond := range f.Numeric {
		var v float64
		switch cond.Field {
		case product.FieldPrice:
			v = p.Price
		case product.FieldRating:
			v = p.Rating
		}
		if !cond.Holds(v) {
			return false
		}
	}

	return true
}

// Compare orders a and b by sort, falling back to createdAt ascending when
// sort is empty and to the id when everything else ties.
func Compare(a, b product.Product, sort []SortField) int {
	if len(sort) == 0 {
		sort = []SortField{{Field: product.FieldCreatedAt}}
	}

	for _, s := range sort {
		c := compareField(a, b, s.Field)
		if s.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}

	return cmp.Compare(a.ID, b.ID)
}

func compareField(a, b product.Product, field string) int {
	switch field {
	case product.FieldName:
		return cmp.Compare(a.Name, b.Name)
	case product.FieldPrice:
		return cmp.Compare(a.Price, b.Price)
	case product.FieldFeature:
		return cmp.Compare(boolRank(a.Feature), boolRank(b.Feature))
	case product.FieldRating:
		return cmp.Compare(a.Rating, b.Rating)
	case product.FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case product.FieldCompany:
		return cmp.Compare(a.Company, b.Company)
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
