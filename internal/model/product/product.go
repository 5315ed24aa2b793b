package product

import (
	"strings"
	"time"

	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/validation"
)

// Company is the fixed set of manufacturers a product may belong to.
type Company string

const (
	CompanyIkea    Company = "ikea"
	CompanyLiddy   Company = "liddy"
	CompanyCaressa Company = "caressa"
	CompanyMarcos  Company = "marcos"
)

// Companies lists every supported company in declaration order.
var Companies = []Company{CompanyIkea, CompanyLiddy, CompanyCaressa, CompanyMarcos}

// Valid reports whether c is one of Companies.
func (c Company) Valid() bool {
	for _, known := range Companies {
		if c == known {
			return true
		}
	}
	return false
}

// Defaults applied on creation when the client omits the field.
const (
	DefaultRating  = 4.5
	DefaultFeature = false
)

// Product is a catalogue entry.
type Product struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Feature   bool      `json:"feature"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	Company   Company   `json:"company,omitempty"`
}

// Field names as they appear on the wire. They double as the allow-list for
// sorting and projection.
const (
	FieldID        = "_id"
	FieldName      = "name"
	FieldPrice     = "price"
	FieldFeature   = "feature"
	FieldRating    = "rating"
	FieldCreatedAt = "createdAt"
	FieldCompany   = "company"
)

// Fields is every wire field in document order.
var Fields = []string{FieldID, FieldName, FieldPrice, FieldFeature, FieldRating, FieldCreatedAt, FieldCompany}

// Project renders p with only the given fields. An empty list keeps all of them.
func (p Product) Project(fields []string) map[string]any {
	if len(fields) == 0 {
		fields = Fields
	}

	out := make(map[string]any, len(fields))
	for _, field := range fields {
		switch field {
		case FieldID:
			out[FieldID] = p.ID
		case FieldName:
			out[FieldName] = p.Name
		case FieldPrice:
			out[FieldPrice] = p.Price
		case FieldFeature:
			out[FieldFeature] = p.Feature
		case FieldRating:
			out[FieldRating] = p.Rating
		case FieldCreatedAt:
			out[FieldCreatedAt] = p.CreatedAt
		case FieldCompany:
			if p.Company != "" {
				out[FieldCompany] = p.Company
			}
		}
	}
	return out
}

// ------------------------------------------------------------

type CreateProductPayload struct {
	Name    string   `json:"name" validate:"required"`
	Price   *float64 `json:"price" validate:"required,gte=0"`
	Feature *bool    `json:"feature"`
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Company Company  `json:"company" validate:"omitempty,oneof=ikea liddy caressa marcos"`
}

func (p *CreateProductPayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	return model.Validate.Struct(p)
}

// ToProduct applies creation defaults. The store assigns ID.
func (p *CreateProductPayload) ToProduct(now time.Time) Product {
	product := Product{
		Name:      p.Name,
		Price:     *p.Price,
		Feature:   DefaultFeature,
		Rating:    DefaultRating,
		CreatedAt: now.UTC(),
		Company:   p.Company,
	}
	if p.Feature != nil {
		product.Feature = *p.Feature
	}
	if p.Rating != nil {
		product.Rating = *p.Rating
	}
	return product
}

// ------------------------------------------------------------

type GetProductByIDPayload struct {
	ID string `param:"id" validate:"required"`
}

func (p *GetProductByIDPayload) Validate() error {
	return model.Validate.Struct(p)
}

// ------------------------------------------------------------

// UpdateProductPayload is a partial update: only non-nil fields are applied.
type UpdateProductPayload struct {
	ID      string   `param:"id" json:"-" validate:"required"`
	Name    *string  `json:"name"`
	Price   *float64 `json:"price" validate:"omitempty,gte=0"`
	Feature *bool    `json:"feature"`
	Rating  *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Company *Company `json:"company" validate:"omitempty,oneof=ikea liddy caressa marcos"`
}

func (p *UpdateProductPayload) Validate() error {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		p.Name = &trimmed
		if trimmed == "" {
			return validation.CustomValidationErrors{{Field: "name", Message: "must not be empty"}}
		}
	}

	if p.Name == nil && p.Price == nil && p.Feature == nil && p.Rating == nil && p.Company == nil {
		return validation.CustomValidationErrors{{Field: "body", Message: "provide at least one of: name, price, feature, rating, company"}}
	}

	return model.Validate.Struct(p)
}

// Update is the store-facing form of UpdateProductPayload.
type Update struct {
	Name    *string
	Price   *float64
	Feature *bool
	Rating  *float64
	Company *Company
}

func (p *UpdateProductPayload) ToUpdate() Update {
	return Update{
		Name:    p.Name,
		Price:   p.Price,
		Feature: p.Feature,
		Rating:  p.Rating,
		Company: p.Company,
	}
}

// Apply copies the set fields of u onto p.
func (u Update) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Feature != nil {
		p.Feature = *u.Feature
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.Company != nil {
		p.Company = *u.Company
	}
}

// ------------------------------------------------------------

type DeleteProductPayload struct {
	ID string `param:"id" validate:"required"`
}

func (p *DeleteProductPayload) Validate() error {
	return model.Validate.Struct(p)
}

// ------------------------------------------------------------

// ListProductsPayload carries the raw listing parameters.
//
// Page and limit are read from the query string. Older clients send them in
// a JSON body instead; those values are only used when the query omits them.
type ListProductsPayload struct {
	Featured       string `query:"featured" json:"-"`
	Company        string `query:"company" json:"-"`
	Name           string `query:"name" json:"-"`
	NumericFilters string `query:"numericFilters" json:"-"`
	Sort           string `query:"sort" json:"-"`
	Fields         string `query:"fields" json:"-"`
	Page           int    `query:"page" json:"-" validate:"gte=0,lte=1000000"`
	Limit          int    `query:"limit" json:"-" validate:"gte=0,lte=100"`

	BodyPage  int `json:"page" validate:"gte=0,lte=1000000"`
	BodyLimit int `json:"limit" validate:"gte=0,lte=100"`
}

func (p *ListProductsPayload) Validate() error {
	return model.Validate.Struct(p)
}

// ------------------------------------------------------------

type ListStaticProductsPayload struct{}

func (p *ListStaticProductsPayload) Validate() error {
	return nil
}

// DeletedResponse confirms a delete.
type DeletedResponse struct {
	Message string `json:"message"`
}
