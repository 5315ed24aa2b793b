package handler

import (
	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/query"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	Handler
	productService *service.ProductService
}

func NewProductHandler(s *server.Server, productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		Handler:        NewHandler(s),
		productService: productService,
	}
}

// ListProducts translates the listing parameters and returns the matching
// products, projected when fields is set.
func (h *ProductHandler) ListProducts(c echo.Context, payload *product.ListProductsPayload) ([]map[string]any, error) {
	q, err := query.Translate(payload)
	if err != nil {
		return nil, err
	}

	return h.productService.ListProducts(c.Request().Context(), q)
}

func (h *ProductHandler) ListStaticProducts(c echo.Context, _ *product.ListStaticProductsPayload) ([]map[string]any, error) {
	return h.productService.ListStaticProducts(c.Request().Context())
}

func (h *ProductHandler) CreateProduct(c echo.Context, payload *product.CreateProductPayload) (*product.Product, error) {
	return h.productService.CreateProduct(c.Request().Context(), payload)
}

func (h *ProductHandler) GetProductByID(c echo.Context, payload *product.GetProductByIDPayload) (*product.Product, error) {
	return h.productService.GetProductByID(c.Request().Context(), payload.ID)
}

func (h *ProductHandler) UpdateProduct(c echo.Context, payload *product.UpdateProductPayload) (*product.Product, error) {
	return h.productService.UpdateProduct(c.Request().Context(), payload)
}

func (h *ProductHandler) DeleteProduct(c echo.Context, payload *product.DeleteProductPayload) (*product.DeletedResponse, error) {
	return h.productService.DeleteProduct(c.Request().Context(), payload.ID)
}
