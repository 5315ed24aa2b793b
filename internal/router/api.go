package router

import (
	"net/http"

	"github.com/deppfellow/storefront/internal/handler"
	"github.com/deppfellow/storefront/internal/middleware"
	"github.com/labstack/echo/v4"
)

func registerTaskRoutes(api *echo.Group, h *handler.Handlers) {
	tasks := api.Group("/tasks")

	tasks.GET("", handler.Handle(h.Task.Handler, h.Task.ListTasks, http.StatusOK))
	tasks.POST("", handler.Handle(h.Task.Handler, h.Task.CreateTask, http.StatusCreated))
	tasks.GET("/:id", handler.Handle(h.Task.Handler, h.Task.GetTaskByID, http.StatusOK))
	tasks.PATCH("/:id", handler.Handle(h.Task.Handler, h.Task.UpdateTask, http.StatusOK))
	tasks.DELETE("/:id", handler.Handle(h.Task.Handler, h.Task.DeleteTask, http.StatusOK))
}

func registerProductRoutes(api *echo.Group, h *handler.Handlers) {
	store := api.Group("/store")

	store.GET("", handler.Handle(h.Product.Handler, h.Product.ListProducts, http.StatusOK))
	store.POST("", handler.Handle(h.Product.Handler, h.Product.CreateProduct, http.StatusCreated))
	store.GET("/static", handler.Handle(h.Product.Handler, h.Product.ListStaticProducts, http.StatusOK))
	store.GET("/:id", handler.Handle(h.Product.Handler, h.Product.GetProductByID, http.StatusOK))
	store.PATCH("/:id", handler.Handle(h.Product.Handler, h.Product.UpdateProduct, http.StatusOK))
	store.DELETE("/:id", handler.Handle(h.Product.Handler, h.Product.DeleteProduct, http.StatusOK))
}

func registerAuthRoutes(api *echo.Group, h *handler.Handlers, middlewares *middleware.Middlewares) {
	api.POST("/login", handler.Handle(h.Auth.Handler, h.Auth.Login, http.StatusOK), middlewares.RateLimit.LoginLimiter())
	api.GET("/dashboard", handler.Handle(h.Auth.Handler, h.Auth.Dashboard, http.StatusOK), middlewares.Auth.RequireAuth)
}
