package handler

import (
	"fmt"
	"math/rand/v2"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/middleware"
	"github.com/deppfellow/storefront/internal/model/auth"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Handler
	authService *service.AuthService

	// luckyNumber picks the number shown on the dashboard, in [0,100).
	luckyNumber func() int
}

func NewAuthHandler(s *server.Server, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler:     NewHandler(s),
		authService: authService,
		luckyNumber: func() int { return rand.IntN(100) },
	}
}

func (h *AuthHandler) Login(c echo.Context, payload *auth.LoginPayload) (*auth.LoginResponse, error) {
	logger := middleware.GetLogger(c)

	resp, err := h.authService.Login(payload)
	if err != nil {
		logger.Error().Err(err).Msg("failed to issue token")
		return nil, errs.NewInternalServerError()
	}

	logger.Info().Str("username", payload.Username).Msg("token issued")
	return resp, nil
}

// Dashboard greets the user set by RequireAuth.
func (h *AuthHandler) Dashboard(c echo.Context, _ *auth.DashboardPayload) (*auth.DashboardResponse, error) {
	return &auth.DashboardResponse{
		Msg:    "Hello," + middleware.GetUsername(c),
		Secret: fmt.Sprintf("Here is your authorized data, you can use the given number to login %d", h.luckyNumber()),
	}, nil
}
