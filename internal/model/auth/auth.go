package auth

import (
	"strings"

	"github.com/deppfellow/storefront/internal/model"
)

type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (p *LoginPayload) Validate() error {
	p.Username = strings.TrimSpace(p.Username)
	return model.Validate.Struct(p)
}

type LoginResponse struct {
	Msg   string `json:"msg"`
	Token string `json:"token"`
}

type DashboardPayload struct{}

func (p *DashboardPayload) Validate() error {
	return nil
}

type DashboardResponse struct {
	Msg    string `json:"msg"`
	Secret string `json:"secret"`
}
