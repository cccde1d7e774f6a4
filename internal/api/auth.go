package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nikolayk812/pos-demo/internal/domain"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token   string
	Message string
	User    domain.User
}

type userDTO struct {
	ID        int64       `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Phone     json.Number `json:"phone"`
	Role      string      `json:"role"`
}

type settingsDTO struct {
	Currency          string  `json:"currency"`
	OrganizationName  string  `json:"organization_name"`
	Location          string  `json:"location"`
	OrganizationEmail string  `json:"organization_email"`
	OrganizationPhone string  `json:"organization_phone"`
	TIN               *string `json:"TIN"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if creds.Email == "" {
		return LoginResult{}, fmt.Errorf("email is empty")
	}

	var resp struct {
		Message string  `json:"message"`
		Token   string  `json:"token"`
		User    userDTO `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, creds, &resp); err != nil {
		return LoginResult{}, fmt.Errorf("c.do: %w", err)
	}

	if resp.Token == "" {
		return LoginResult{}, fmt.Errorf("login response has no token")
	}

	return LoginResult{
		Token:   resp.Token,
		Message: resp.Message,
		User: domain.User{
			ID:        resp.User.ID,
			FirstName: resp.User.FirstName,
			LastName:  resp.User.LastName,
			Email:     resp.User.Email,
			Phone:     resp.User.Phone.String(),
			Role:      resp.User.Role,
		},
	}, nil
}

func (c *Client) Settings(ctx context.Context) (domain.Settings, error) {
	var resp struct {
		Setting settingsDTO `json:"setting"`
	}
	if err := c.do(ctx, http.MethodGet, "settings/get", nil, nil, &resp); err != nil {
		return domain.Settings{}, fmt.Errorf("c.do: %w", err)
	}

	s := resp.Setting
	settings := domain.Settings{
		Currency:          s.Currency,
		OrganizationName:  s.OrganizationName,
		Location:          s.Location,
		OrganizationEmail: s.OrganizationEmail,
		OrganizationPhone: s.OrganizationPhone,
	}
	if s.TIN != nil {
		settings.TIN = *s.TIN
	}

	return settings, nil
}
