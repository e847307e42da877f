package api

import (
	"context"

	"github.com/jrsteele09/go-credits-portal/routes"
	"github.com/jrsteele09/go-credits-portal/users"
)

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	req := LoginRequest{Email: users.NormalizeEmail(email), Password: password}
	if err := c.post(ctx, routes.APIAuthLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The backend answers with a confirmation
// message; the email must be confirmed before login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	req.Email = users.NormalizeEmail(req.Email)
	var out message
	if err := c.post(ctx, routes.APIAuthRegister, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ConfirmEmail(ctx context.Context, token string) error {
	return c.post(ctx, routes.APIAuthConfirmEmail, map[string]string{"token": token}, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, routes.APIAuthForgot, map[string]string{"email": users.NormalizeEmail(email)}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.post(ctx, routes.APIAuthResetPassword, map[string]string{"token": token, "password": password}, nil)
}

func (c *Client) Profile(ctx context.Context) (*users.User, error) {
	var u users.User
	if err := c.get(ctx, routes.APIProfile, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*users.User, error) {
	var u users.User
	if err := c.put(ctx, routes.APIProfile, update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
