package api

import (
	"context"
	"net/url"

	"github.com/jrsteele09/go-credits-portal/routes"
	"github.com/jrsteele09/go-credits-portal/users"
)

func (c *Client) ListUsers(ctx context.Context) ([]*users.User, error) {
	var out []*users.User
	if err := c.get(ctx, routes.APIAdminUsers, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, routes.APIAdminUsers+"/"+url.PathEscape(id))
}

func (c *Client) ListAdmins(ctx context.Context) ([]*users.User, error) {
	var out []*users.User
	if err := c.get(ctx, routes.APIAdminAdmins, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAdmin(ctx context.Context, req AdminRequest) (*users.User, error) {
	req.Email = users.NormalizeEmail(req.Email)
	var out users.User
	if err := c.post(ctx, routes.APIAdminAdmins, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePackage(ctx context.Context, p Package) (*Package, error) {
	var out Package
	if err := c.post(ctx, routes.APIAdminPackages, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePackage(ctx context.Context, id string) error {
	return c.delete(ctx, routes.APIAdminPackages+"/"+url.PathEscape(id))
}
