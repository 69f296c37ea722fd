package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sensesdx/portalkit/core"
)

// CreateUser registers a new account. The API answers 201 with the
// created record.
func (c *Client) CreateUser(ctx context.Context, input core.CreateUserInput) (*core.User, error) {
	status, body, err := c.do(ctx, http.MethodPost, PathSignup, nil, input)
	if err != nil {
		return nil, err
	}
	var user core.User
	if err := c.expect(status, body, http.StatusCreated, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SetPassword sets credentials for a freshly created administrator.
func (c *Client) SetPassword(ctx context.Context, input core.SetPasswordInput) error {
	status, body, err := c.do(ctx, http.MethodPost, PathSetPassword, nil, input)
	if err != nil {
		return err
	}
	return c.expect(status, body, http.StatusCreated, nil)
}

// UpdateStatus toggles an account's isActive flag. Accounts are never
// deleted through this client.
func (c *Client) UpdateStatus(ctx context.Context, id string, isActive bool) (*core.User, error) {
	q := url.Values{}
	q.Set("isActive", strconv.FormatBool(isActive))

	status, body, err := c.do(ctx, http.MethodPatch, expandPath(PathUserStatus, id), q, nil)
	if err != nil {
		return nil, err
	}
	var user core.User
	if err := c.expect(status, body, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes an account's name and email.
func (c *Client) UpdateUser(ctx context.Context, input core.UpdateUserInput) (*core.User, error) {
	status, body, err := c.do(ctx, http.MethodPatch, expandPath(PathUser, input.ID), nil, input)
	if err != nil {
		return nil, err
	}
	var user core.User
	if err := c.expect(status, body, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
