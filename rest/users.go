package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sensesdx/portalkit/core"
)

// Login authenticates an operator by phone and password. The API
// answers 201 with the access token and profile.
func (c *Client) Login(ctx context.Context, input core.LoginInput) (*core.LoginResult, error) {
	status, body, err := c.do(ctx, http.MethodPost, PathLogin, nil, input)
	if err != nil {
		return nil, err
	}
	var result core.LoginResult
	if err := c.expect(status, body, http.StatusCreated, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUsers lists accounts with the given role. Safe to call repeatedly.
func (c *Client) GetUsers(ctx context.Context, role string) ([]core.User, error) {
	q := url.Values{}
	q.Set("role", role)

	status, body, err := c.do(ctx, http.MethodGet, PathUsers, q, nil)
	if err != nil {
		return nil, err
	}
	var users []core.User
	if err := c.expect(status, body, http.StatusOK, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ForgotPassword asks the API to send a reset link to the account
// behind the phone number.
func (c *Client) ForgotPassword(ctx context.Context, phone string) error {
	status, body, err := c.do(ctx, http.MethodPost, PathForgotPassword, nil, map[string]string{"phone": phone})
	if err != nil {
		return err
	}
	return c.expect(status, body, http.StatusCreated, nil)
}

// ResetPassword completes a reset flow started by ForgotPassword.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	payload := map[string]string{"token": token, "password": password}
	status, body, err := c.do(ctx, http.MethodPost, PathResetPassword, nil, payload)
	if err != nil {
		return err
	}
	return c.expect(status, body, http.StatusCreated, nil)
}
