package api

import (
	"context"
	"net/http"

	"github.com/themikhailova/niti/domain"
)

type userEnvelope struct {
	User domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Me probes the session and returns the authenticated identity, or a 401
// *Error when no valid session exists.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

// Login authenticates and persists the resulting session cookies.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var env userEnvelope
	err := c.do(ctx, http.MethodPost, "/auth/login", credentials{Username: username, Password: password}, &env)
	if err != nil {
		return nil, err
	}
	c.PersistSession()
	return &env.User, nil
}

// Register creates an account. The server does not log the new account in;
// callers follow up with Login.
func (c *Client) Register(ctx context.Context, username, password string) error {
	var msg messageResponse
	return c.do(ctx, http.MethodPost, "/auth/register", credentials{Username: username, Password: password}, &msg)
}

// Logout ends the server session and drops the persisted cookies.
func (c *Client) Logout(ctx context.Context) error {
	var msg messageResponse
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, &msg)
	c.DropSession()
	return err
}
