// Package portalclient is a Go client for the portal API. It keeps the
// session token in a session.Store and drops it once the server rejects it.
package portalclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/advisory-portal/internal/api/dto"
	"github.com/spec-kit/advisory-portal/internal/session"
)

// ErrNoSession is returned by authenticated calls when no token is stored.
var ErrNoSession = errors.New("portalclient: no session token")

// APIError is a non-success reply of the API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
	// Body is the raw reply, relevant for relayed upstream errors.
	Body []byte
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("portalclient: status %d", e.Status)
	}
	return fmt.Sprintf("portalclient: %s (%d): %s", e.Code, e.Status, e.Message)
}

// RetryAfter returns the server's retry guidance for rate limited calls.
func (e *APIError) RetryAfter() (time.Duration, bool) {
	v, ok := e.Details["retryAfter"].(float64)
	if !ok {
		return 0, false
	}
	return time.Duration(v) * time.Second, true
}

// Client talks to the portal API.
type Client struct {
	baseURL string
	store   session.Store
	timeout time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New returns a client for baseURL keeping its token in store. A nil store
// keeps the token in memory.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	if store == nil {
		store = session.NewMemoryStore()
	}
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), store: store, timeout: 15 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether a token is currently stored.
func (c *Client) Authenticated() bool {
	_, ok := session.Token(c.store)
	return ok
}

// Register creates an account and stores the issued token.
func (c *Client) Register(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", dto.RegisterRequest{Email: email, Password: password})
}

// Login verifies credentials and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", dto.LoginRequest{Email: email, Password: password})
}

// Logout forgets the stored token.
func (c *Client) Logout() error {
	return c.store.Remove(session.TokenKey)
}

// Me returns the account behind the stored token.
func (c *Client) Me(ctx context.Context) (*dto.AccountResponse, error) {
	var out dto.AccountResponse
	status, body, err := c.authorized(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	if err := decode(status, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Proxy relays a call to the secondary backend and returns its raw JSON reply.
func (c *Client) Proxy(ctx context.Context, path, method string, payload any) (json.RawMessage, error) {
	req := dto.ProxyRequest{Path: path, Method: method}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		req.Payload = raw
	}
	status, body, err := c.authorized(ctx, http.MethodPost, "/proxy", req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, apiError(status, body)
	}
	return json.RawMessage(body), nil
}

func (c *Client) authenticate(ctx context.Context, path string, req any) (*dto.AuthResponse, error) {
	status, body, err := c.send(ctx, http.MethodPost, path, "", req)
	if err != nil {
		return nil, err
	}
	var out dto.AuthResponse
	if err := decode(status, body, &out); err != nil {
		return nil, err
	}
	if err := c.store.Set(session.TokenKey, out.Token); err != nil {
		return nil, fmt.Errorf("store session token: %w", err)
	}
	return &out, nil
}

// authorized sends an authenticated call. A 403 means the token is no longer
// accepted, so it is removed and the client becomes unauthenticated.
func (c *Client) authorized(ctx context.Context, method, path string, req any) (int, []byte, error) {
	token, ok := session.Token(c.store)
	if !ok {
		return 0, nil, ErrNoSession
	}
	status, body, err := c.send(ctx, method, path, token, req)
	if err != nil {
		return 0, nil, err
	}
	if status == http.StatusForbidden {
		if rmErr := c.store.Remove(session.TokenKey); rmErr != nil {
			return 0, nil, errors.Join(apiError(status, body), rmErr)
		}
		return 0, nil, apiError(status, body)
	}
	return status, body, nil
}

func (c *Client) send(ctx context.Context, method, path, token string, req any) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	agent := fiber.AcquireAgent()
	r := agent.Request()
	r.Header.SetMethod(method)
	r.SetRequestURI(c.baseURL + path)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if req != nil {
		agent.JSON(req)
	}
	agent.Timeout(c.callTimeout(ctx))

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return 0, nil, err
	}
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, nil, errors.Join(errs...)
	}
	return status, body, nil
}

func (c *Client) callTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}
	return timeout
}

func decode(status int, body []byte, out any) error {
	if status < 200 || status > 299 {
		return apiError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}
	var env dto.ErrorResponse
	if json.Unmarshal(body, &env) == nil {
		e.Code = env.Error.Code
		e.Message = env.Error.Message
		e.Details = env.Error.Details
	}
	return e
}
