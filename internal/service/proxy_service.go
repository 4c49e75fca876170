package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/advisory-portal/internal/config"
	apperrors "github.com/spec-kit/advisory-portal/pkg/util"
)

var allowedProxyMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// UpstreamRequest is a single call to the secondary backend.
type UpstreamRequest struct {
	Method string
	URL    string
	Token  string
	Body   []byte
}

// UpstreamResponse is the raw reply of the secondary backend.
type UpstreamResponse struct {
	Status int
	Body   []byte
}

// Forwarder performs upstream calls.
type Forwarder interface {
	Do(ctx context.Context, req UpstreamRequest) (UpstreamResponse, error)
}

// AgentForwarder sends requests with fiber's fasthttp-based client.
type AgentForwarder struct {
	Timeout time.Duration
}

// Do sends req and returns the upstream status and body. The call is bounded
// by the shorter of Timeout and the deadline on ctx.
func (f AgentForwarder) Do(ctx context.Context, req UpstreamRequest) (UpstreamResponse, error) {
	if err := ctx.Err(); err != nil {
		return UpstreamResponse{}, err
	}
	timeout := f.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return UpstreamResponse{}, context.DeadlineExceeded
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}

	agent := fiber.AcquireAgent()
	r := agent.Request()
	r.Header.SetMethod(req.Method)
	r.SetRequestURI(req.URL)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+req.Token)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if req.Body != nil {
		agent.ContentType(fiber.MIMEApplicationJSON)
		agent.Body(req.Body)
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return UpstreamResponse{}, err
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return UpstreamResponse{}, errors.Join(errs...)
	}
	return UpstreamResponse{Status: status, Body: body}, nil
}

// ProxyService relays authenticated calls to the secondary backend.
type ProxyService struct {
	baseURL   string
	forwarder Forwarder
}

// NewProxyService builds the service. A nil forwarder uses AgentForwarder.
func NewProxyService(cfg config.ProxyConfig, forwarder Forwarder) *ProxyService {
	if forwarder == nil {
		forwarder = AgentForwarder{Timeout: cfg.Timeout()}
	}
	return &ProxyService{baseURL: strings.TrimRight(cfg.UpstreamURL, "/"), forwarder: forwarder}
}

// Forward sends payload to path on the upstream with the caller's bearer
// token attached. A 2xx reply is returned verbatim; any other status becomes
// an upstream error carrying the upstream body.
func (s *ProxyService) Forward(ctx context.Context, token, path, method string, payload json.RawMessage) (UpstreamResponse, error) {
	if s.baseURL == "" {
		return UpstreamResponse{}, apperrors.NewInternalError(errors.New("proxy upstream not configured"))
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodPost
	}
	if _, ok := allowedProxyMethods[method]; !ok {
		return UpstreamResponse{}, apperrors.NewValidationError("unsupported method", map[string]any{"method": method})
	}
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.Contains(path, "://") {
		return UpstreamResponse{}, apperrors.NewValidationError("path must be an absolute upstream path", map[string]any{"path": path})
	}

	req := UpstreamRequest{Method: method, URL: s.baseURL + path, Token: token}
	if method != http.MethodGet && len(payload) > 0 {
		req.Body = payload
	}

	resp, err := s.forwarder.Do(ctx, req)
	if err != nil {
		return UpstreamResponse{}, apperrors.NewInternalError(fmt.Errorf("proxy %s %s: %w", method, path, err))
	}
	if !json.Valid(resp.Body) {
		return UpstreamResponse{}, apperrors.NewInternalError(fmt.Errorf("proxy %s %s: upstream returned non-JSON body", method, path))
	}
	if resp.Status < 200 || resp.Status > 299 {
		return UpstreamResponse{}, apperrors.NewUpstreamError(resp.Status, resp.Body)
	}
	return resp, nil
}
