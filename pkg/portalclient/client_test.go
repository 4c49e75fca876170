package portalclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/advisory-portal/internal/session"
)

// fakeAPI mimics the portal API closely enough for client tests.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch req["password"] {
		case "password123":
			writeJSON(w, http.StatusOK, `{"message":"Login successful","token":"good-token","contact":{"id":"1","email":"alice@example.com","role":"Client"}}`)
		case "flood":
			writeJSON(w, http.StatusBadRequest, `{"error":{"code":"RATE_LIMITED","message":"too many requests","details":{"retryAfter":120}}}`)
		default:
			writeJSON(w, http.StatusBadRequest, `{"error":{"code":"INVALID_CREDENTIALS","message":"invalid email or password"}}`)
		}
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			writeJSON(w, http.StatusForbidden, `{"error":{"code":"FORBIDDEN","message":"invalid or expired token"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"id":"1","email":"alice@example.com","role":"Client"}`)
	})
	mux.HandleFunc("/proxy", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			writeJSON(w, http.StatusForbidden, `{"error":{"code":"FORBIDDEN","message":"invalid or expired token"}}`)
			return
		}
		var req struct {
			Path    string          `json:"path"`
			Payload json.RawMessage `json:"payload"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Path == "/missing" {
			writeJSON(w, http.StatusBadRequest, `{"detail":"not found upstream"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"echo":`+string(req.Payload)+`}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LoginStoresToken(t *testing.T) {
	srv := fakeAPI(t)
	store := session.NewMemoryStore()
	c := New(srv.URL, store, WithTimeout(5*time.Second))
	ctx := context.Background()

	assert.False(t, c.Authenticated())
	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	resp, err := c.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "good-token", resp.Token)
	assert.Equal(t, "alice@example.com", resp.Contact.Email)
	assert.True(t, c.Authenticated())

	tok, ok := session.Token(store)
	require.True(t, ok)
	assert.Equal(t, "good-token", tok)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)

	require.NoError(t, c.Logout())
	assert.False(t, c.Authenticated())
}

func TestClient_LoginErrors(t *testing.T) {
	c := New(fakeAPI(t).URL, nil)

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
	assert.False(t, c.Authenticated())

	_, err = c.Login(context.Background(), "alice@example.com", "flood")
	require.True(t, errors.As(err, &apiErr))
	retry, ok := apiErr.RetryAfter()
	assert.True(t, ok)
	assert.Equal(t, 2*time.Minute, retry)
}

func TestClient_ForbiddenClearsSession(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(session.TokenKey, "stale-token"))
	c := New(fakeAPI(t).URL, store)

	_, err := c.Proxy(context.Background(), "/items", "POST", map[string]int{"n": 1})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.False(t, c.Authenticated(), "rejected token must be dropped")
}

func TestClient_Proxy(t *testing.T) {
	c := New(fakeAPI(t).URL, nil)
	ctx := context.Background()
	_, err := c.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	out, err := c.Proxy(ctx, "/items", "POST", map[string]int{"n": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"echo":{"n":1}}`, string(out))

	_, err = c.Proxy(ctx, "/missing", "GET", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, strings.Contains(string(apiErr.Body), "not found upstream"))
	assert.True(t, c.Authenticated(), "upstream errors keep the session")
}

func TestClient_CancelledContext(t *testing.T) {
	c := New(fakeAPI(t).URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Login(ctx, "alice@example.com", "password123")
	assert.ErrorIs(t, err, context.Canceled)
}
