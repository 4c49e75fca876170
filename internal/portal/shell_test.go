package portal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/advisory-portal/internal/api/dto"
	"github.com/spec-kit/advisory-portal/internal/auth"
	"github.com/spec-kit/advisory-portal/internal/config"
	"github.com/spec-kit/advisory-portal/internal/domain"
)

func newPortalApp(checkExpiry bool) *fiber.App {
	app := fiber.New()
	NewShell(config.PortalConfig{
		LoginPath:        "/client/login",
		TokenCookie:      "token",
		CheckTokenExpiry: checkExpiry,
	}).Register(app)
	return app
}

func issueToken(t *testing.T, issuedAt time.Time) string {
	t.Helper()
	tok, _, err := auth.NewTokenManager("secret", 30*time.Minute).
		WithClock(func() time.Time { return issuedAt }).
		Issue("acc-1", "alice@example.com", domain.RoleClient)
	require.NoError(t, err)
	return tok
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGuardRedirectsWithoutToken(t *testing.T) {
	app := newPortalApp(true)
	for _, path := range []string{"/client", "/client/dashboard", "/client/projects", "/client/profile"} {
		resp := get(t, app, path, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/client/login", resp.Header.Get("Location"), path)
	}
}

func TestPublicPagesSkipGuard(t *testing.T) {
	app := newPortalApp(true)
	for _, path := range []string{"/client/login", "/client/register"} {
		resp := get(t, app, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestProtectedPageRendersShell(t *testing.T) {
	app := newPortalApp(true)
	resp := get(t, app, "/client/invoices", issueToken(t, time.Now()))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Title      string            `json:"title"`
		Navigation []dto.NavItem     `json:"navigation"`
		Content    []domain.Document `json:"content"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invoices & Downloads", body.Title)
	assert.Len(t, body.Navigation, 7)
	assert.Len(t, body.Content, 6)

	var active []string
	for _, item := range body.Navigation {
		if item.Active {
			active = append(active, item.Path)
		}
	}
	assert.Equal(t, []string{"/client/invoices"}, active)
}

func TestExpiredToken(t *testing.T) {
	expired := issueToken(t, time.Now().Add(-time.Hour))

	t.Run("checked locally", func(t *testing.T) {
		resp := get(t, newPortalApp(true), "/client/dashboard", expired)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/client/login", resp.Header.Get("Location"))
	})

	t.Run("presence only", func(t *testing.T) {
		resp := get(t, newPortalApp(false), "/client/dashboard", expired)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestProfileShowsTokenClaims(t *testing.T) {
	resp := get(t, newPortalApp(true), "/client/profile", issueToken(t, time.Now()))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Content dto.ProfileContent `json:"content"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alice@example.com", body.Content.Email)
	assert.Equal(t, domain.RoleClient, body.Content.Role)
}

func TestLogoutClearsCookie(t *testing.T) {
	app := newPortalApp(true)
	req := httptest.NewRequest(http.MethodPost, "/client/logout", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: issueToken(t, time.Now())})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/client/login", resp.Header.Get("Location"))
	var cleared bool
	for _, ck := range resp.Cookies() {
		if ck.Name == "token" && ck.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestDashboardSummary(t *testing.T) {
	d := dashboard()
	assert.Equal(t, 2, d.ActiveProjects)
	assert.Equal(t, 2, d.OpenCases)
	assert.Equal(t, 2, d.PendingInvoices)
	assert.InDelta(t, 296080.0, d.PortfolioValue, 0.001)
	assert.Len(t, d.RecentDocuments, 3)
}
