// Package portal serves the client portal: a navigation shell around nested
// pages, reachable only while a session token is held. The token cookie is
// set by the /auth/register and /auth/login responses.
package portal

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/advisory-portal/internal/api/dto"
	"github.com/spec-kit/advisory-portal/internal/auth"
	"github.com/spec-kit/advisory-portal/internal/config"
	"github.com/spec-kit/advisory-portal/internal/session"
)

// BasePath prefixes every portal route.
const BasePath = "/client"

type page struct {
	title   string
	path    string
	content func(c *fiber.Ctx) any
}

// Shell renders the portal navigation and its pages.
type Shell struct {
	guard  *session.Guard
	cookie string
	pages  []page
}

// NewShell builds the shell for cfg.
func NewShell(cfg config.PortalConfig) *Shell {
	s := &Shell{
		guard:  session.NewGuard(cfg.LoginPath, cfg.CheckTokenExpiry),
		cookie: cfg.TokenCookie,
	}
	if s.cookie == "" {
		s.cookie = session.TokenKey
	}
	s.pages = []page{
		{title: "Dashboard", path: "/dashboard", content: func(*fiber.Ctx) any { return dashboard() }},
		{title: "My Projects", path: "/projects", content: func(*fiber.Ctx) any { return projects() }},
		{title: "Case Filing", path: "/case-filing", content: func(*fiber.Ctx) any { return cases() }},
		{title: "Investments & ROI", path: "/investments", content: func(*fiber.Ctx) any { return investments() }},
		{title: "Invoices & Downloads", path: "/invoices", content: func(*fiber.Ctx) any { return documents() }},
		{title: "Legal Support", path: "/support", content: func(*fiber.Ctx) any { return legalResources() }},
		{title: "Profile & Settings", path: "/profile", content: s.profile},
	}
	return s
}

// Guard is the route guard as fiber middleware. Without a usable token the
// request is redirected to the login path and no page content is produced.
func (s *Shell) Guard() fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := s.guard.Decide(c.Cookies(s.cookie))
		if decision.State == session.Authenticated {
			return c.Next()
		}
		if decision.Expired {
			c.ClearCookie(s.cookie)
		}
		return c.Redirect(decision.Redirect, fiber.StatusFound)
	}
}

// Register mounts the public and protected portal routes on router.
func (s *Shell) Register(router fiber.Router) {
	group := router.Group(BasePath)
	group.Get("/login", s.form("Client Login", "/auth/login"))
	group.Get("/register", s.form("Create Account", "/auth/register"))
	group.Post("/logout", s.logout)

	// The guard is attached per route; a group middleware would also cover
	// the public login and register pages.
	guard := s.Guard()
	group.Get("/", guard, func(c *fiber.Ctx) error {
		return c.Redirect(BasePath+"/dashboard", fiber.StatusFound)
	})
	for _, p := range s.pages {
		p := p
		group.Get(p.path, guard, func(c *fiber.Ctx) error {
			return c.JSON(dto.PageResponse{
				Title:      p.title,
				Path:       BasePath + p.path,
				Navigation: s.Navigation(BasePath + p.path),
				Content:    p.content(c),
			})
		})
	}
}

// Navigation lists the portal pages, marking the one at active.
func (s *Shell) Navigation(active string) []dto.NavItem {
	items := make([]dto.NavItem, 0, len(s.pages))
	for _, p := range s.pages {
		path := BasePath + p.path
		items = append(items, dto.NavItem{Label: p.title, Path: path, Active: path == strings.TrimRight(active, "/")})
	}
	return items
}

func (s *Shell) form(title, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"title":  title,
			"action": action,
			"fields": []string{"email", "password"},
		})
	}
}

func (s *Shell) logout(c *fiber.Ctx) error {
	c.ClearCookie(s.cookie)
	return c.Redirect(s.guard.LoginPath, fiber.StatusSeeOther)
}

// profile shows the claims carried by the caller's own token. They are
// display data only; the API re-verifies the token on every call.
func (s *Shell) profile(c *fiber.Ctx) any {
	claims, err := auth.Peek(c.Cookies(s.cookie))
	if err != nil {
		return dto.ProfileContent{}
	}
	return dto.ProfileContent{Email: claims.Email, Role: claims.Role}
}

func dashboard() dto.DashboardContent {
	var out dto.DashboardContent
	for _, p := range projects() {
		if p.Status == "Active" {
			out.ActiveProjects++
		}
	}
	for _, cs := range cases() {
		if cs.Status != "Resolved" {
			out.OpenCases++
		}
	}
	docs := documents()
	for _, d := range docs {
		if d.Status == "Pending" || d.Status == "Overdue" {
			out.PendingInvoices++
		}
	}
	for _, inv := range investments() {
		out.PortfolioValue += inv.CurrentValue
	}
	out.RecentDocuments = docs[:3]
	return out
}
