package dto

import "github.com/spec-kit/advisory-portal/internal/domain"

// NavItem is one entry of the portal navigation.
type NavItem struct {
	Label  string `json:"label"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// PageResponse is the shell around every protected portal page.
type PageResponse struct {
	Title      string    `json:"title"`
	Path       string    `json:"path"`
	Navigation []NavItem `json:"navigation"`
	Content    any       `json:"content"`
}

// DashboardContent summarizes the client's activity.
type DashboardContent struct {
	ActiveProjects  int               `json:"activeProjects"`
	OpenCases       int               `json:"openCases"`
	PendingInvoices int               `json:"pendingInvoices"`
	PortfolioValue  float64           `json:"portfolioValue"`
	RecentDocuments []domain.Document `json:"recentDocuments"`
}

// ProfileContent is the client's own view of their contact details.
type ProfileContent struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
