package portal

import "github.com/spec-kit/advisory-portal/internal/domain"

// Mock content shown until the portal pages are backed by the practice's
// own systems. Each call returns a fresh copy.

func projects() []domain.Project {
	return []domain.Project{
		{ID: "1", Name: "Blockchain Advisory - Phase 1", Description: "Technical due diligence and infrastructure assessment", Status: "Active", Progress: 65, StartDate: "Dec 1, 2024", ExpectedEnd: "Mar 15, 2025"},
		{ID: "2", Name: "RWA Tokenization Strategy", Description: "Real world asset tokenization protocol development", Status: "Active", Progress: 45, StartDate: "Dec 10, 2024", ExpectedEnd: "Apr 30, 2025"},
		{ID: "3", Name: "Mining Infrastructure Audit", Description: "Infrastructure validation and compliance check", Status: "Completed", Progress: 100, StartDate: "Oct 15, 2024", ExpectedEnd: "Nov 30, 2024"},
	}
}

func documents() []domain.Document {
	return []domain.Document{
		{ID: "1", Name: "Invoice - Blockchain Advisory Q1 2025", Type: "Invoice", Date: "Jan 5, 2025", Amount: amount(25000), Status: "Paid", DownloadURL: "#"},
		{ID: "2", Name: "Service Agreement - RWA Tokenization", Type: "Contract", Date: "Dec 20, 2024", Status: "Pending", DownloadURL: "#"},
		{ID: "3", Name: "Quarterly Report - Q4 2024", Type: "Report", Date: "Dec 15, 2024", Status: "Paid", DownloadURL: "#"},
		{ID: "4", Name: "Invoice - Mining Infrastructure Support", Type: "Invoice", Date: "Dec 10, 2024", Amount: amount(15000), Status: "Paid", DownloadURL: "#"},
		{ID: "5", Name: "Payment Receipt - November 2024", Type: "Receipt", Date: "Dec 1, 2024", Amount: amount(10000), Status: "Paid", DownloadURL: "#"},
		{ID: "6", Name: "Invoice - Legal Support Services", Type: "Invoice", Date: "Nov 25, 2024", Amount: amount(8500), Status: "Overdue", DownloadURL: "#"},
	}
}

func cases() []domain.Case {
	return []domain.Case{
		{ID: "1", Title: "Contract Dispute - ABC Corp", Description: "Dispute over service delivery contract terms", FiledDate: "Nov 20, 2024", Status: "In Progress", NextHearing: "Jan 15, 2025", Attorney: "Sarah Mitchell, Esq."},
		{ID: "2", Title: "Regulatory Compliance Review", Description: "SEC compliance review for blockchain operations", FiledDate: "Dec 1, 2024", Status: "Pending", NextHearing: "Jan 22, 2025", Attorney: "James Chen, Esq."},
	}
}

func investments() []domain.Investment {
	return []domain.Investment{
		{ID: "1", Name: "Blockchain Infrastructure Fund", Type: "Equity Investment", Amount: 100000, Invested: "Aug 15, 2024", CurrentValue: 145230, ROI: 45.23, Status: "Active"},
		{ID: "2", Name: "RWA Tokenization Project", Type: "Project Investment", Amount: 50000, Invested: "Oct 1, 2024", CurrentValue: 58750, ROI: 17.50, Status: "Active"},
		{ID: "3", Name: "Mining Operations Support", Type: "Infrastructure Investment", Amount: 75000, Invested: "May 20, 2024", CurrentValue: 92100, ROI: 22.80, Status: "Active"},
	}
}

func legalResources() []domain.LegalResource {
	return []domain.LegalResource{
		{ID: "1", Title: "Mining Regulatory Compliance Guide", Description: "Comprehensive guide to mining operations and regulatory requirements", Category: "Compliance"},
		{ID: "2", Title: "Contract Templates", Description: "Pre-reviewed contract templates for blockchain operations", Category: "Templates"},
		{ID: "3", Title: "Risk Assessment Tools", Description: "Tools to assess legal and operational risks in your projects", Category: "Tools"},
		{ID: "4", Title: "Regulatory Updates", Description: "Latest updates on blockchain and mining regulations", Category: "News"},
		{ID: "5", Title: "Insurance Guide", Description: "Information about insurance options for blockchain operations", Category: "Insurance"},
		{ID: "6", Title: "IP Protection", Description: "Intellectual property protection strategies for blockchain projects", Category: "IP Law"},
	}
}

func amount(v float64) *float64 { return &v }
