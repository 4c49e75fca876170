package domain

// Project is an engagement shown on the client's projects page.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	StartDate   string `json:"startDate"`
	ExpectedEnd string `json:"expectedEnd"`
}

// Document is an invoice, contract, report or receipt available for download.
type Document struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Date        string   `json:"date"`
	Amount      *float64 `json:"amount,omitempty"`
	Status      string   `json:"status"`
	DownloadURL string   `json:"downloadUrl"`
}

// Case is a legal matter filed on behalf of the client.
type Case struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FiledDate   string `json:"filedDate"`
	Status      string `json:"status"`
	NextHearing string `json:"nextHearing,omitempty"`
	Attorney    string `json:"attorney"`
}

// Investment tracks a client position and its return.
type Investment struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	Invested     string  `json:"invested"`
	CurrentValue float64 `json:"currentValue"`
	ROI          float64 `json:"roi"`
	Status       string  `json:"status"`
}

// LegalResource is a support article or tool offered to clients.
type LegalResource struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
