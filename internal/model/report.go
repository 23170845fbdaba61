package model

import "time"

// Report is the complete output for one analysed message
type Report struct {
	ID         string           `json:"id"`                // Random UUID per analysis
	Source     string           `json:"source"`            // File path, "stdin" or "http"
	AnalyzedAt time.Time        `json:"analyzed_at"`       // When the analysis ran
	Message    *MessageInfo     `json:"message,omitempty"` // Header data; at least the subject
	Record     ExtractionRecord `json:"record"`            // Extracted facts
	Lookups    []CompanyLookup  `json:"lookups,omitempty"` // Companies House links, one per distinct registration number
	Cached     bool             `json:"cached,omitempty"`  // Record served from cache
}

// MessageInfo carries the mail-item properties shown alongside the facts
type MessageInfo struct {
	Subject     string   `json:"subject,omitempty"`
	From        string   `json:"from,omitempty"`
	Date        string   `json:"date,omitempty"`
	Attachments []string `json:"attachments,omitempty"` // "name (content type)"
}

// CompanyLookup pairs a raw registration number with its public register URL
type CompanyLookup struct {
	RegistrationNumber string `json:"registration_number"`
	URL                string `json:"url"`
}
