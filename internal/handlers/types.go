package handlers

import (
	"time"

	"newsletter-digest-go/internal/model"
	"newsletter-digest-go/internal/validate"
)

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Metrics   map[string]string `json:"metrics"`
}

// NewsletterSummary is the list-view projection of a stored record
type NewsletterSummary struct {
	ID               uint      `json:"id"`
	Owner            string    `json:"owner"`
	SenderName       string    `json:"sender_name"`
	SenderEmail      string    `json:"sender_email"`
	Subject          string    `json:"subject"`
	Title            string    `json:"title"`
	Platform         string    `json:"platform"`
	Category         string    `json:"category"`
	ReceivedAt       time.Time `json:"received_at"`
	ParsingSucceeded bool      `json:"parsing_succeeded"`
	NeedsReview      bool      `json:"needs_review"`
}

// NewsletterDetail adds the parsed content to the list projection
type NewsletterDetail struct {
	NewsletterSummary
	ParsedContent string          `json:"parsed_content"`
	Sections      []model.Section `json:"sections"`
	Links         []model.Link    `json:"links"`
	Images        []string        `json:"images"`
}

// ExtractRequest is the on-demand extraction body
type ExtractRequest struct {
	SenderEmail string `json:"sender_email"`
	HTML        string `json:"html" binding:"required"`
}

// ExtractResponse is the on-demand extraction result
type ExtractResponse struct {
	Platform    string          `json:"platform"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Sections    []model.Section `json:"sections"`
	Links       []model.Link    `json:"links"`
	Images      []string        `json:"images"`
	NeedsReview bool            `json:"needs_review"`
	Valid       bool            `json:"valid"`
	Checks      validate.Checks `json:"checks"`
}

// SummarizeRequest selects the stored records to summarize
type SummarizeRequest struct {
	Owner     string `json:"owner"`
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Limit     int    `json:"limit"`
}

func summaryOf(n *model.Newsletter) NewsletterSummary {
	return NewsletterSummary{
		ID:               n.ID,
		Owner:            n.Owner,
		SenderName:       n.SenderName,
		SenderEmail:      n.SenderEmail,
		Subject:          n.Subject,
		Title:            n.Title,
		Platform:         n.Platform,
		Category:         n.Category,
		ReceivedAt:       n.ReceivedAt,
		ParsingSucceeded: n.ParsingSucceeded,
		NeedsReview:      n.NeedsReview,
	}
}
