package summarize

import (
	"time"

	"newsletter-digest-go/internal/llm"
)

// LinkMention is a link the model called out inside a section.
type LinkMention struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

// SectionSummary is one section of a single newsletter's summary.
type SectionSummary struct {
	Heading string        `json:"heading"`
	Summary string        `json:"summary"`
	Links   []LinkMention `json:"links,omitempty"`
}

// SummaryResult is the per-newsletter summary. ParseError marks a
// degraded result built from unparseable model output; Error marks a
// failed call. Both are still real results: a batch never aborts on
// one bad newsletter.
type SummaryResult struct {
	ID         uint             `json:"id,omitempty"`
	SenderName string           `json:"sender_name,omitempty"`
	Title      string           `json:"title"`
	Summary    string           `json:"summary"`
	KeyPoints  []string         `json:"key_points"`
	Sections   []SectionSummary `json:"sections"`

	AIGenerated bool   `json:"ai_generated"`
	ParseError  bool   `json:"parse_error,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewsletterLine is one newsletter's one-sentence contribution inside
// a category rollup.
type NewsletterLine struct {
	SenderName string `json:"sender_name"`
	OneLiner   string `json:"one_liner"`
}

// CategorySummary is the combined summary of all newsletters that
// share a category.
type CategorySummary struct {
	Category string `json:"category"`
	Label    string `json:"label"`

	Summary     string           `json:"summary"`
	KeyPoints   []string         `json:"key_points"`
	Newsletters []NewsletterLine `json:"newsletters"`

	NewsletterCount int  `json:"newsletter_count"`
	AIGenerated     bool `json:"ai_generated"`
	ParseError      bool `json:"parse_error,omitempty"`
}

// Theme is one cross-newsletter theme with the senders that covered it.
type Theme struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Sources     []string `json:"sources"`
}

// ThemeReport ties the day's summaries together. It is empty when
// there were fewer than two newsletters to compare.
type ThemeReport struct {
	Themes    []Theme `json:"themes"`
	Synthesis string  `json:"synthesis"`
}

// DigestResult is the full output of one summarization run.
type DigestResult struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Summaries   map[string][]SummaryResult `json:"summaries"`
	Categories  []CategorySummary          `json:"categories"`
	Themes      ThemeReport                `json:"themes"`
	Usage       *llm.UsageStats            `json:"usage"`
}
