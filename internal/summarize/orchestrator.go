package summarize

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"newsletter-digest-go/internal/llm"
	"newsletter-digest-go/internal/model"
)

// Completer is the language model surface the orchestrator needs.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (llm.Completion, error)
	Model() string
}

const (
	summaryMaxTokens = 2000
	themeMaxTokens   = 1500

	// minThemeInputs is the smallest number of summaries worth a
	// cross-newsletter synthesis call.
	minThemeInputs = 2
)

// Orchestrator drives the three summarization stages over a batch of
// stored newsletters: per-newsletter summaries, per-category rollups,
// and a cross-category theme report.
type Orchestrator struct {
	client Completer

	// labels maps a category key to its display name.
	labels func(category string) string

	newsletterDelay time.Duration
	categoryDelay   time.Duration

	// sleep paces calls between API requests; injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPacing sets the delay between per-newsletter calls and between
// category rollups.
func WithPacing(newsletterDelay, categoryDelay time.Duration) Option {
	return func(o *Orchestrator) {
		o.newsletterDelay = newsletterDelay
		o.categoryDelay = categoryDelay
	}
}

// WithLabels sets the category display-name lookup.
func WithLabels(labels func(category string) string) Option {
	return func(o *Orchestrator) {
		o.labels = labels
	}
}

func NewOrchestrator(client Completer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:          client,
		labels:          func(category string) string { return category },
		newsletterDelay: 5 * time.Second,
		categoryDelay:   60 * time.Second,
		sleep:           sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes all three stages over records grouped by category and
// returns the full digest. Individual failures degrade the affected
// entry; only context cancellation aborts the run.
func (o *Orchestrator) Run(ctx context.Context, recordsByCategory map[string][]*model.Newsletter) (*DigestResult, error) {
	usage := llm.NewUsageStats()
	result := &DigestResult{
		GeneratedAt: time.Now().UTC(),
		Summaries:   make(map[string][]SummaryResult),
		Usage:       usage,
	}

	categories := make([]string, 0, len(recordsByCategory))
	for category := range recordsByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var allSummaries []SummaryResult
	for i, category := range categories {
		if i > 0 {
			if err := o.sleep(ctx, o.categoryDelay); err != nil {
				return nil, err
			}
		}

		records := recordsByCategory[category]
		logrus.Infof("Summarizing category %s (%d newsletters)", category, len(records))

		summaries := make([]SummaryResult, 0, len(records))
		for j, rec := range records {
			if j > 0 {
				if err := o.sleep(ctx, o.newsletterDelay); err != nil {
					return nil, err
				}
			}
			summary := o.SummarizeNewsletter(ctx, rec, usage)
			summaries = append(summaries, summary)
			if !summary.ParseError && summary.Error == "" {
				allSummaries = append(allSummaries, summary)
			}
		}
		result.Summaries[category] = summaries

		rollup := o.SummarizeCategory(ctx, category, records, usage)
		result.Categories = append(result.Categories, rollup)
	}

	themes, err := o.SynthesizeThemes(ctx, allSummaries, usage)
	if err != nil {
		return nil, err
	}
	result.Themes = themes

	logrus.Infof("Summarization run complete: %d API calls, %d in / %d out tokens, $%.4f",
		usage.APICalls, usage.TotalInputTokens, usage.TotalOutputTokens, usage.TotalCost)
	return result, nil
}

// SummarizeNewsletter produces the per-newsletter summary. Model
// output that fails to parse degrades to a raw-text result; a failed
// call yields a placeholder. Neither is an error to the caller.
func (o *Orchestrator) SummarizeNewsletter(ctx context.Context, rec *model.Newsletter, usage *llm.UsageStats) SummaryResult {
	prompt := newsletterPrompt(rec.SenderName, rec.Subject, recordContent(rec))

	completion, err := o.client.Complete(ctx, prompt, summaryMaxTokens)
	if err != nil {
		logrus.Errorf("Summary call failed for newsletter %d (%s): %v", rec.ID, rec.SenderName, err)
		return SummaryResult{
			ID:          rec.ID,
			SenderName:  rec.SenderName,
			Title:       rec.Subject,
			Summary:     "Failed to generate AI summary",
			KeyPoints:   []string{},
			Sections:    []SectionSummary{},
			AIGenerated: false,
			Error:       err.Error(),
		}
	}
	usage.Record(o.client.Model(), completion.Usage)

	var parsed SummaryResult
	if err := json.Unmarshal([]byte(stripFences(completion.Text)), &parsed); err != nil {
		logrus.Errorf("Failed to parse summary response as JSON: %v", err)
		return SummaryResult{
			ID:          rec.ID,
			SenderName:  rec.SenderName,
			Title:       rec.Subject,
			Summary:     truncate(completion.Text, 500),
			KeyPoints:   []string{},
			Sections:    []SectionSummary{},
			AIGenerated: true,
			ParseError:  true,
		}
	}

	parsed.ID = rec.ID
	parsed.SenderName = rec.SenderName
	parsed.AIGenerated = true
	if parsed.Title == "" {
		parsed.Title = rec.Subject
	}
	return parsed
}

// SummarizeCategory combines all of a category's newsletters into one
// rollup. An empty category returns a fixed result without calling
// the model.
func (o *Orchestrator) SummarizeCategory(ctx context.Context, category string, records []*model.Newsletter, usage *llm.UsageStats) CategorySummary {
	label := o.labels(category)
	rollup := CategorySummary{
		Category:        category,
		Label:           label,
		KeyPoints:       []string{},
		Newsletters:     []NewsletterLine{},
		NewsletterCount: len(records),
		AIGenerated:     true,
	}

	if len(records) == 0 {
		rollup.Summary = "No newsletters in this category."
		return rollup
	}

	completion, err := o.client.Complete(ctx, categoryPrompt(label, records), summaryMaxTokens)
	if err != nil {
		logrus.Errorf("Category summary failed for %s: %v", category, err)
		rollup.Summary = "Failed to generate category summary"
		rollup.AIGenerated = false
		return rollup
	}
	usage.Record(o.client.Model(), completion.Usage)

	var parsed CategorySummary
	if err := json.Unmarshal([]byte(stripFences(completion.Text)), &parsed); err != nil {
		logrus.Errorf("Failed to parse category summary JSON for %s: %v", category, err)
		rollup.Summary = truncate(completion.Text, 1000)
		rollup.ParseError = true
		return rollup
	}

	rollup.Summary = parsed.Summary
	if parsed.KeyPoints != nil {
		rollup.KeyPoints = parsed.KeyPoints
	}
	if parsed.Newsletters != nil {
		rollup.Newsletters = parsed.Newsletters
	}
	return rollup
}

// SynthesizeThemes finds the threads running across the day's
// summaries. Fewer than two summaries is nothing to cross-reference,
// so the report stays empty without a model call.
func (o *Orchestrator) SynthesizeThemes(ctx context.Context, summaries []SummaryResult, usage *llm.UsageStats) (ThemeReport, error) {
	if len(summaries) < minThemeInputs {
		return ThemeReport{}, nil
	}

	summariesJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return ThemeReport{}, err
	}

	completion, err := o.client.Complete(ctx, themePrompt(string(summariesJSON)), themeMaxTokens)
	if err != nil {
		logrus.Errorf("Theme synthesis failed: %v", err)
		return ThemeReport{}, nil
	}
	usage.Record(o.client.Model(), completion.Usage)

	var report ThemeReport
	if err := json.Unmarshal([]byte(stripFences(completion.Text)), &report); err != nil {
		logrus.Errorf("Failed to parse theme report JSON: %v", err)
		// Keep the prose even when the structure is lost.
		return ThemeReport{Synthesis: strings.TrimSpace(completion.Text)}, nil
	}
	return report, nil
}

// stripFences unwraps model output wrapped in markdown code fences.
// Unfenced output passes through unchanged.
func stripFences(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}
	return strings.TrimSpace(text)
}
