package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"newsletter-digest-go/internal/classify"
	"newsletter-digest-go/internal/extract"
	"newsletter-digest-go/internal/mailsource"
	"newsletter-digest-go/internal/model"
	"newsletter-digest-go/internal/platform"
	"newsletter-digest-go/internal/validate"
)

// Store is the subset of the persistence layer ingestion needs.
type Store interface {
	ExistsByScopedID(scopedID string) (bool, error)
	Create(n *model.Newsletter) error
}

// Stats summarizes one ingestion run. Batch operations always return
// stats, never a bare error, except when listing itself fails.
type Stats struct {
	TotalFetched  int            `json:"total_fetched"`
	AlreadyExists int            `json:"already_exists"`
	NewlyParsed   int            `json:"newly_parsed"`
	ParseErrors   int            `json:"parse_errors"`
	ByCategory    map[string]int `json:"by_category"`
}

// Options selects the query window and result cap for one run.
// Exactly one of TargetDate or LookbackDays is honored: a non-zero
// TargetDate wins and is translated to a half-open day interval.
type Options struct {
	TargetDate   time.Time
	LookbackDays int
	MaxResults   int64
}

// Coordinator drives one ingestion run: list, dedup, fetch, extract,
// validate, classify, persist.
type Coordinator struct {
	source     mailsource.Source
	store      Store
	classifier *classify.Classifier
	label      string

	// now is the ingestion clock; injectable for tests.
	now func() time.Time
}

func NewCoordinator(source mailsource.Source, store Store, classifier *classify.Classifier, label string) *Coordinator {
	return &Coordinator{
		source:     source,
		store:      store,
		classifier: classifier,
		label:      label,
		now:        time.Now,
	}
}

// Ingest fetches messages for the owner within the query window and
// persists each new one as a normalized record. A failing message is
// counted and skipped; only a listing failure aborts the run.
func (c *Coordinator) Ingest(ctx context.Context, owner string, opts Options) (Stats, error) {
	stats := Stats{ByCategory: make(map[string]int)}

	query := c.buildQuery(opts)

	refs, err := c.source.List(ctx, query, opts.MaxResults)
	if err != nil {
		return stats, fmt.Errorf("failed to list messages: %w", err)
	}
	stats.TotalFetched = len(refs)

	normalizedOwner := model.NormalizeOwner(owner)
	logrus.Infof("Ingesting %d candidate messages for owner %s", len(refs), normalizedOwner)

	for _, ref := range refs {
		scopedID := model.ScopedID(owner, ref.ID)

		exists, err := c.store.ExistsByScopedID(scopedID)
		if err != nil {
			logrus.Errorf("Dedup check failed for %s: %v", scopedID, err)
			stats.ParseErrors++
			continue
		}
		if exists {
			stats.AlreadyExists++
			continue
		}

		record, err := c.processMessage(ctx, normalizedOwner, scopedID, ref.ID)
		if err != nil {
			logrus.Errorf("Failed to process message %s: %v", ref.ID, err)
			stats.ParseErrors++
			continue
		}

		if err := c.store.Create(record); err != nil {
			logrus.Errorf("Failed to persist message %s: %v", ref.ID, err)
			stats.ParseErrors++
			continue
		}

		stats.NewlyParsed++
		stats.ByCategory[record.Category]++
	}

	logrus.Infof("Ingestion complete: %d new, %d existing, %d errors",
		stats.NewlyParsed, stats.AlreadyExists, stats.ParseErrors)
	return stats, nil
}

func (c *Coordinator) buildQuery(opts Options) mailsource.Query {
	query := mailsource.Query{Label: c.label}

	if !opts.TargetDate.IsZero() {
		day := opts.TargetDate.UTC().Truncate(24 * time.Hour)
		query.After = day
		query.Before = day.Add(24 * time.Hour)
		return query
	}

	lookback := opts.LookbackDays
	if lookback <= 0 {
		lookback = 1
	}
	query.After = c.now().AddDate(0, 0, -lookback)
	return query
}

func (c *Coordinator) processMessage(ctx context.Context, owner, scopedID, messageID string) (*model.Newsletter, error) {
	msg, err := c.source.Get(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	senderName, senderEmail := mailsource.ParseSender(msg.Headers["From"])
	subject := msg.Headers["Subject"]
	if subject == "" {
		subject = "No Subject"
	}
	rawDate := msg.Headers["Date"]

	record := &model.Newsletter{
		ScopedID:    scopedID,
		Owner:       owner,
		SenderName:  senderName,
		SenderEmail: senderEmail,
		Subject:     subject,
		RawDate:     rawDate,
		ReceivedAt:  c.resolveReceivedAt(rawDate, messageID),
		Category:    c.classifier.Classify(senderName, senderEmail),
	}

	if msg.HTMLBody == "" {
		// Nothing extractable: record the failure but keep the row so
		// the message is not refetched on every run.
		logrus.Warnf("No HTML body found for message %s", messageID)
		record.Platform = string(platform.Unknown)
		record.Title = subject
		record.ParsingSucceeded = false
		record.NeedsReview = true
		record.SetExtraMetadata(map[string]string{"error": "no HTML content found"})
		return record, nil
	}

	detected := platform.Detect(senderEmail, msg.HTMLBody)
	result := extract.Extract(detected, msg.HTMLBody)
	valid, _ := validate.Validate(result.Content)

	record.Platform = string(detected)
	record.RawHTML = msg.HTMLBody
	record.ParsedContent = result.Content
	record.Title = result.Title
	if record.Title == "" {
		record.Title = subject
	}
	record.SetSections(result.Sections)
	record.SetLinks(result.Links)
	record.SetImages(result.Images)
	record.SetExtraMetadata(result.Metadata)
	record.ParsingSucceeded = true
	record.NeedsReview = result.NeedsReview || !valid

	return record, nil
}

// resolveReceivedAt parses the message's own date header into UTC.
// On parse failure the ingestion clock at this message's processing
// moment is substituted.
func (c *Coordinator) resolveReceivedAt(rawDate, messageID string) time.Time {
	parsed, err := mailsource.ParseDate(rawDate)
	if err != nil {
		logrus.Warnf("Could not parse date for message %s: %v", messageID, err)
		return c.now().UTC()
	}
	return parsed
}
