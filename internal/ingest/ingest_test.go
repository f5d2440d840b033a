package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-digest-go/internal/classify"
	"newsletter-digest-go/internal/mailsource"
	"newsletter-digest-go/internal/model"
)

type fakeSource struct {
	messages map[string]mailsource.RawMessage
	order    []string
	getErrs  map[string]error
	listErr  error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		messages: make(map[string]mailsource.RawMessage),
		getErrs:  make(map[string]error),
	}
}

func (f *fakeSource) add(msg mailsource.RawMessage) {
	f.messages[msg.ID] = msg
	f.order = append(f.order, msg.ID)
}

func (f *fakeSource) List(ctx context.Context, query mailsource.Query, maxResults int64) ([]mailsource.Ref, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var refs []mailsource.Ref
	for _, id := range f.order {
		refs = append(refs, mailsource.Ref{ID: id})
	}
	return refs, nil
}

func (f *fakeSource) Get(ctx context.Context, id string) (mailsource.RawMessage, error) {
	if err := f.getErrs[id]; err != nil {
		return mailsource.RawMessage{}, err
	}
	return f.messages[id], nil
}

func (f *fakeSource) Close() error { return nil }

type fakeStore struct {
	records   map[string]*model.Newsletter
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*model.Newsletter)}
}

func (f *fakeStore) ExistsByScopedID(scopedID string) (bool, error) {
	_, ok := f.records[scopedID]
	return ok, nil
}

func (f *fakeStore) Create(n *model.Newsletter) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records[n.ScopedID] = n
	return nil
}

func cleanMessage(id, from, subject string) mailsource.RawMessage {
	body := "<h1>Title</h1><p>" +
		strings.Repeat("This issue covers strategy and aggregation theory in depth. ", 4) +
		"</p>"
	return mailsource.RawMessage{
		ID: id,
		Headers: map[string]string{
			"From":    from,
			"Subject": subject,
			"Date":    "Mon, 12 Jan 2026 08:30:00 -0500",
		},
		HTMLBody: body,
	}
}

func newTestCoordinator(source mailsource.Source, store Store) *Coordinator {
	return NewCoordinator(source, store, classify.New(), "newsletters")
}

func TestIngestIdempotentDedup(t *testing.T) {
	source := newFakeSource()
	source.add(cleanMessage("msg-1", "Ben Thompson <news@stratechery.com>", "Weekly Article"))
	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	first, err := coord.Ingest(context.Background(), "alice@example.com", Options{LookbackDays: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, first.NewlyParsed)
	assert.Equal(t, 0, first.AlreadyExists)

	second, err := coord.Ingest(context.Background(), "alice@example.com", Options{LookbackDays: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, second.NewlyParsed)
	assert.Equal(t, 1, second.AlreadyExists)

	assert.Len(t, store.records, 1)
}

func TestIngestOwnerPartitioning(t *testing.T) {
	source := newFakeSource()
	source.add(cleanMessage("msg-1", "Ben Thompson <news@stratechery.com>", "Weekly Article"))
	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	_, err := coord.Ingest(context.Background(), "alice@example.com", Options{LookbackDays: 1})
	require.NoError(t, err)
	_, err = coord.Ingest(context.Background(), "bob@example.com", Options{LookbackDays: 1})
	require.NoError(t, err)

	// The same source message yields one record per owner.
	assert.Len(t, store.records, 2)
	assert.Contains(t, store.records, "alice@example.com:msg-1")
	assert.Contains(t, store.records, "bob@example.com:msg-1")
}

func TestIngestEmptyOwnerUsesDefaultSentinel(t *testing.T) {
	source := newFakeSource()
	source.add(cleanMessage("msg-1", "Ben Thompson <news@stratechery.com>", "Weekly Article"))
	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	_, err := coord.Ingest(context.Background(), "  ", Options{LookbackDays: 1})
	require.NoError(t, err)

	require.Contains(t, store.records, model.DefaultOwner+":msg-1")
	assert.Equal(t, model.DefaultOwner, store.records[model.DefaultOwner+":msg-1"].Owner)
}

func TestIngestStratecheryEndToEnd(t *testing.T) {
	source := newFakeSource()
	source.add(cleanMessage("msg-1", "Ben Thompson <news@stratechery.com>", "Weekly Article"))
	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	stats, err := coord.Ingest(context.Background(), "alice@example.com", Options{LookbackDays: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NewlyParsed)
	assert.Equal(t, map[string]int{"product_ai": 1}, stats.ByCategory)

	record := store.records["alice@example.com:msg-1"]
	require.NotNil(t, record)
	assert.Equal(t, "stratechery", record.Platform)
	assert.Equal(t, "Title", record.Title)
	assert.Equal(t, "product_ai", record.Category)
	assert.True(t, record.ParsingSucceeded)
	assert.False(t, record.NeedsReview)
	assert.Equal(t, "Ben Thompson", record.SenderName)
	assert.Equal(t, "news@stratechery.com", record.SenderEmail)
}

func TestIngestParsesDateHeaderToUTC(t *testing.T) {
	source := newFakeSource()
	source.add(cleanMessage("msg-1", "Ben Thompson <news@stratechery.com>", "Weekly Article"))
	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	_, err := coord.Ingest(context.Background(), "alice@example.com", Options{LookbackDays: 1})
	require.NoError(t, err)

	record := store.records["alice@example.com:msg-1"]
	require.NotNil(t, record)
	// Mon, 12 Jan 2026 08:30:00 -0500 is 13:30 UTC.
	assert.Equal(t, time.Date(2026, 1, 12, 13, 30, 0, 0, time.UTC), record.ReceivedAt)
}

func TestIngestDateFallbackUsesPerMessageClock(t *testing.T) {
	source := newFakeSource()
	for i := 1; i <= 2; i++ {
		msg := cleanMessage(fmt.Sprintf("msg-%d", i), "Ben Thompson <news@stratechery.com>", "Weekly Article")
		msg.Headers["Date"] = "not a date"
		source.add(msg)
	}
	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	// Clock ticks one minute per call, so each message's fallback
	// timestamp proves it was captured at that message's processing
	// moment rather than once up front.
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	coord.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	_, err := coord.Ingest(context.Background(), "alice@example.com", Options{
		TargetDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	first := store.records["alice@example.com:msg-1"]
	second := store.records["alice@example.com:msg-2"]
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.True(t, second.ReceivedAt.After(first.ReceivedAt))
}

func TestIngestNoHTMLBody(t *testing.T) {
	source := newFakeSource()
	source.add(mailsource.RawMessage{
		ID: "msg-1",
		Headers: map[string]string{
			"From":    "Someone <someone@example.com>",
			"Subject": "Plain text only",
			"Date":    "Mon, 12 Jan 2026 08:30:00 -0500",
		},
		TextBody: "just text",
	})
	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	stats, err := coord.Ingest(context.Background(), "alice@example.com", Options{LookbackDays: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NewlyParsed)

	record := store.records["alice@example.com:msg-1"]
	require.NotNil(t, record)
	assert.False(t, record.ParsingSucceeded)
	assert.True(t, record.NeedsReview)
	assert.Empty(t, record.ParsedContent)
	assert.Equal(t, "unknown", record.Platform)
	assert.Equal(t, "Plain text only", record.Title)
}

func TestIngestContinuesPastFailingMessage(t *testing.T) {
	source := newFakeSource()
	source.add(cleanMessage("msg-1", "Ben Thompson <news@stratechery.com>", "First"))
	source.add(cleanMessage("msg-2", "Ben Thompson <news@stratechery.com>", "Second"))
	source.add(cleanMessage("msg-3", "Ben Thompson <news@stratechery.com>", "Third"))
	source.getErrs["msg-2"] = fmt.Errorf("transient fetch failure")

	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	stats, err := coord.Ingest(context.Background(), "alice@example.com", Options{LookbackDays: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalFetched)
	assert.Equal(t, 2, stats.NewlyParsed)
	assert.Equal(t, 1, stats.ParseErrors)
	assert.Len(t, store.records, 2)
}

func TestIngestListFailureIsFatal(t *testing.T) {
	source := newFakeSource()
	source.listErr = fmt.Errorf("auth expired")
	store := newFakeStore()
	coord := newTestCoordinator(source, store)

	_, err := coord.Ingest(context.Background(), "alice@example.com", Options{LookbackDays: 1})
	assert.Error(t, err)
	assert.Empty(t, store.records)
}

func TestBuildQueryTargetDateIsHalfOpenDay(t *testing.T) {
	coord := newTestCoordinator(newFakeSource(), newFakeStore())

	target := time.Date(2026, 3, 15, 17, 45, 0, 0, time.UTC)
	query := coord.buildQuery(Options{TargetDate: target})

	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), query.After)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), query.Before)
	assert.Equal(t, "label:newsletters after:2026/03/15 before:2026/03/16", query.String())
}

func TestBuildQueryLookback(t *testing.T) {
	coord := newTestCoordinator(newFakeSource(), newFakeStore())
	coord.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}

	query := coord.buildQuery(Options{LookbackDays: 3})
	assert.Equal(t, time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC), query.After)
	assert.True(t, query.Before.IsZero())
}
