package mailsource

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// RawMessage is the transport-layer unit handed to the ingestion
// pipeline. It is never persisted as-is.
type RawMessage struct {
	ID       string
	Headers  map[string]string
	HTMLBody string
	TextBody string
}

// Ref identifies a message available from the source.
type Ref struct {
	ID string
}

// Source lists and fetches messages from an external mail provider.
// Each provider renders the query into its own filter syntax.
type Source interface {
	List(ctx context.Context, query Query, maxResults int64) ([]Ref, error)
	Get(ctx context.Context, id string) (RawMessage, error)
	Close() error
}

// Query describes a provider-side message filter: a label plus a
// half-open date window.
type Query struct {
	Label  string
	After  time.Time
	Before time.Time
}

// String renders the query in Gmail search syntax. Zero time bounds
// are omitted.
func (q Query) String() string {
	var parts []string
	if q.Label != "" {
		parts = append(parts, "label:"+q.Label)
	}
	if !q.After.IsZero() {
		parts = append(parts, "after:"+q.After.Format("2006/01/02"))
	}
	if !q.Before.IsZero() {
		parts = append(parts, "before:"+q.Before.Format("2006/01/02"))
	}
	return strings.Join(parts, " ")
}

// ParseSender splits a From header into display name and address.
// Unparsable headers yield the raw string for both parts.
func ParseSender(from string) (name, email string) {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		trimmed := strings.TrimSpace(from)
		return trimmed, trimmed
	}
	if addr.Name == "" {
		return addr.Address, addr.Address
	}
	return addr.Name, addr.Address
}

// ParseDate parses a message's own Date header into UTC. The RFC 5322
// format has many real-world variants; mail.ParseDate covers them.
func ParseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, fmt.Errorf("empty date header")
	}
	t, err := mail.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", raw, err)
	}
	return t.UTC(), nil
}
