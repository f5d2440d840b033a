package mailsource

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message"

	"newsletter-digest-go/internal/config"
)

// IMAPSource fetches newsletters over IMAP for providers without a
// Gmail-style API. Labels map to mailbox names and the date window
// maps to SINCE/BEFORE search criteria.
type IMAPSource struct {
	client *client.Client
}

// NewIMAPSource connects and authenticates to the IMAP server.
func NewIMAPSource(cfg *config.GmailConfig) (*IMAPSource, error) {
	c, err := client.DialTLS(fmt.Sprintf("%s:%d", cfg.IMAPHost, cfg.IMAPPort), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}

	if err := c.Login(cfg.IMAPUser, cfg.IMAPPassword); err != nil {
		c.Logout()
		return nil, fmt.Errorf("failed to login to IMAP server: %w", err)
	}

	return &IMAPSource{client: c}, nil
}

// List selects the mailbox named by the query label (INBOX when empty)
// and searches the date window.
func (s *IMAPSource) List(ctx context.Context, query Query, maxResults int64) ([]Ref, error) {
	mailbox := query.Label
	if mailbox == "" {
		mailbox = "INBOX"
	}

	if _, err := s.client.Select(mailbox, true); err != nil {
		return nil, fmt.Errorf("failed to select mailbox %s: %w", mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	if !query.After.IsZero() {
		criteria.Since = query.After
	}
	if !query.Before.IsZero() {
		criteria.Before = query.Before
	}

	uids, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	if maxResults > 0 && int64(len(uids)) > maxResults {
		uids = uids[:maxResults]
	}

	refs := make([]Ref, 0, len(uids))
	for _, uid := range uids {
		refs = append(refs, Ref{ID: strconv.FormatUint(uint64(uid), 10)})
	}
	return refs, nil
}

// Get fetches one message body by sequence number.
func (s *IMAPSource) Get(ctx context.Context, id string) (RawMessage, error) {
	seq, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return RawMessage{}, fmt.Errorf("invalid IMAP message id %q: %w", id, err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(seq))

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqset, items, messages)
	}()

	var raw RawMessage
	for msg := range messages {
		raw, err = s.parseMessage(msg, section, id)
		if err != nil {
			return RawMessage{}, err
		}
	}

	if err := <-done; err != nil {
		return RawMessage{}, fmt.Errorf("failed to fetch message %s: %w", id, err)
	}

	return raw, nil
}

func (s *IMAPSource) parseMessage(msg *imap.Message, section *imap.BodySectionName, id string) (RawMessage, error) {
	raw := RawMessage{
		ID:      id,
		Headers: make(map[string]string),
	}

	if msg.Envelope != nil {
		raw.Headers["Subject"] = msg.Envelope.Subject
		raw.Headers["Date"] = msg.Envelope.Date.Format("Mon, 02 Jan 2006 15:04:05 -0700")
		if len(msg.Envelope.From) > 0 {
			from := msg.Envelope.From[0]
			if from.PersonalName != "" {
				raw.Headers["From"] = fmt.Sprintf("%s <%s>", from.PersonalName, from.Address())
			} else {
				raw.Headers["From"] = from.Address()
			}
		}
	}

	r := msg.GetBody(section)
	if r == nil {
		return raw, nil
	}

	entity, err := message.Read(r)
	if err != nil {
		return raw, fmt.Errorf("failed to read message body: %w", err)
	}

	if mr := entity.MultipartReader(); mr != nil {
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				return raw, fmt.Errorf("failed to read part: %w", err)
			}

			content, err := io.ReadAll(p.Body)
			if err != nil {
				return raw, fmt.Errorf("failed to read part body: %w", err)
			}

			contentType := p.Header.Get("Content-Type")
			if strings.Contains(contentType, "text/html") {
				raw.HTMLBody = string(content)
			} else if strings.Contains(contentType, "text/plain") {
				raw.TextBody = string(content)
			}
		}
	} else {
		content, err := io.ReadAll(entity.Body)
		if err != nil {
			return raw, fmt.Errorf("failed to read message body: %w", err)
		}

		contentType := entity.Header.Get("Content-Type")
		if strings.Contains(contentType, "text/html") {
			raw.HTMLBody = string(content)
		} else {
			raw.TextBody = string(content)
		}
	}

	return raw, nil
}

// Close logs out from the IMAP server.
func (s *IMAPSource) Close() error {
	return s.client.Logout()
}
