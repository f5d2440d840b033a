package mailsource

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"newsletter-digest-go/internal/config"
)

// GmailSource fetches newsletters through the Gmail API.
type GmailSource struct {
	service   *gmail.Service
	userEmail string
}

// NewGmailSource creates a Gmail API source from OAuth2 refresh-token
// credentials.
func NewGmailSource(cfg *config.GmailConfig) (*GmailSource, error) {
	ctx := context.Background()

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailReadonlyScope},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	tokenSource := oauth2Config.TokenSource(ctx, token)

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &GmailSource{
		service:   service,
		userEmail: cfg.UserEmail,
	}, nil
}

// List returns refs for messages matching the query, up to maxResults.
func (s *GmailSource) List(ctx context.Context, query Query, maxResults int64) ([]Ref, error) {
	call := s.service.Users.Messages.List(s.userEmail).Q(query.String())
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	refs := make([]Ref, 0, len(response.Messages))
	for _, msg := range response.Messages {
		refs = append(refs, Ref{ID: msg.Id})
	}
	return refs, nil
}

// Get fetches the full message and decodes its body parts.
func (s *GmailSource) Get(ctx context.Context, id string) (RawMessage, error) {
	msg, err := s.service.Users.Messages.Get(s.userEmail, id).Format("full").Context(ctx).Do()
	if err != nil {
		return RawMessage{}, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	raw := RawMessage{
		ID:      msg.Id,
		Headers: make(map[string]string),
	}

	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			raw.Headers[header.Name] = header.Value
		}
		if err := decodeParts(msg.Payload, &raw); err != nil {
			return raw, err
		}
	}

	return raw, nil
}

// decodeParts recursively walks message parts, decoding text bodies.
func decodeParts(part *gmail.MessagePart, raw *RawMessage) error {
	if part.Body != nil && part.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			return fmt.Errorf("failed to decode body data: %w", err)
		}

		switch part.MimeType {
		case "text/plain":
			raw.TextBody = string(data)
		case "text/html":
			raw.HTMLBody = string(data)
		}
	}

	for _, subPart := range part.Parts {
		if err := decodeParts(subPart, raw); err != nil {
			return err
		}
	}

	return nil
}

// Close is a no-op for the Gmail API.
func (s *GmailSource) Close() error {
	return nil
}
