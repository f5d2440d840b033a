package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		html     string
		expected Platform
	}{
		{"substack domain", "lenny@substack.com", "<html></html>", Substack},
		{"beehiiv domain", "news@mail.beehiiv.com", "<html></html>", Beehiiv},
		{"beehiiv html signature", "news@example.com", "<div>powered by beehiiv</div>", Beehiiv},
		{"convertkit html signature", "sahil@example.com", "<img src=\"https://convertkit.com/track.png\">", ConvertKit},
		{"kit-mail sender", "hello@kit-mail.com", "<html></html>", ConvertKit},
		{"tldr domain", "dan@tldrnewsletter.com", "<html></html>", TLDR},
		{"tldr substring in sender", "tldr-ai@example.com", "<html></html>", TLDR},
		{"stratechery", "news@stratechery.com", "<h1>Title</h1>", Stratechery},
		{"unmatched falls back to generic", "someone@example.com", "<p>hello</p>", Generic},
		{"empty input is generic", "", "", Generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.email, tt.html))
		})
	}
}

func TestDetectOrderSenderBeatsContent(t *testing.T) {
	// A substack sender whose body mentions beehiiv must still resolve
	// to substack: sender-domain checks run first.
	got := Detect("writer@substack.com", "<p>migrated from beehiiv</p>")
	assert.Equal(t, Substack, got)
}

func TestDetectIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, Substack, Detect("Writer@Substack.COM", ""))
	assert.Equal(t, Beehiiv, Detect("", "<div>Powered By BEEHIIV</div>"))
}
