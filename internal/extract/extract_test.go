package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-digest-go/internal/platform"
)

const substackHTML = `
<html><body>
  <script>var tracking = true;</script>
  <style>.btn { color: red; }</style>
  <h1>The Future of Product</h1>
  <p>Opening thoughts on where product management is heading.</p>
  <h2>AI Changes Everything</h2>
  <p>Models are getting cheaper every quarter.</p>
  <p>Teams that adopt them early will win.</p>
  <h2>Reader Questions</h2>
  <p>This week we answer three questions from readers.</p>
  <p><a href="https://example.com/article">Read the full analysis</a></p>
  <p><a href="mailto:reply@substack.com">Reply to this email</a></p>
  <p><a href="#top">Back to top</a></p>
  <p>Unsubscribe</p>
</body></html>`

func TestExtractCleanSubstack(t *testing.T) {
	res := Extract(platform.Substack, substackHTML)

	assert.Equal(t, "The Future of Product", res.Title)
	assert.False(t, res.NeedsReview)

	require.Len(t, res.Sections, 2)
	assert.Equal(t, "AI Changes Everything", res.Sections[0].Heading)
	assert.Contains(t, res.Sections[0].Content, "Models are getting cheaper")
	assert.Contains(t, res.Sections[0].Content, "Teams that adopt them early")
	assert.Equal(t, "Reader Questions", res.Sections[1].Heading)

	// Scripts, styles and boilerplate must not leak into content.
	assert.NotContains(t, res.Content, "tracking")
	assert.NotContains(t, res.Content, "color: red")
	assert.NotContains(t, res.Content, "Unsubscribe")
	// The h1 is consumed as the title, not repeated in the body.
	assert.NotContains(t, res.Content, "The Future of Product")

	require.Len(t, res.Links, 1)
	assert.Equal(t, "https://example.com/article", res.Links[0].URL)
	assert.Equal(t, "Read the full analysis", res.Links[0].Text)
}

func TestExtractCleanStratechery(t *testing.T) {
	html := `<h1>Title</h1><p>Body text long enough to read. More body text follows here.</p>`
	res := Extract(platform.Stratechery, html)

	assert.Equal(t, "Title", res.Title)
	assert.Contains(t, res.Content, "Body text long enough")
	assert.False(t, res.NeedsReview)
	assert.Equal(t, "stratechery", res.Metadata["platform"])
}

func TestExtractBeehiiv(t *testing.T) {
	var images strings.Builder
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&images, `<img src="https://cdn.beehiiv.com/img%d.png">`, i)
	}
	html := `<html><body><table><tr><td>
    <h1>Morning Brew Issue 42</h1>
    <p>🚀 Launch Week</p>
    <p>Three startups launched major products this week and the details matter.</p>
    <p>ok</p>
    <li>First item in the roundup list with enough text.</li>
    ` + images.String() + `
    <a href="https://beehiiv.example.com/story">Full story</a>
  </td></tr></table></body></html>`

	res := Extract(platform.Beehiiv, html)

	assert.Equal(t, "Morning Brew Issue 42", res.Title)
	// Short noise ("ok") is filtered by the length threshold.
	assert.NotContains(t, res.Content, "ok\n")
	assert.Contains(t, res.Content, "Three startups launched")
	assert.Contains(t, res.Content, "First item in the roundup")

	require.NotEmpty(t, res.Sections)
	assert.Equal(t, "🚀 Launch Week", res.Sections[0].Heading)

	assert.Len(t, res.Images, 3)
	assert.Equal(t, "3", res.Metadata["image_count"])
	assert.False(t, res.NeedsReview)
}

func TestExtractBeehiivImageHeavyNeedsReview(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<p>A paragraph with enough text to keep around for content checks.</p>")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&sb, `<img src="https://cdn.example.com/img%d.png">`, i)
	}
	res := Extract(platform.Beehiiv, sb.String())

	assert.Len(t, res.Images, 6)
	assert.True(t, res.NeedsReview)
}

func TestExtractTLDR(t *testing.T) {
	html := `<html><body>
    <h2>BIG TECH &amp; STARTUPS</h2>
    <p>Apple announced a new chip with significant performance gains today.</p>
    <a href="https://example.com/chip">Apple silicon deep dive (10 minute read)</a>
    <h2>SCIENCE &amp; FUTURISTIC TECHNOLOGY</h2>
    <p>Researchers demonstrated a new battery chemistry in the lab this week.</p>
    <p>short</p>
  </body></html>`

	res := Extract(platform.TLDR, html)

	assert.Equal(t, "TLDR Newsletter", res.Title)
	require.Len(t, res.Sections, 2)
	assert.Equal(t, "BIG TECH & STARTUPS", res.Sections[0].Heading)
	require.Len(t, res.Sections[0].Items, 2)
	assert.Contains(t, res.Sections[0].Items[0], "Apple announced")
	// Items under the length threshold are dropped.
	require.Len(t, res.Sections[1].Items, 1)
	assert.Contains(t, res.Content, "BIG TECH & STARTUPS")
	assert.False(t, res.NeedsReview)
}

func TestExtractConvertKitKeepsTitleInBody(t *testing.T) {
	html := `<h1>The Curiosity Chronicle</h1>
    <h2>One Framework</h2>
    <p>The framework this week is about making better decisions under uncertainty.</p>`

	res := Extract(platform.ConvertKit, html)

	assert.Equal(t, "The Curiosity Chronicle", res.Title)
	require.Len(t, res.Sections, 1)
	assert.Equal(t, "One Framework", res.Sections[0].Heading)
	// ConvertKit does not strip the h1 from the body text.
	assert.Contains(t, res.Content, "The Curiosity Chronicle")
}

func TestExtractGenericAlwaysNeedsReview(t *testing.T) {
	html := `<html><body>
    <header>Site navigation</header>
    <h1>Some Title</h1>
    <p>Readable paragraph content that survives extraction just fine.</p>
    <footer>Copyright notice</footer>
  </body></html>`

	res := Extract(platform.Generic, html)

	assert.True(t, res.NeedsReview)
	assert.Equal(t, "Some Title", res.Title)
	assert.Contains(t, res.Content, "Readable paragraph content")
	assert.NotContains(t, res.Content, "Site navigation")
	assert.NotContains(t, res.Content, "Copyright notice")
}

func TestExtractUnknownPlatformUsesGeneric(t *testing.T) {
	res := Extract(platform.Unknown, "<p>Anything at all goes here.</p>")
	assert.True(t, res.NeedsReview)
	assert.Equal(t, "unknown", res.Metadata["platform"])
}

func TestExtractEmptyContentFlagsReview(t *testing.T) {
	res := Extract(platform.Substack, "<html><body><script>x</script></body></html>")
	assert.Empty(t, strings.TrimSpace(res.Content))
	assert.True(t, res.NeedsReview)
}

func TestExtractMalformedHTMLDoesNotPanic(t *testing.T) {
	res := Extract(platform.Substack, "<h1>Broken<h2><p>unclosed <b>tags everywhere")
	assert.Equal(t, "substack", res.Metadata["platform"])
}
