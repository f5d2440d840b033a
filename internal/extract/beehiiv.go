package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsletter-digest-go/internal/model"
)

const (
	beehiivMinTextLength = 10
	beehiivMaxImageCount = 5
)

// Section headers in card layouts lead with a symbol or emoji marker
// followed by text.
var leadingSymbolExpr = regexp.MustCompile(`^[^\w\s]{1,3}\s+.+`)

// extractBeehiiv handles Beehiiv's table-based card layout. Instead of
// whole-document text it keeps only textual leaf elements above a
// minimum length, which filters out layout noise.
func extractBeehiiv(html string) Result {
	doc := parseDocument(html)
	if doc == nil {
		return Result{NeedsReview: true}
	}

	stripScripts(doc)

	var textElements []string
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > beehiivMinTextLength {
			textElements = append(textElements, text)
		}
	})

	content := strings.Join(textElements, "\n\n")
	title := firstHeadingTitle(doc)

	// Section boundaries are inferred from symbol-led text.
	var sections []model.Section
	for _, text := range textElements {
		if leadingSymbolExpr.MatchString(text) {
			sections = append(sections, model.Section{Heading: text})
		}
	}

	var images []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, _ := s.Attr("src"); src != "" {
			images = append(images, src)
		}
	})

	return Result{
		Content:  content,
		Title:    title,
		Sections: sections,
		Links:    collectLinks(doc),
		Images:   images,
		Metadata: map[string]string{
			"image_count": strconv.Itoa(len(images)),
		},
		// Very image-heavy issues carry most of their content in
		// pictures the text extraction cannot see.
		NeedsReview: len(images) > beehiivMaxImageCount,
	}
}
