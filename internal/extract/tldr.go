package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsletter-digest-go/internal/model"
)

const tldrMinItemLength = 20

// extractTLDR handles TLDR-style digests: headings open a section and
// the paragraph and link text that follows becomes that section's item
// list. Individual issues rarely carry a distinct headline, so the
// title is a static platform label.
func extractTLDR(html string) Result {
	doc := parseDocument(html)
	if doc == nil {
		return Result{NeedsReview: true}
	}

	stripScripts(doc)

	var sections []model.Section
	current := -1

	doc.Find("h2, h3, p, a").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		name := goquery.NodeName(s)

		if (name == "h2" || name == "h3") && text != "" {
			sections = append(sections, model.Section{Heading: text})
			current = len(sections) - 1
			return
		}
		if current >= 0 && len(text) > tldrMinItemLength {
			sections[current].Items = append(sections[current].Items, text)
		}
	})

	var parts []string
	for _, section := range sections {
		parts = append(parts, section.Heading+"\n")
		parts = append(parts, section.Items...)
		parts = append(parts, "")
	}

	return Result{
		Content:  strings.Join(parts, "\n"),
		Title:    "TLDR Newsletter",
		Sections: sections,
		Links:    collectLinks(doc),
	}
}
