package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsletter-digest-go/internal/model"
)

var (
	boilerplateExpr = regexp.MustCompile(`View this post on the web|Unsubscribe|Share`)
	blankRunsExpr   = regexp.MustCompile(`\n{3,}`)
)

// parseDocument builds a goquery document from raw HTML. html.Parse is
// tolerant of malformed markup, so a nil document only happens on
// reader-level failures.
func parseDocument(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}

// stripScripts removes script and style elements from the document.
func stripScripts(doc *goquery.Document) {
	doc.Find("script, style").Remove()
}

// stripBoilerplate removes elements whose own text is newsletter
// boilerplate (unsubscribe links, view-on-web banners, share prompts).
// Only the element directly holding the text is removed, so container
// elements survive.
func stripBoilerplate(doc *goquery.Document) {
	doc.Find("a, p, span, td, div, li").Each(func(_ int, s *goquery.Selection) {
		if boilerplateExpr.MatchString(ownText(s)) {
			s.Remove()
		}
	})
}

// ownText concatenates the immediate text nodes of a selection,
// excluding text inside child elements.
func ownText(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			sb.WriteString(c.Text())
		}
	})
	return strings.TrimSpace(sb.String())
}

// documentText walks the document and joins every text node with blank
// lines, collapsing longer blank-line runs.
func documentText(doc *goquery.Document) string {
	var parts []string
	collectText(doc.Selection, &parts)
	text := strings.Join(parts, "\n\n")
	return blankRunsExpr.ReplaceAllString(text, "\n\n")
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		if name == "#text" {
			if text := strings.TrimSpace(s.Text()); text != "" {
				*parts = append(*parts, text)
			}
			return
		}
		if name == "script" || name == "style" {
			return
		}
		collectText(s, parts)
	})
}

// collectLinks gathers anchors with a resolvable target, excluding
// internal anchors, mailto and script-protocol targets.
func collectLinks(doc *goquery.Document) []model.Link {
	var links []model.Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" ||
			strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}
		links = append(links, model.Link{
			URL:  href,
			Text: strings.TrimSpace(s.Text()),
		})
	})
	return links
}

// firstHeadingTitle returns the text of the first h1, or empty when
// the document has none.
func firstHeadingTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// headingSections derives sections from heading-to-next-heading spans:
// each h2/h3 collects the paragraph text that follows it up to the
// next heading.
func headingSections(doc *goquery.Document) []model.Section {
	var sections []model.Section
	doc.Find("h2, h3").Each(func(_ int, heading *goquery.Selection) {
		var content []string
		heading.NextUntil("h2, h3").Each(func(_ int, sib *goquery.Selection) {
			if goquery.NodeName(sib) != "p" {
				return
			}
			if text := strings.TrimSpace(sib.Text()); text != "" {
				content = append(content, text)
			}
		})
		if len(content) > 0 {
			sections = append(sections, model.Section{
				Heading: strings.TrimSpace(heading.Text()),
				Content: strings.Join(content, "\n"),
			})
		}
	})
	return sections
}
