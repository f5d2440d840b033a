package extract

// extractGeneric is the fallback for unrecognized formats. It strips
// header and footer landmarks in addition to scripts and styles, then
// takes whole-document text. Since the structure is unknown every
// result is flagged for review.
func extractGeneric(html string) Result {
	doc := parseDocument(html)
	if doc == nil {
		return Result{NeedsReview: true}
	}

	stripScripts(doc)
	doc.Find("header, footer").Remove()

	title := firstHeadingTitle(doc)
	links := collectLinks(doc)
	content := documentText(doc)

	return Result{
		Content:     content,
		Title:       title,
		Links:       links,
		NeedsReview: true,
	}
}
