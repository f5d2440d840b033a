package extract

// extractConvertKit handles ConvertKit form-builder newsletters. The
// section algorithm is the same heading-to-heading span used for clean
// markup, but the strategy is kept separate so the two formats can
// diverge independently. Unlike the clean strategy the h1 stays in the
// body text.
func extractConvertKit(html string) Result {
	doc := parseDocument(html)
	if doc == nil {
		return Result{NeedsReview: true}
	}

	stripScripts(doc)

	title := firstHeadingTitle(doc)
	sections := headingSections(doc)
	links := collectLinks(doc)
	content := documentText(doc)

	return Result{
		Content:  content,
		Title:    title,
		Sections: sections,
		Links:    links,
	}
}
