package extract

// extractClean handles clean-markup platforms (Substack, Stratechery)
// and serves as the base heading-to-heading algorithm: strip
// boilerplate, take the title from the first h1, derive sections from
// heading spans and fall back to whole-document text for the content
// body.
func extractClean(html string) Result {
	doc := parseDocument(html)
	if doc == nil {
		return Result{NeedsReview: true}
	}

	stripScripts(doc)
	stripBoilerplate(doc)

	title := firstHeadingTitle(doc)
	// Remove the h1 so the title is not duplicated in the body text.
	doc.Find("h1").First().Remove()

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
