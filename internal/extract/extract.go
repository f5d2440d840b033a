package extract

import (
	"strings"

	"newsletter-digest-go/internal/model"
	"newsletter-digest-go/internal/platform"
)

// Result is the normalized content produced by an extraction strategy.
type Result struct {
	Content     string
	Title       string
	Sections    []model.Section
	Links       []model.Link
	Images      []string
	Metadata    map[string]string
	NeedsReview bool
}

type strategy func(html string) Result

var strategies = map[platform.Platform]strategy{
	platform.Substack:    extractClean,
	platform.Stratechery: extractClean,
	platform.Beehiiv:     extractBeehiiv,
	platform.TLDR:        extractTLDR,
	platform.ConvertKit:  extractConvertKit,
	platform.Generic:     extractGeneric,
	platform.Unknown:     extractGeneric,
}

// Extract converts raw newsletter HTML into normalized content fields
// using the strategy registered for the detected platform. Strategies
// never fail on malformed HTML: when nothing extractable is found the
// result carries empty fields and the review flag.
func Extract(p platform.Platform, html string) Result {
	fn, ok := strategies[p]
	if !ok {
		fn = extractGeneric
	}

	res := fn(html)

	if res.Metadata == nil {
		res.Metadata = make(map[string]string)
	}
	res.Metadata["platform"] = string(p)

	if strings.TrimSpace(res.Content) == "" {
		res.NeedsReview = true
	}
	return res
}
