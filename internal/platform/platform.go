package platform

import "strings"

// Platform identifies the newsletter sending platform that produced a
// message's HTML structure.
type Platform string

const (
	Substack    Platform = "substack"
	Beehiiv     Platform = "beehiiv"
	TLDR        Platform = "tldr"
	ConvertKit  Platform = "convertkit"
	Stratechery Platform = "stratechery"
	Generic     Platform = "generic"
	Unknown     Platform = "unknown"
)

// Detect classifies the originating platform from the sender address
// and the raw HTML body. Detection is total: unmatched input returns
// Generic. The check order matters — sender-domain signals are checked
// before weaker content signatures, first match wins.
func Detect(senderEmail, htmlContent string) Platform {
	email := strings.ToLower(senderEmail)
	html := strings.ToLower(htmlContent)

	if strings.Contains(email, "substack.com") {
		return Substack
	}
	if strings.Contains(email, "beehiiv.com") || strings.Contains(html, "beehiiv") {
		return Beehiiv
	}
	if strings.Contains(html, "convertkit") || strings.Contains(email, "kit-mail") {
		return ConvertKit
	}
	if strings.Contains(email, "tldrnewsletter.com") || strings.Contains(email, "tldr") {
		return TLDR
	}
	if strings.Contains(email, "stratechery.com") {
		return Stratechery
	}

	return Generic
}
