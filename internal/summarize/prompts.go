package summarize

import (
	"fmt"
	"strings"

	"newsletter-digest-go/internal/model"
)

const (
	// maxNewsletterChars caps the content sent for a single
	// newsletter summary.
	maxNewsletterChars = 50000
	// maxCategoryChars caps each newsletter's content inside a
	// category rollup, which concatenates several of them.
	maxCategoryChars = 30000
)

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func newsletterPrompt(senderName, subject, content string) string {
	var b strings.Builder
	b.WriteString("You are reading a newsletter email. Read it like a human would and extract the key information.\n\n")
	fmt.Fprintf(&b, "Newsletter from: %s\n", senderName)
	fmt.Fprintf(&b, "Subject: %s\n\n", subject)
	b.WriteString("Here is the newsletter content:\n\n<newsletter>\n")
	b.WriteString(truncate(content, maxNewsletterChars))
	b.WriteString("\n</newsletter>\n\n")
	b.WriteString(`Please analyze this newsletter and provide:

1. **Title**: The main title or headline of this newsletter issue
2. **Summary**: A 2-3 sentence summary of what this newsletter covers
3. **Key Points**: 3-5 bullet points of the most important takeaways
4. **Sections**: Break down the newsletter into its main sections, each with:
   - A heading
   - A brief summary of that section (1-2 sentences)
   - Any notable links or resources mentioned

Respond in JSON format:
{
    "title": "...",
    "summary": "...",
    "key_points": ["...", "...", "..."],
    "sections": [
        {
            "heading": "...",
            "summary": "...",
            "links": [{"text": "...", "context": "..."}]
        }
    ]
}

Focus on the actual content - ignore navigation, footers, unsubscribe links, and other boilerplate.
If there are images or charts referenced, describe what they likely show based on context.`)
	return b.String()
}

func categoryPrompt(label string, records []*model.Newsletter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are reading %d newsletters from the %q category. Read them all and create a unified summary.\n\n", len(records), label)

	for i, rec := range records {
		fmt.Fprintf(&b, "--- Newsletter %d: %s ---\n", i+1, rec.SenderName)
		fmt.Fprintf(&b, "Subject: %s\n", rec.Subject)
		b.WriteString("Content:\n")
		b.WriteString(truncate(recordContent(rec), maxCategoryChars))
		b.WriteString("\n\n")
	}

	b.WriteString(`Create a combined summary that:
1. Synthesizes the key themes and stories across all newsletters
2. Highlights the most important news/insights
3. Notes any overlapping coverage or different perspectives on the same topic
4. Calls out the source newsletter for key points

Respond in JSON format:
{
    "summary": "2-3 paragraph summary of the category's key content",
    "key_points": [
        "Key point 1 (Source: Newsletter Name)",
        "Key point 2 (Source: Newsletter Name)"
    ],
    "newsletters": [
        {
            "sender_name": "...",
            "one_liner": "One sentence summary of this newsletter's unique contribution"
        }
    ]
}

Focus on substance - ignore ads, promotions, and boilerplate.`)
	return b.String()
}

func themePrompt(summariesJSON string) string {
	var b strings.Builder
	b.WriteString("You are reviewing today's newsletter summaries to find the threads that run across them.\n\n")
	b.WriteString("Here are the summaries:\n\n")
	b.WriteString(summariesJSON)
	b.WriteString("\n\n")
	b.WriteString(`Identify the cross-cutting themes:
1. Find topics that more than one newsletter touched, and topics important enough to stand alone
2. Name the newsletters that covered each theme
3. Close with a short synthesis of what today's reading adds up to

Respond in JSON format:
{
    "themes": [
        {
            "title": "...",
            "description": "1-2 sentences on what the coverage says",
            "sources": ["Newsletter Name", "Newsletter Name"]
        }
    ],
    "synthesis": "A short paragraph tying the day together"
}`)
	return b.String()
}

// recordContent picks the richest text available for a record. Raw
// HTML carries the most signal; parsed content is the fallback for
// records stored without it.
func recordContent(rec *model.Newsletter) string {
	if rec.RawHTML != "" {
		return rec.RawHTML
	}
	return rec.ParsedContent
}
