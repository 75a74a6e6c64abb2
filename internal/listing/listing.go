// Package listing renders the static listing-copy suggestions shown next to
// a keyword report. It does not look at campaign data.
package listing

import (
	"fmt"
	"io"
	"strings"
)

// None is the placeholder for a field the user left unset
const None = "none"

// BulletTips are printed regardless of the bullets provided
var BulletTips = []string{
	"Emphasize benefits, not just features",
	"Use keywords naturally",
	"Include dimensions or compatibility",
	`Add a strong CTA like "Buy Now"`,
	"Mention guarantees or differentiators",
}

const descriptionTip = "Tip: Expand this into a compelling story with emotional and practical hooks."

const keywordSuggestion = "consider launching with exact match, low bid, and monitor ROAS"

// Listing is the product copy a user pasted in
type Listing struct {
	Title       string
	Bullets     string
	Description string
	NewKeywords []string
}

// New returns a listing with every text field set to None
func New() *Listing {
	return &Listing{Title: None, Bullets: None, Description: None}
}

// ParseKeywords splits raw input on newlines and commas, dropping blanks
func ParseKeywords(raw string) []string {
	var keywords []string
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool { return r == '\n' || r == ',' }) {
		if kw := strings.TrimSpace(line); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Render writes the listing suggestions as markdown
func (l *Listing) Render(w io.Writer) error {
	var b strings.Builder

	b.WriteString("### Optimized Title\n")
	b.WriteString(orPlaceholder(l.Title, "[No title provided]"))
	b.WriteString("\n\n### Optimized Bullet Points\n")
	for i, tip := range BulletTips {
		fmt.Fprintf(&b, "%d. %s\n", i+1, tip)
	}
	b.WriteString("\n### Optimized Description\n")
	b.WriteString(orPlaceholder(l.Description, "[No description provided]"))
	b.WriteString("\n\n")
	b.WriteString(descriptionTip)
	b.WriteString("\n")

	if len(l.NewKeywords) > 0 {
		b.WriteString("\n### New Keyword Suggestions\n")
		for _, kw := range l.NewKeywords {
			fmt.Fprintf(&b, "- **%s** - %s\n", kw, keywordSuggestion)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func orPlaceholder(value, placeholder string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == None {
		return placeholder
	}
	return value
}
