package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var namePolicy = bluemonday.StrictPolicy()

const maxSanitizeRounds = 5

// cleanName strips markup from a display name and returns plain text.
// Sanitizing and unescaping repeat until the text stops changing, so
// entity-encoded tags are decoded and stripped instead of reappearing.
// Input that does not settle is returned in bluemonday's escaped form.
func cleanName(s string) string {
	cur := strings.TrimSpace(s)
	for i := 0; i < maxSanitizeRounds; i++ {
		next := strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(cur)))
		if next == cur {
			return cur
		}
		cur = next
	}
	return strings.TrimSpace(namePolicy.Sanitize(cur))
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
