// Package htmlsanitize strips markup from operator-entered free text before
// it is stored. Console fields are plain text; nothing is rendered as HTML.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	once.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// PlainText removes every tag from s and trims surrounding whitespace.
// Entities produced by the policy are decoded so "a & b" stays "a & b".
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict().Sanitize(s)))
}

// PlainTextAll applies PlainText to each element, dropping entries that end up empty.
func PlainTextAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if clean := PlainText(s); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
