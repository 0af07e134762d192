// Package extract provides tolerant regex-based field extraction from raw
// HTML documents. The upstream pages have no stable schema or versioned API,
// so each field is pulled out independently: a pattern that stops matching
// costs that one field, never the whole page.
package extract

import (
	"html"
	"regexp"
	"strings"
)

// First returns the captured groups of the first match of re in body. The
// second return is false when the pattern does not match at all.
func First(body string, re *regexp.Regexp) ([]string, bool) {
	m := re.FindStringSubmatch(body)
	if m == nil {
		return nil, false
	}
	return m[1:], true
}

// All returns the captured groups of every match of re in body, in document
// order. A non-matching pattern yields an empty slice, never an error.
func All(body string, re *regexp.Regexp) [][]string {
	ms := re.FindAllStringSubmatch(body, -1)
	if ms == nil {
		return nil
	}
	out := make([][]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m[1:])
	}
	return out
}

var spaceRe = regexp.MustCompile(`\s+`)

// Clean decodes HTML entities and collapses runs of whitespace in an
// extracted text fragment.
func Clean(s string) string {
	s = html.UnescapeString(s)
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
