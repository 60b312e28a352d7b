package matching

import (
	"regexp"
	"strings"
	"unicode"
)

var jsSuffix = regexp.MustCompile(`js$`)

// Normalize canonicalizes a skill string for comparison: lower-cased,
// separators and any Unicode whitespace removed and a trailing "js"
// rewritten to "javascript".
func Normalize(skill string) string {
	s := strings.Map(func(r rune) rune {
		if r == '.' || r == '_' || r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(skill))
	return jsSuffix.ReplaceAllString(s, "javascript")
}
