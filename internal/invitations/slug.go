package invitations

import (
	"regexp"
	"strings"
)

var (
	// Unicode spaces and separators (NBSP, ideographic space, ...) count as whitespace too.
	slugSpaces  = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-{2,}`)
)

// NormalizeSlug turns free text into a URL slug: lower-case, whitespace runs become
// "-", anything outside [a-z0-9-] is dropped, dash runs collapse and edge dashes are trimmed.
// NormalizeSlug(NormalizeSlug(s)) == NormalizeSlug(s).
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
