package cleaner

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeWhitespace collapses all whitespace runs to single spaces and
// trims the result.
func NormalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// boilerplatePhrases are navigational and consent fragments that survive
// element-level removal because they live in otherwise-content blocks.
var boilerplatePhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bskip to (?:main )?content\b`),
	regexp.MustCompile(`(?i)\btoggle (?:navigation|menu)\b`),
	regexp.MustCompile(`(?i)\bback to top\b`),
	regexp.MustCompile(`(?i)\byou are here:?`),
	regexp.MustCompile(`\s+[»›]\s+`), // breadcrumb separators
	regexp.MustCompile(`(?i)(?:we|this (?:web)?site) uses? cookies[^.!?]*[.!?]?`),
	regexp.MustCompile(`(?i)\baccept (?:all )?cookies\b`),
	regexp.MustCompile(`(?i)\bcookie (?:policy|settings|preferences|consent)\b`),
	regexp.MustCompile(`(?i)\ball rights reserved\.?`),
	regexp.MustCompile(`(?i)copyright ©?\s*\d{4}`),
	regexp.MustCompile(`(?i)\bsign up for our newsletter\b`),
	regexp.MustCompile(`(?i)\bshare this (?:article|page|post)\b`),
}

// StripBoilerplatePhrases removes known navigational/boilerplate phrase
// patterns and re-normalizes whitespace.
func StripBoilerplatePhrases(text string) string {
	for _, re := range boilerplatePhrases {
		text = re.ReplaceAllString(text, " ")
	}
	return NormalizeWhitespace(text)
}
