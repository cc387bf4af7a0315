package manifest

import (
	"regexp"
	"strings"
)

// Codes look like WAC-1234, WAC 1234-A, WAC00123. The prefix may be glued,
// hyphenated or space-separated; the body is 3+ alphanumerics with optional
// hyphen-delimited suffix groups.
var wacRegex = regexp.MustCompile(`(?i)WAC[- ]?[A-Z0-9]{3,}(?:-[A-Z0-9]+)*`)

// ExtractWACCodes pulls candidate codes out of PDF text. The pattern also
// matches the column header "WAC CODE" on printed manifests, so that literal
// (and a bare "WAC") is filtered as a false positive. Result is deduplicated
// preserving first-seen order.
func ExtractWACCodes(text string) []string {
	matches := wacRegex.FindAllString(text, -1)

	codes := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, code := range matches {
		clean := strings.ToUpper(strings.TrimSpace(code))
		if clean == "WAC" || clean == "WAC CODE" {
			continue
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}
