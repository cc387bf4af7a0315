package delivery

import (
	"strings"

	"delivery-app/internal/domain/manifest"
)

// ReviewMatch pairs one scanned code against at most one artwork in the
// session. Matches start selected; items without a match cannot be selected.
type ReviewMatch struct {
	Scan     manifest.Candidate `json:"scan"`
	Match    *Artwork           `json:"match,omitempty"`
	Selected bool               `json:"selected"`
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// MatchScans matches AI-recognized codes against the session's artwork set.
// The comparison is containment in either direction after uppercasing and
// trimming, which tolerates partial reads and codes scanned with extra
// prefix/suffix noise. When several artworks satisfy the containment test the
// first in slice order wins; no smarter tie-break is attempted.
func MatchScans(scans []manifest.Candidate, artworks []Artwork) []ReviewMatch {
	matches := make([]ReviewMatch, 0, len(scans))
	for _, scan := range scans {
		scanned := normalizeCode(scan.WACCode)

		var match *Artwork
		for i := range artworks {
			stored := normalizeCode(artworks[i].WACCode)
			if strings.Contains(scanned, stored) || strings.Contains(stored, scanned) {
				match = &artworks[i]
				break
			}
		}

		matches = append(matches, ReviewMatch{
			Scan:     scan,
			Match:    match,
			Selected: match != nil,
		})
	}
	return matches
}
