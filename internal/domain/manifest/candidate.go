package manifest

import "strings"

// Candidate is one extracted manifest line awaiting operator review. It only
// becomes an artwork row when a session is committed. AI extraction returns
// nullable artist/title/dimensions; those are normalized to "" before a
// Candidate is built, so empty string is the single "absent" representation.
type Candidate struct {
	WACCode    string `json:"wacCode"`
	Artist     string `json:"artist,omitempty"`
	Title      string `json:"title,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
}

// Defaults used when a candidate is committed without the optional fields.
// They are applied at commit time, never at extraction time, so the PDF path
// (codes only) and the AI path stay interchangeable up to that point.
const (
	DefaultArtist = "Unknown"
	DefaultTitle  = "Untitled"
)

// Reconcile collapses duplicate codes from a multi-page upload. First
// occurrence wins and keeps its fields; order is preserved. Reconcile is
// idempotent on already-deduplicated input.
func Reconcile(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if seen[c.WACCode] {
			continue
		}
		seen[c.WACCode] = true
		out = append(out, c)
	}
	return out
}

// ArtistOrDefault returns the committed artist value.
func (c Candidate) ArtistOrDefault() string {
	if strings.TrimSpace(c.Artist) == "" {
		return DefaultArtist
	}
	return c.Artist
}

// TitleOrDefault returns the committed title value.
func (c Candidate) TitleOrDefault() string {
	if strings.TrimSpace(c.Title) == "" {
		return DefaultTitle
	}
	return c.Title
}
