// Package candidate provides the candidate item model and the adapter that maps
// raw Record Store payloads onto it.
package candidate

// Kind identifies the type of candidate being browsed.
type Kind string

const (
	KindPhoto          Kind = "photo"
	KindSuggestionCard Kind = "suggestion_card"
)

// ParseKind returns the kind for s, defaulting to photo for anything unknown.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindSuggestionCard:
		return KindSuggestionCard
	default:
		return KindPhoto
	}
}

// Item is one example photo or suggestion card. All fields are plain values;
// absent source fields are empty, never nil-dependent.
type Item struct {
	ID           string   `json:"id"`
	Kind         Kind     `json:"kind"`
	DisplayName  string   `json:"displayName"`
	Treatments   []string `json:"treatments"`
	AreaNames    []string `json:"areaNames"`
	Surgical     bool     `json:"surgical"`
	Caption      string   `json:"caption,omitempty"`
	Story        string   `json:"story,omitempty"`
	PhotoURL     string   `json:"photoUrl,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
}
