// Package criteria holds the selection criteria value and the resolver that
// derives allowed treatments and regions from a partial selection.
package criteria

import (
	"fmt"
	"strings"

	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
)

// Criteria is the active query. Every field is optional; an empty field places
// no restriction on its axis.
type Criteria struct {
	Interest  string `json:"interest,omitempty"`
	Issue     string `json:"issue,omitempty"`
	Region    string `json:"region,omitempty"`
	Treatment string `json:"treatment,omitempty"`
}

// Normalized returns a copy with surrounding whitespace removed.
func (c Criteria) Normalized() Criteria {
	return Criteria{
		Interest:  strings.TrimSpace(c.Interest),
		Issue:     strings.TrimSpace(c.Issue),
		Region:    strings.TrimSpace(c.Region),
		Treatment: strings.TrimSpace(c.Treatment),
	}
}

// IsEmpty reports whether no field is set.
func (c Criteria) IsEmpty() bool {
	return c.Normalized() == Criteria{}
}

// Canonical returns a trimmed copy whose values known to reg use the
// registry's spelling. Unknown values are kept as given.
func (c Criteria) Canonical(reg *taxonomy.Registry) Criteria {
	n := c.Normalized()
	n.Interest = canonicalName(n.Interest, reg.Suggestions())
	n.Issue = canonicalName(n.Issue, reg.Issues())
	if area, ok := taxonomy.ParseArea(n.Region); ok {
		n.Region = string(area)
	}
	n.Treatment = canonicalName(n.Treatment, reg.Treatments())
	return n
}

func canonicalName(v string, names []string) string {
	key := taxonomy.FoldKey(v)
	if key == "" {
		return v
	}
	for _, name := range names {
		if taxonomy.FoldKey(name) == key {
			return name
		}
	}
	return v
}

// Key returns a stable string form usable as a cache key component. Case is
// kept, since results echo the criteria; canonicalize first to share entries.
func (c Criteria) Key() string {
	n := c.Normalized()
	return fmt.Sprintf("interest=%s|issue=%s|region=%s|treatment=%s",
		n.Interest, n.Issue, n.Region, n.Treatment)
}

// Without returns a copy with the named field cleared. Unknown names return c.
func (c Criteria) Without(field string) Criteria {
	switch field {
	case "interest":
		c.Interest = ""
	case "issue":
		c.Issue = ""
	case "region":
		c.Region = ""
	case "treatment":
		c.Treatment = ""
	}
	return c
}

// WithDerivedRegion fills Region from the interest, then the issue, when the
// caller has not set one explicitly. The Other area is never derived.
func (c Criteria) WithDerivedRegion(r *Resolver) Criteria {
	if strings.TrimSpace(c.Region) != "" {
		return c
	}
	if area, ok := r.RegionForInterest(c.Interest); ok && area != taxonomy.AreaOther {
		c.Region = string(area)
		return c
	}
	if area, ok := r.RegionForIssue(c.Issue); ok && area != taxonomy.AreaOther {
		c.Region = string(area)
	}
	return c
}
