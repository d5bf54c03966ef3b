package criteria

import (
	"sort"
	"strings"

	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
)

// TreatmentSet is a set of canonical treatment names keyed by fold key.
// A nil set means no restriction; an empty non-nil set allows nothing.
type TreatmentSet map[string]string

// NewTreatmentSet builds a set from names.
func NewTreatmentSet(names ...string) TreatmentSet {
	s := make(TreatmentSet, len(names))
	for _, n := range names {
		if k := taxonomy.FoldKey(n); k != "" {
			s[k] = n
		}
	}
	return s
}

// Unrestricted reports whether the set places no restriction.
func (s TreatmentSet) Unrestricted() bool {
	return s == nil
}

// Contains reports whether name is in the set, case-insensitively.
func (s TreatmentSet) Contains(name string) bool {
	_, ok := s[taxonomy.FoldKey(name)]
	return ok
}

// Allows reports whether any of names passes the set.
func (s TreatmentSet) Allows(names []string) bool {
	if s.Unrestricted() {
		return true
	}
	for _, n := range names {
		if s.Contains(n) {
			return true
		}
	}
	return false
}

// Names returns the members in reg's declaration order, unknown members last.
func (s TreatmentSet) Names(reg *taxonomy.Registry) []string {
	out := make([]string, 0, len(s))
	seen := make(map[string]bool, len(s))
	for _, t := range reg.Treatments() {
		k := taxonomy.FoldKey(t)
		if _, ok := s[k]; ok {
			out = append(out, t)
			seen[k] = true
		}
	}
	var rest []string
	for k, v := range s {
		if !seen[k] {
			rest = append(rest, v)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (s TreatmentSet) intersect(o TreatmentSet) TreatmentSet {
	out := make(TreatmentSet)
	for k, v := range s {
		if _, ok := o[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Resolver derives allowed treatments and regions from criteria.
type Resolver struct {
	reg *taxonomy.Registry
}

// NewResolver creates a resolver over reg.
func NewResolver(reg *taxonomy.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Registry returns the registry the resolver reads from.
func (r *Resolver) Registry() *taxonomy.Registry {
	return r.reg
}

// AllowedTreatments resolves the treatment set the criteria permit. A nil
// result means neither interest nor issue produced a set. Disjoint interest and
// issue sets intersect to an empty set that allows nothing.
func (r *Resolver) AllowedTreatments(c Criteria) TreatmentSet {
	interest := strings.TrimSpace(c.Interest)
	issue := strings.TrimSpace(c.Issue)

	var fromInterest TreatmentSet
	if interest != "" {
		matched := r.reg.TreatmentsForInterest(interest)
		if strings.EqualFold(interest, taxonomy.OtherSentinel) || len(matched) == 0 {
			matched = r.reg.Treatments()
		}
		fromInterest = NewTreatmentSet(matched...)
	}

	var fromIssue TreatmentSet
	if issue != "" {
		fromIssue = NewTreatmentSet(r.reg.TreatmentsForIssue(issue)...)
	}

	switch {
	case len(fromInterest) > 0 && len(fromIssue) > 0:
		return fromInterest.intersect(fromIssue)
	case len(fromInterest) > 0:
		return fromInterest
	case len(fromIssue) > 0:
		return fromIssue
	default:
		return nil
	}
}

// RegionForInterest returns the area the interest maps to, trying the
// suggestion table before the keyword table.
func (r *Resolver) RegionForInterest(name string) (taxonomy.Area, bool) {
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	if area, ok := r.reg.AreaForSuggestion(name); ok {
		return area, true
	}
	if areas := r.reg.RegionsForInterest(name); len(areas) > 0 {
		return areas[0], true
	}
	return "", false
}

// RegionForIssue returns the primary area recorded for the issue.
func (r *Resolver) RegionForIssue(name string) (taxonomy.Area, bool) {
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	return r.reg.AreaForIssue(name)
}
