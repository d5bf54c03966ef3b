// Package filter applies the cascading candidate predicates for a selection and
// computes which treatments and regions still have candidates.
package filter

import (
	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/normalize"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
)

// RegionMatches reports whether any of the candidate's raw area names matches
// region. An empty region matches everything. A trailing " All" is stripped
// before comparison and a bare "All" matches any region.
func RegionMatches(areaNames []string, region string) bool {
	target := taxonomy.FoldKey(region)
	if target == "" {
		return true
	}
	for _, name := range areaNames {
		if taxonomy.AppliesToAllAreas(name) || taxonomy.FoldKey(taxonomy.StripAllSuffix(name)) == target {
			return true
		}
	}
	return false
}

// Options lists the values that still have at least one candidate.
type Options struct {
	Treatments []string `json:"treatments"`
	Regions    []string `json:"regions"`
}

// Config controls optional pipeline behavior.
type Config struct {
	// HideSurgical drops candidates flagged surgical before any other stage.
	HideSurgical bool
}

// Pipeline filters candidate lists against criteria. It holds no per-call
// state and is safe for concurrent use.
type Pipeline struct {
	resolver   *criteria.Resolver
	normalizer *normalize.Normalizer
	cfg        Config
}

// New creates a pipeline.
func New(resolver *criteria.Resolver, normalizer *normalize.Normalizer, cfg Config) *Pipeline {
	return &Pipeline{resolver: resolver, normalizer: normalizer, cfg: cfg}
}

// Filter returns the candidates visible for c, applying the interest/issue,
// region and explicit treatment stages in that order.
func (p *Pipeline) Filter(items []candidate.Item, c criteria.Criteria) []candidate.Item {
	out := p.FilterForOptions(items, c)
	return p.byTreatment(out, c.Treatment)
}

// FilterForOptions applies every stage except the explicit treatment stage,
// so a selected treatment never hides itself from the option list.
func (p *Pipeline) FilterForOptions(items []candidate.Item, c criteria.Criteria) []candidate.Item {
	out := p.bySurgical(items)
	out = p.byAllowedTreatments(out, c)
	return p.byRegion(out, c.Region)
}

// FilterForRegionOptions applies every stage except the region stage.
func (p *Pipeline) FilterForRegionOptions(items []candidate.Item, c criteria.Criteria) []candidate.Item {
	out := p.bySurgical(items)
	out = p.byAllowedTreatments(out, c)
	return p.byTreatment(out, c.Treatment)
}

// Options computes the treatment and region option lists for c.
func (p *Pipeline) Options(items []candidate.Item, c criteria.Criteria) Options {
	treatments := p.normalizer.TreatmentOptions(p.FilterForOptions(items, c))
	if treatments == nil {
		treatments = []string{}
	}
	return Options{
		Treatments: treatments,
		Regions:    regionOptions(p.FilterForRegionOptions(items, c)),
	}
}

func (p *Pipeline) bySurgical(items []candidate.Item) []candidate.Item {
	if !p.cfg.HideSurgical {
		return items
	}
	return keep(items, func(it candidate.Item) bool { return !it.Surgical })
}

func (p *Pipeline) byAllowedTreatments(items []candidate.Item, c criteria.Criteria) []candidate.Item {
	allowed := p.resolver.AllowedTreatments(c)
	if allowed.Unrestricted() {
		return items
	}
	return keep(items, func(it candidate.Item) bool {
		return allowed.Allows(p.normalizer.NormalizeAll(it.Treatments))
	})
}

func (p *Pipeline) byRegion(items []candidate.Item, region string) []candidate.Item {
	if taxonomy.FoldKey(region) == "" {
		return items
	}
	return keep(items, func(it candidate.Item) bool { return RegionMatches(it.AreaNames, region) })
}

func (p *Pipeline) byTreatment(items []candidate.Item, treatment string) []candidate.Item {
	want := taxonomy.FoldKey(treatment)
	if want == "" {
		return items
	}
	return keep(items, func(it candidate.Item) bool {
		for _, t := range p.normalizer.NormalizeAll(it.Treatments) {
			if taxonomy.FoldKey(t) == want {
				return true
			}
		}
		return false
	})
}

func regionOptions(items []candidate.Item) []string {
	out := []string{}
	for _, area := range taxonomy.AllAreas {
		for _, it := range items {
			if RegionMatches(it.AreaNames, string(area)) {
				out = append(out, string(area))
				break
			}
		}
	}
	return out
}

// keep returns a new slice holding the items pred accepts.
func keep(items []candidate.Item, pred func(candidate.Item) bool) []candidate.Item {
	out := make([]candidate.Item, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}
