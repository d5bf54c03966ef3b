// Package recommend derives goal, region, treatment and product bundles from
// findings, treatments and free-text context.
package recommend

import (
	"strings"

	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/normalize"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
)

// OtherFinding is the finding sentinel that never resolves to a bundle.
const OtherFinding = "Other finding"

// GoalsAndRegions lists candidate goals and regions for a treatment.
type GoalsAndRegions struct {
	Goals   []string `json:"goals"`
	Regions []string `json:"regions"`
	// Fallback is true when nothing matched and the full catalogues were returned.
	Fallback bool `json:"fallback"`
}

// Recommender answers recommendation queries over a taxonomy. It is
// stateless and safe for concurrent use.
type Recommender struct {
	reg        *taxonomy.Registry
	normalizer *normalize.Normalizer
	resolver   *criteria.Resolver
}

// New creates a recommender.
func New(reg *taxonomy.Registry, normalizer *normalize.Normalizer) *Recommender {
	return &Recommender{reg: reg, normalizer: normalizer, resolver: criteria.NewResolver(reg)}
}

// GoalRegionTreatmentsForFinding returns the bundle of the first finding row
// whose keyword the finding contains.
func (r *Recommender) GoalRegionTreatmentsForFinding(finding string) (taxonomy.FindingGoal, bool) {
	if strings.EqualFold(strings.TrimSpace(finding), OtherFinding) {
		return taxonomy.FindingGoal{}, false
	}
	return r.reg.FindingGoal(finding)
}

// GoalsAndRegionsForTreatment collects the goals whose interest keywords lead
// to treatment and the regions those goals map to. It never returns empty
// lists: without a match the full goal and region catalogues are returned.
func (r *Recommender) GoalsAndRegionsForTreatment(treatment string) GoalsAndRegions {
	want := taxonomy.FoldKey(treatment)

	var keywords []string
	if want != "" {
		for _, rule := range r.reg.InterestTreatmentRules().Rules {
			for _, t := range rule.Result {
				if taxonomy.FoldKey(t) == want {
					keywords = append(keywords, rule.Keywords...)
					break
				}
			}
		}
	}

	var goals []string
	for _, s := range r.reg.Suggestions() {
		if taxonomy.MatchesAny(s, keywords, taxonomy.QueryContainsKeyword) {
			goals = append(goals, s)
		}
	}

	if len(goals) == 0 {
		return GoalsAndRegions{
			Goals:    r.reg.Suggestions(),
			Regions:  areaNames(r.reg.Areas()),
			Fallback: true,
		}
	}

	seen := make(map[taxonomy.Area]bool)
	for _, g := range goals {
		areas := r.reg.RegionsForInterest(g)
		if len(areas) == 0 {
			if a, ok := r.reg.AreaForSuggestion(g); ok {
				areas = []taxonomy.Area{a}
			}
		}
		for _, a := range areas {
			seen[a] = true
		}
	}
	var regions []taxonomy.Area
	for _, a := range taxonomy.AllAreas {
		if seen[a] {
			regions = append(regions, a)
		}
	}

	return GoalsAndRegions{Goals: goals, Regions: areaNames(regions)}
}

// RecommendedProducts returns the treatment's products whose keywords occur in
// context, in first-seen order. Rows naming products outside the treatment's
// catalogue contribute nothing for those products.
func (r *Recommender) RecommendedProducts(treatment, context string) []string {
	out := []string{}
	table, ok := r.reg.ProductKeywordRules(treatment)
	if !ok {
		return out
	}

	catalogue := make(map[string]bool)
	for _, p := range r.reg.ProductsForTreatment(treatment) {
		catalogue[taxonomy.FoldKey(p)] = true
	}

	seen := make(map[string]bool)
	for _, products := range table.All(context) {
		for _, p := range products {
			key := taxonomy.FoldKey(p)
			if !catalogue[key] || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}

func areaNames(areas []taxonomy.Area) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		out = append(out, string(a))
	}
	return out
}
