package recommend

import (
	"strings"

	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
)

// FallbackTreatment is used when no treatment survives normalization.
const FallbackTreatment = "Treatment"

// Prefill seeds a new plan entry.
type Prefill struct {
	Interest         string   `json:"interest"`
	Region           string   `json:"region"`
	Treatment        string   `json:"treatment"`
	TreatmentProduct string   `json:"treatmentProduct,omitempty"`
	Findings         []string `json:"findings,omitempty"`
	Timeline         string   `json:"timeline,omitempty"`
	Quantity         string   `json:"quantity,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// PrefillFromCandidate builds a prefill for an "add to plan" action on a
// candidate. The region falls back from explicitRegion to the candidate's own
// area to the criteria region.
func (r *Recommender) PrefillFromCandidate(item candidate.Item, c criteria.Criteria, explicitRegion string) Prefill {
	treatment := r.firstTreatment(item.Treatments)
	if treatment == "" {
		treatment = r.treatmentOrFallback(c.Treatment)
	}

	p := Prefill{
		Interest:  strings.TrimSpace(c.Interest),
		Region:    firstNonEmpty(strings.TrimSpace(explicitRegion), ownArea(item.AreaNames), strings.TrimSpace(c.Region)),
		Treatment: treatment,
		Notes:     item.Caption,
	}
	if issue := strings.TrimSpace(c.Issue); issue != "" {
		p.Findings = []string{issue}
	}
	context := strings.Join([]string{item.DisplayName, item.Caption, item.Story, c.Interest, c.Issue}, " ")
	if products := r.RecommendedProducts(p.Treatment, context); len(products) > 0 {
		p.TreatmentProduct = products[0]
	}
	return p
}

// PrefillFromFinding builds a prefill from a clinical finding.
func (r *Recommender) PrefillFromFinding(finding string) Prefill {
	finding = strings.TrimSpace(finding)
	p := Prefill{Treatment: FallbackTreatment}
	if finding != "" {
		p.Findings = []string{finding}
	}

	goal, ok := r.GoalRegionTreatmentsForFinding(finding)
	if !ok {
		return p
	}
	p.Interest = goal.Goal
	p.Region = string(goal.Region)
	p.Treatment = r.treatmentOrFallback(firstOf(goal.Treatments))
	if products := r.RecommendedProducts(p.Treatment, finding); len(products) > 0 {
		p.TreatmentProduct = products[0]
	}
	return p
}

// PrefillFromTreatment builds a prefill from a treatment and optional free
// text. Goal and region are only filled when the treatment maps to goals.
func (r *Recommender) PrefillFromTreatment(treatment, context string) Prefill {
	p := Prefill{Treatment: r.treatmentOrFallback(treatment)}

	gr := r.GoalsAndRegionsForTreatment(p.Treatment)
	if !gr.Fallback {
		p.Interest = pickByContext(gr.Goals, context)
		if area, ok := r.resolver.RegionForInterest(p.Interest); ok {
			p.Region = string(area)
		}
	}
	if products := r.RecommendedProducts(p.Treatment, context); len(products) > 0 {
		p.TreatmentProduct = products[0]
	}
	return p
}

func (r *Recommender) firstTreatment(raw []string) string {
	return firstOf(r.normalizer.NormalizeAll(raw))
}

func (r *Recommender) treatmentOrFallback(raw string) string {
	if t := r.normalizer.NormalizeTreatment(raw); t != "" {
		return t
	}
	return FallbackTreatment
}

// ownArea returns the first raw area name that is a known area, with any
// trailing " All" removed. A bare "All" names no single area.
func ownArea(areaNames []string) string {
	for _, name := range areaNames {
		if area, ok := taxonomy.ParseArea(taxonomy.StripAllSuffix(name)); ok {
			return string(area)
		}
	}
	return ""
}

// pickByContext returns the first goal sharing a word with context, or the
// first goal.
func pickByContext(goals []string, context string) string {
	ctx := taxonomy.FoldKey(context)
	if ctx != "" {
		for _, g := range goals {
			for _, word := range strings.Fields(taxonomy.FoldKey(g)) {
				if len(word) > 3 && strings.Contains(ctx, word) {
					return g
				}
			}
		}
	}
	return firstOf(goals)
}

func firstOf(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
