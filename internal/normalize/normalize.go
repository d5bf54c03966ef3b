// Package normalize canonicalizes free-text treatment names into the fixed
// treatment vocabulary and marks surgical exclusions.
package normalize

import (
	"sort"
	"strings"
	"sync"

	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PreferredOrder lists the treatments shown first in option lists.
var PreferredOrder = []string{
	taxonomy.TreatmentSkincare,
	taxonomy.TreatmentLaser,
	taxonomy.TreatmentFiller,
	taxonomy.TreatmentNeurotoxin,
	taxonomy.TreatmentMicroneedling,
	taxonomy.TreatmentChemicalPeel,
}

// extraExclusions are dropped in addition to the registry's surgical subset.
var extraExclusions = []string{
	"liquid rhinoplasty",
	"non-surgical rhinoplasty",
	"surgery",
	"surgical",
	"implants",
	"chin implant",
	"cheek implant",
	"fat transfer",
}

// renames map lowercase variants to canonical names. No target's lowercase
// form may appear as a key.
var renames = map[string]string{
	"heat/energy":            taxonomy.TreatmentLaser,
	"lasers":                 taxonomy.TreatmentLaser,
	"oral/topical":           taxonomy.TreatmentSkincare,
	"skin care":              taxonomy.TreatmentSkincare,
	"chemical peels":         taxonomy.TreatmentChemicalPeel,
	"peels":                  taxonomy.TreatmentChemicalPeel,
	"fillers":                taxonomy.TreatmentFiller,
	"dermal filler":          taxonomy.TreatmentFiller,
	"dermal fillers":         taxonomy.TreatmentFiller,
	"neurotoxins":            taxonomy.TreatmentNeurotoxin,
	"botox":                  taxonomy.TreatmentNeurotoxin,
	"tox":                    taxonomy.TreatmentNeurotoxin,
	"micro-needling":         taxonomy.TreatmentMicroneedling,
	"microneedling with prp": taxonomy.TreatmentMicroneedling,
	"biostimulatory":         taxonomy.TreatmentBiostimulants,
	"threads":                taxonomy.TreatmentThreadlift,
	"thread lift":            taxonomy.TreatmentThreadlift,
}

// Normalizer maps raw treatment names onto the canonical vocabulary.
type Normalizer struct {
	excluded  map[string]bool
	renames   map[string]string
	preferred map[string]int
	collator  *collate.Collator
	mu        sync.Mutex
}

var (
	defaultOnce       sync.Once
	defaultNormalizer *Normalizer
)

// Default returns a normalizer over the default taxonomy.
func Default() *Normalizer {
	defaultOnce.Do(func() {
		defaultNormalizer = New(taxonomy.Default(), language.English)
	})
	return defaultNormalizer
}

// New creates a normalizer whose exclusions include reg's surgical subset.
// The remainder of option lists is ordered with the collation rules of tag.
func New(reg *taxonomy.Registry, tag language.Tag) *Normalizer {
	n := &Normalizer{
		excluded:  make(map[string]bool),
		renames:   make(map[string]string, len(renames)),
		preferred: make(map[string]int, len(PreferredOrder)),
		collator:  collate.New(tag, collate.IgnoreCase),
	}
	for _, name := range reg.ExcludedTreatments() {
		n.excluded[taxonomy.FoldKey(name)] = true
	}
	for _, name := range extraExclusions {
		n.excluded[name] = true
	}
	for k, v := range renames {
		n.renames[k] = v
	}
	for i, name := range PreferredOrder {
		n.preferred[taxonomy.FoldKey(name)] = i
	}
	return n
}

// NormalizeTreatment returns the canonical treatment name for raw, an empty
// string when raw is excluded, or the trimmed original when untracked.
func (n *Normalizer) NormalizeTreatment(raw string) string {
	key := taxonomy.FoldKey(raw)
	if key == "" || n.excluded[key] {
		return ""
	}
	if target, ok := n.renames[key]; ok {
		return target
	}
	return strings.TrimSpace(raw)
}

// IsExcluded reports whether raw names an excluded (surgical) treatment.
func (n *Normalizer) IsExcluded(raw string) bool {
	return n.excluded[taxonomy.FoldKey(raw)]
}

// NormalizeAll normalizes every tag, dropping empty results and duplicates.
func (n *Normalizer) NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		v := n.NormalizeTreatment(r)
		if v == "" {
			continue
		}
		key := taxonomy.FoldKey(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

// TreatmentOptions collects the normalized treatments present across items,
// preferred treatments first and the remainder in collation order.
func (n *Normalizer) TreatmentOptions(items []candidate.Item) []string {
	spelling := make(map[string]string)
	for _, item := range items {
		for _, t := range n.NormalizeAll(item.Treatments) {
			key := taxonomy.FoldKey(t)
			if _, ok := spelling[key]; !ok {
				spelling[key] = t
			}
		}
	}

	var preferred, rest []string
	for _, name := range PreferredOrder {
		if _, ok := spelling[taxonomy.FoldKey(name)]; ok {
			preferred = append(preferred, name)
		}
	}
	for key, name := range spelling {
		if _, ok := n.preferred[key]; !ok {
			rest = append(rest, name)
		}
	}
	n.sortNames(rest)

	return append(preferred, rest...)
}

// sortNames orders names with the collator, breaking ties on byte order so the
// result does not depend on map iteration.
func (n *Normalizer) sortNames(names []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	sort.SliceStable(names, func(i, j int) bool {
		if c := n.collator.CompareString(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
}

// NormalizeTreatment normalizes raw with the default normalizer.
func NormalizeTreatment(raw string) string {
	return Default().NormalizeTreatment(raw)
}

// TreatmentOptions computes option lists with the default normalizer.
func TreatmentOptions(items []candidate.Item) []string {
	return Default().TreatmentOptions(items)
}
