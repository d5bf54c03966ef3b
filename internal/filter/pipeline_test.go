package filter

import (
	"testing"

	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/normalize"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
	"github.com/stretchr/testify/assert"
)

func fixtureItems() []candidate.Item {
	return []candidate.Item{
		{ID: "lips-filler", DisplayName: "Balance Lips Case", Treatments: []string{"Fillers"}, AreaNames: []string{"Lips"}},
		{ID: "lips-tox", DisplayName: "Lip Flip", Treatments: []string{"Botox"}, AreaNames: []string{"Lips"}},
		{ID: "skin-laser", DisplayName: "Sun Damage Reset", Treatments: []string{"heat/energy"}, AreaNames: []string{"Skin All"}},
		{ID: "everywhere", DisplayName: "Skincare Routine", Treatments: []string{"oral/topical"}, AreaNames: []string{"All"}},
		{ID: "chin-kybella", DisplayName: "Double Chin", Treatments: []string{"Kybella"}, AreaNames: []string{"Chin", "Neck"}},
		{ID: "nose-surgical", DisplayName: "Nose Job", Treatments: []string{"Rhinoplasty"}, AreaNames: []string{"Nose"}, Surgical: true},
		{ID: "untagged", DisplayName: "Consult", AreaNames: []string{"Elbow"}},
	}
}

func newTestPipeline(cfg Config) *Pipeline {
	reg := taxonomy.Default()
	return New(criteria.NewResolver(reg), normalize.Default(), cfg)
}

func ids(items []candidate.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestRegionMatches(t *testing.T) {
	tests := []struct {
		name     string
		areas    []string
		region   string
		expected bool
	}{
		{"empty region matches anything", []string{"Lips"}, "", true},
		{"empty region matches no areas", nil, " ", true},
		{"case insensitive", []string{"lips"}, "Lips", true},
		{"all suffix stripped", []string{"Skin All"}, "Skin", true},
		{"all suffix case insensitive", []string{"skin ALL"}, "skin", true},
		{"bare all matches any region", []string{"All"}, "Forehead", true},
		{"bare all matches unknown region", []string{"all"}, "Elbows", true},
		{"unknown region matches nothing", []string{"Lips", "Skin All"}, "Elbows", false},
		{"any of several", []string{"Chin", "Neck"}, "neck", true},
		{"miss", []string{"Chin"}, "Lips", false},
		{"suffix needs a word boundary", []string{"Overall"}, "Over", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RegionMatches(tc.areas, tc.region))
		})
	}
}

func TestPipeline_NoCriteriaReturnsEverything(t *testing.T) {
	p := newTestPipeline(Config{})
	items := fixtureItems()
	assert.Equal(t, ids(items), ids(p.Filter(items, criteria.Criteria{})))
}

func TestPipeline_Filter(t *testing.T) {
	p := newTestPipeline(Config{})
	items := fixtureItems()

	tests := []struct {
		name     string
		criteria criteria.Criteria
		expected []string
	}{
		{"interest", criteria.Criteria{Interest: "Balance Lips"}, []string{"lips-filler", "lips-tox"}},
		{"interest and issue", criteria.Criteria{Interest: "Balance Lips", Issue: "Thin Lips"}, []string{"lips-filler"}},
		{"region with all sentinels", criteria.Criteria{Region: "Skin"}, []string{"skin-laser", "everywhere"}},
		{"explicit treatment", criteria.Criteria{Treatment: "neurotoxin"}, []string{"lips-tox"}},
		{"interest and region", criteria.Criteria{Interest: "Enhance Chin", Region: "Neck"}, []string{"chin-kybella"}},
		{"unknown region", criteria.Criteria{Region: "Elbows"}, []string{"everywhere"}},
		{"other interest allows every treatment", criteria.Criteria{Interest: "Other"}, []string{"lips-filler", "lips-tox", "skin-laser", "everywhere", "chin-kybella"}},
		{"disjoint interest and issue", criteria.Criteria{Interest: "Smooth Forehead", Issue: "Flat Cheeks"}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ids(p.Filter(items, tc.criteria)))
		})
	}
}

func TestPipeline_MonotonicNarrowing(t *testing.T) {
	p := newTestPipeline(Config{})
	items := fixtureItems()

	selections := []criteria.Criteria{
		{Interest: "Balance Lips", Issue: "Thin Lips", Region: "Lips", Treatment: "Filler"},
		{Interest: "Improve Skin Quality", Region: "Skin", Treatment: "Laser"},
		{Interest: "Other", Issue: "Double Chin", Region: "Chin"},
		{Issue: "Sun Damage", Region: "Forehead", Treatment: "Skincare"},
		{Interest: "Smooth Forehead", Issue: "Flat Cheeks"},
		{Interest: "Smooth Forehead", Issue: "Double Chin", Region: "Forehead"},
	}

	for _, full := range selections {
		narrowed := ids(p.Filter(items, full))
		for _, field := range []string{"interest", "issue", "region", "treatment"} {
			wider := ids(p.Filter(items, full.Without(field)))
			assert.Subset(t, wider, narrowed, "clearing %s widened %+v", field, full)
		}
	}
}

func TestPipeline_HideSurgical(t *testing.T) {
	items := fixtureItems()

	shown := newTestPipeline(Config{}).Filter(items, criteria.Criteria{Region: "Nose"})
	assert.Equal(t, []string{"everywhere", "nose-surgical"}, ids(shown))

	hidden := newTestPipeline(Config{HideSurgical: true}).Filter(items, criteria.Criteria{Region: "Nose"})
	assert.Equal(t, []string{"everywhere"}, ids(hidden))
}

func TestPipeline_OptionsIgnoreOwnAxis(t *testing.T) {
	p := newTestPipeline(Config{})
	items := fixtureItems()

	c := criteria.Criteria{Region: "Lips", Treatment: "Filler"}
	opts := p.Options(items, c)

	// The selected treatment chip must not hide its siblings.
	assert.Equal(t, []string{"Skincare", "Filler", "Neurotoxin"}, opts.Treatments)
	// Region options are computed without the region stage but still honor
	// the selected treatment.
	assert.Equal(t, []string{"Lips"}, opts.Regions)

	opts = p.Options(items, criteria.Criteria{Region: "Lips"})
	assert.Equal(t, []string{"Forehead", "Eyes", "Cheeks", "Nose", "Lips", "Jawline", "Skin", "Neck", "Chin", "Full Face", "Other"}, opts.Regions)
}

func TestPipeline_OptionsSkipExcludedTags(t *testing.T) {
	p := newTestPipeline(Config{})
	items := []candidate.Item{
		{ID: "a", Treatments: []string{"Liquid Rhinoplasty"}, AreaNames: []string{"Nose"}},
	}

	opts := p.Options(items, criteria.Criteria{})
	assert.Empty(t, opts.Treatments)
	assert.Equal(t, []string{"Nose"}, opts.Regions)
	// The candidate itself stays visible.
	assert.Len(t, p.Filter(items, criteria.Criteria{}), 1)
}
