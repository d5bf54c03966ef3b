package recommend

import (
	"testing"

	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/normalize"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecommender() *Recommender {
	return New(taxonomy.Default(), normalize.Default())
}

func TestGoalRegionTreatmentsForFinding(t *testing.T) {
	r := newTestRecommender()

	goal, ok := r.GoalRegionTreatmentsForFinding("Thin Lips")
	require.True(t, ok)
	assert.Equal(t, taxonomy.FindingGoal{
		Goal:       "Balance Lips",
		Region:     taxonomy.AreaLips,
		Treatments: []string{"Filler", "Neurotoxin"},
	}, goal)

	goal, ok = r.GoalRegionTreatmentsForFinding("gummy smile")
	require.True(t, ok)
	assert.Equal(t, []string{"Neurotoxin"}, goal.Treatments)

	_, ok = r.GoalRegionTreatmentsForFinding("Other finding")
	assert.False(t, ok)
	_, ok = r.GoalRegionTreatmentsForFinding("hair loss")
	assert.False(t, ok)
	_, ok = r.GoalRegionTreatmentsForFinding("")
	assert.False(t, ok)
}

func TestGoalsAndRegionsForTreatment(t *testing.T) {
	r := newTestRecommender()

	gr := r.GoalsAndRegionsForTreatment("Neurotoxin")
	assert.False(t, gr.Fallback)
	assert.Equal(t, []string{
		"Balance Lips", "Smooth Forehead", "Brighten Eyes", "Define Jawline", "Tighten Neck", "Full Face Rejuvenation",
	}, gr.Goals)
	assert.Equal(t, []string{"Forehead", "Eyes", "Lips", "Jawline", "Neck", "Full Face"}, gr.Regions)

	gr = r.GoalsAndRegionsForTreatment("kybella")
	assert.Equal(t, []string{"Define Jawline", "Enhance Chin"}, gr.Goals)
	assert.Equal(t, []string{"Jawline", "Chin"}, gr.Regions)
}

func TestGoalsAndRegionsForTreatment_Fallback(t *testing.T) {
	r := newTestRecommender()
	reg := taxonomy.Default()

	for _, treatment := range []string{"UnknownTreatmentX", ""} {
		gr := r.GoalsAndRegionsForTreatment(treatment)
		assert.True(t, gr.Fallback)
		assert.Equal(t, reg.Suggestions(), gr.Goals)
		assert.Len(t, gr.Regions, len(taxonomy.AllAreas))
		assert.NotEmpty(t, gr.Goals)
	}
}

func TestRecommendedProducts(t *testing.T) {
	r := newTestRecommender()

	got := r.RecommendedProducts("Filler", "patient wants more volume in cheek")
	assert.Contains(t, got, "Hyaluronic acid (HA) – cheek")
	assert.NotContains(t, got, "Hyaluronic acid (HA) – lips")
	assert.NotContains(t, got, "Hyaluronic acid (HA) – under eye")
	assert.NotContains(t, got, "Hyaluronic acid (HA) – chin & jawline")
	// Deduplicated across rows, first-seen order.
	assert.Equal(t, []string{"Hyaluronic acid (HA) – cheek", "Calcium hydroxylapatite (CaHA)"}, got)

	// Rows pointing outside the catalogue are dropped silently.
	assert.Empty(t, r.RecommendedProducts("Filler", "nasal bridge"))
	assert.Empty(t, r.RecommendedProducts("Filler", ""))
	assert.Empty(t, r.RecommendedProducts("Kybella", "double chin"))
	assert.Empty(t, r.RecommendedProducts("Unknown", "cheek"))

	assert.Equal(t, []string{"Botox", "Dysport"}, r.RecommendedProducts("neurotoxin", "Frown lines"))
}

func TestPrefillFromCandidate(t *testing.T) {
	r := newTestRecommender()
	item := candidate.Item{
		ID:          "p1",
		DisplayName: "Cheek volume case",
		Treatments:  []string{"Liquid Rhinoplasty", "Fillers"},
		AreaNames:   []string{"All", "Cheeks All"},
		Caption:     "Two syringes",
	}

	tests := []struct {
		name     string
		item     candidate.Item
		criteria criteria.Criteria
		explicit string
		expected Prefill
	}{
		{
			name:     "explicit region wins",
			item:     item,
			criteria: criteria.Criteria{Interest: "Restore Cheek Volume", Region: "Lips"},
			explicit: "Chin",
			expected: Prefill{
				Interest: "Restore Cheek Volume", Region: "Chin", Treatment: "Filler",
				TreatmentProduct: "Hyaluronic acid (HA) – cheek", Notes: "Two syringes",
			},
		},
		{
			name:     "candidate area before criteria region",
			item:     item,
			criteria: criteria.Criteria{Region: "Lips", Issue: "Flat Cheeks"},
			expected: Prefill{
				Region: "Cheeks", Treatment: "Filler", TreatmentProduct: "Hyaluronic acid (HA) – cheek",
				Findings: []string{"Flat Cheeks"}, Notes: "Two syringes",
			},
		},
		{
			name:     "criteria region when the candidate has none",
			item:     candidate.Item{ID: "p2", Treatments: []string{"Facelift"}, AreaNames: []string{"All"}},
			criteria: criteria.Criteria{Region: "Lips"},
			expected: Prefill{Region: "Lips", Treatment: "Treatment"},
		},
		{
			name:     "all suffix stripped in any case",
			item:     candidate.Item{ID: "p4", Treatments: []string{"Botox"}, AreaNames: []string{"All", "lips ALL"}},
			criteria: criteria.Criteria{Region: "Chin"},
			expected: Prefill{Region: "Lips", Treatment: "Neurotoxin"},
		},
		{
			name:     "criteria treatment fills an untagged candidate",
			item:     candidate.Item{ID: "p3"},
			criteria: criteria.Criteria{Treatment: "botox"},
			expected: Prefill{Treatment: "Neurotoxin"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, r.PrefillFromCandidate(tc.item, tc.criteria, tc.explicit))
		})
	}
}

func TestPrefillFromFinding(t *testing.T) {
	r := newTestRecommender()

	p := r.PrefillFromFinding("Thin Lips")
	assert.Equal(t, "Balance Lips", p.Interest)
	assert.Equal(t, "Lips", p.Region)
	assert.Equal(t, "Filler", p.Treatment)
	assert.Equal(t, "Hyaluronic acid (HA) – lips", p.TreatmentProduct)
	assert.Equal(t, []string{"Thin Lips"}, p.Findings)

	p = r.PrefillFromFinding("Other finding")
	assert.Equal(t, Prefill{Treatment: "Treatment", Findings: []string{"Other finding"}}, p)
}

func TestPrefillFromTreatment(t *testing.T) {
	r := newTestRecommender()

	p := r.PrefillFromTreatment("Fillers", "patient wants more volume in cheek")
	assert.Equal(t, "Filler", p.Treatment)
	assert.Equal(t, "Restore Cheek Volume", p.Interest)
	assert.Equal(t, "Cheeks", p.Region)
	assert.Equal(t, "Hyaluronic acid (HA) – cheek", p.TreatmentProduct)

	p = r.PrefillFromTreatment("UnknownTreatmentX", "")
	assert.Equal(t, Prefill{Treatment: "UnknownTreatmentX"}, p)

	p = r.PrefillFromTreatment("Rhinoplasty", "")
	assert.Equal(t, "Treatment", p.Treatment)
}
