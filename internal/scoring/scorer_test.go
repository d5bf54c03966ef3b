package scoring

import (
	"testing"

	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestScoreAndClassify(t *testing.T) {
	terms := []string{"Balance Lips", "Thin Lips"}

	tests := []struct {
		name     string
		display  string
		score    int
		expected Classification
	}{
		{"both terms", "Balance Lips Case — Thin Lips Before/After", 2, MatchExact},
		{"one term", "Thin Lips Before/After", 1, MatchClose},
		{"no terms", "Filler Case 4", 0, MatchClose},
		{"case insensitive", "BALANCE LIPS and thin lips", 2, MatchExact},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := candidate.Item{DisplayName: tc.display}
			assert.Equal(t, tc.score, Score(item, terms))
			assert.Equal(t, tc.expected, Classify(item, terms))
		})
	}
}

func TestClassify_NoTerms(t *testing.T) {
	assert.Equal(t, MatchNone, Classify(candidate.Item{DisplayName: "anything"}, nil))
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"Balance Lips", "Thin Lips"},
		Terms(criteria.Criteria{Interest: "Balance Lips", Issue: " Thin Lips ", Region: "Lips", Treatment: "Filler"}))
	assert.Empty(t, Terms(criteria.Criteria{Region: "Lips", Treatment: "Filler"}))
}

func TestMatchReason(t *testing.T) {
	c := criteria.Criteria{Interest: "Balance Lips", Issue: "Thin Lips", Region: "Lips"}

	tests := []struct {
		name     string
		item     candidate.Item
		criteria criteria.Criteria
		expected string
	}{
		{"exact", candidate.Item{DisplayName: "Balance Lips: Thin Lips"}, c, "Exact match"},
		{"issue before interest", candidate.Item{DisplayName: "Thin Lips fix"}, c, "Matches Issue: Thin Lips"},
		{"interest", candidate.Item{DisplayName: "Balance Lips journey"}, c, "Matches Interest: Balance Lips"},
		{"area", candidate.Item{DisplayName: "Filler Case 4", AreaNames: []string{"Lips"}}, c, "Matches Area: Lips"},
		{"area via all sentinel", candidate.Item{DisplayName: "Filler Case 4", AreaNames: []string{"All"}}, c, "Matches Area: Lips"},
		{"close", candidate.Item{DisplayName: "Filler Case 4", AreaNames: []string{"Chin"}}, c, "Close match"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MatchReason(tc.item, tc.criteria))
		})
	}
}

func TestScorer_SortTieBreak(t *testing.T) {
	s := New(language.English)
	results := []Result{
		{Item: candidate.Item{ID: "1", DisplayName: "zeta"}, Score: 1},
		{Item: candidate.Item{ID: "2", DisplayName: "Alpha"}, Score: 1},
		{Item: candidate.Item{ID: "3", DisplayName: "beta"}, Score: 2},
		{Item: candidate.Item{ID: "4", DisplayName: "Épée"}, Score: 1},
		{Item: candidate.Item{ID: "5", DisplayName: "alpha"}, Score: 1},
	}
	s.Sort(results)

	got := make([]string, 0, len(results))
	for _, r := range results {
		got = append(got, r.Item.ID)
	}
	// Case-insensitive ties keep input order; accented letters collate with their base.
	assert.Equal(t, []string{"3", "2", "5", "4", "1"}, got)
}

func TestScorer_Rank(t *testing.T) {
	s := NewForLocale("en-US")
	items := []candidate.Item{
		{ID: "close", DisplayName: "Filler Case 4", AreaNames: []string{"Lips"}},
		{ID: "exact", DisplayName: "Balance Lips Case — Thin Lips Before/After"},
		{ID: "partial", DisplayName: "Thin Lips Before/After"},
	}

	ranking := s.Rank(items, criteria.Criteria{Interest: "Balance Lips", Issue: "Thin Lips", Region: "Lips"})

	require.Len(t, ranking.Results, 3)
	assert.Equal(t, "exact", ranking.Results[0].Item.ID)
	assert.Equal(t, "partial", ranking.Results[1].Item.ID)
	assert.Equal(t, "close", ranking.Results[2].Item.ID)

	require.Len(t, ranking.Exact, 1)
	assert.Equal(t, "Exact match", ranking.Exact[0].Reason)
	require.Len(t, ranking.Close, 2)
	assert.Equal(t, "partial", ranking.Close[0].Item.ID)
	assert.Equal(t, "Matches Area: Lips", ranking.Close[1].Reason)
}

func TestScorer_RankWithoutTerms(t *testing.T) {
	s := NewForLocale("not a locale!")
	items := []candidate.Item{
		{ID: "b", DisplayName: "beta"},
		{ID: "a", DisplayName: "Alpha"},
	}

	ranking := s.Rank(items, criteria.Criteria{Region: "Lips"})
	assert.Empty(t, ranking.Exact)
	assert.Empty(t, ranking.Close)
	require.Len(t, ranking.Results, 2)
	assert.Equal(t, "a", ranking.Results[0].Item.ID)
	assert.Equal(t, MatchNone, ranking.Results[0].Match)
	assert.Empty(t, ranking.Results[0].Reason)
}
