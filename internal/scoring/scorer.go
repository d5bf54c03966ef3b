// Package scoring ranks filtered candidates against the active interest and
// issue terms and explains each match.
package scoring

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/filter"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Classification is the match bucket of a candidate.
type Classification string

const (
	// MatchNone means no terms were active, so matching does not apply.
	MatchNone  Classification = ""
	MatchExact Classification = "exact"
	MatchClose Classification = "close"
)

// Match reasons.
const (
	ReasonExact          = "Exact match"
	ReasonClose          = "Close match"
	reasonIssueFormat    = "Matches Issue: %s"
	reasonInterestFormat = "Matches Interest: %s"
	reasonAreaFormat     = "Matches Area: %s"
)

// Result pairs a candidate with its score and classification.
type Result struct {
	Item   candidate.Item `json:"item"`
	Score  int            `json:"score"`
	Match  Classification `json:"match,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

// Ranking is a sorted result list and, when terms are active, its exact and
// close buckets in the same order.
type Ranking struct {
	Terms   []string `json:"terms"`
	Results []Result `json:"results"`
	Exact   []Result `json:"exact"`
	Close   []Result `json:"close"`
}

// Scorer scores and sorts candidates. Display names are ordered with a
// locale-aware, case-insensitive collator.
type Scorer struct {
	mu       sync.Mutex
	collator *collate.Collator
}

// New creates a scorer collating with the rules of tag.
func New(tag language.Tag) *Scorer {
	return &Scorer{collator: collate.New(tag, collate.IgnoreCase)}
}

// NewForLocale parses locale and falls back to English when it is invalid.
func NewForLocale(locale string) *Scorer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return New(tag)
}

// Terms returns the active criteria terms: the interest then the issue, when
// set. Region and treatment never contribute terms.
func Terms(c criteria.Criteria) []string {
	terms := make([]string, 0, 2)
	if v := strings.TrimSpace(c.Interest); v != "" {
		terms = append(terms, v)
	}
	if v := strings.TrimSpace(c.Issue); v != "" {
		terms = append(terms, v)
	}
	return terms
}

// Score counts the terms found in the candidate's display name.
func Score(item candidate.Item, terms []string) int {
	name := taxonomy.FoldKey(item.DisplayName)
	score := 0
	for _, term := range terms {
		if t := taxonomy.FoldKey(term); t != "" && strings.Contains(name, t) {
			score++
		}
	}
	return score
}

// Classify returns exact when every term is found, close otherwise, and
// MatchNone when there are no terms.
func Classify(item candidate.Item, terms []string) Classification {
	if len(terms) == 0 {
		return MatchNone
	}
	if Score(item, terms) == len(terms) {
		return MatchExact
	}
	return MatchClose
}

// MatchReason explains why a candidate is shown for c.
func MatchReason(item candidate.Item, c criteria.Criteria) string {
	terms := Terms(c)
	if len(terms) > 0 && Classify(item, terms) == MatchExact {
		return ReasonExact
	}
	name := taxonomy.FoldKey(item.DisplayName)
	if issue := strings.TrimSpace(c.Issue); issue != "" && strings.Contains(name, taxonomy.FoldKey(issue)) {
		return fmt.Sprintf(reasonIssueFormat, issue)
	}
	if interest := strings.TrimSpace(c.Interest); interest != "" && strings.Contains(name, taxonomy.FoldKey(interest)) {
		return fmt.Sprintf(reasonInterestFormat, interest)
	}
	if region := strings.TrimSpace(c.Region); region != "" && filter.RegionMatches(item.AreaNames, region) {
		return fmt.Sprintf(reasonAreaFormat, region)
	}
	return ReasonClose
}

// Sort orders results by descending score, then ascending display name.
// Equal keys keep their input order.
func (s *Scorer) Sort(results []Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return s.collator.CompareString(results[i].Item.DisplayName, results[j].Item.DisplayName) < 0
	})
}

// Partition splits sorted results into exact and close buckets.
func Partition(results []Result) (exact, closeMatches []Result) {
	exact = []Result{}
	closeMatches = []Result{}
	for _, r := range results {
		switch r.Match {
		case MatchExact:
			exact = append(exact, r)
		case MatchClose:
			closeMatches = append(closeMatches, r)
		}
	}
	return exact, closeMatches
}

// Rank scores, classifies and sorts already filtered items for c.
func (s *Scorer) Rank(items []candidate.Item, c criteria.Criteria) Ranking {
	terms := Terms(c)
	results := make([]Result, 0, len(items))
	for _, it := range items {
		r := Result{Item: it, Score: Score(it, terms), Match: Classify(it, terms)}
		if len(terms) > 0 {
			r.Reason = MatchReason(it, c)
		}
		results = append(results, r)
	}
	s.Sort(results)

	ranking := Ranking{Terms: terms, Results: results, Exact: []Result{}, Close: []Result{}}
	if len(terms) > 0 {
		ranking.Exact, ranking.Close = Partition(results)
	}
	return ranking
}
