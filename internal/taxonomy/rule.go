package taxonomy

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MatchMode selects which side of a keyword comparison must contain the other.
type MatchMode int

const (
	// QueryContainsKeyword matches when the lowercased query contains the keyword.
	QueryContainsKeyword MatchMode = iota
	// KeywordContainsQuery matches when the keyword contains the lowercased query.
	KeywordContainsQuery
	// EitherDirection matches when either side contains the other.
	EitherDirection
)

// String returns a readable name for the mode.
func (m MatchMode) String() string {
	switch m {
	case QueryContainsKeyword:
		return "query_contains_keyword"
	case KeywordContainsQuery:
		return "keyword_contains_query"
	case EitherDirection:
		return "either"
	default:
		return "unknown"
	}
}

// Rule is one row of a keyword table.
type Rule[T any] struct {
	Keywords []string
	Result   T
}

// RuleTable is an ordered list of rules evaluated with a single match mode.
type RuleTable[T any] struct {
	Name  string
	Mode  MatchMode
	Rules []Rule[T]
}

// NewRuleTable creates a rule table. Rules keep their declared order.
func NewRuleTable[T any](name string, mode MatchMode, rules []Rule[T]) RuleTable[T] {
	copied := make([]Rule[T], len(rules))
	copy(copied, rules)
	return RuleTable[T]{Name: name, Mode: mode, Rules: copied}
}

// First returns the result of the first rule matching text.
func (t RuleTable[T]) First(text string) (T, bool) {
	for _, rule := range t.Rules {
		if MatchesAny(text, rule.Keywords, t.Mode) {
			return rule.Result, true
		}
	}
	var zero T
	return zero, false
}

// All returns the results of every rule matching text, in table order.
func (t RuleTable[T]) All(text string) []T {
	var results []T
	for _, rule := range t.Rules {
		if MatchesAny(text, rule.Keywords, t.Mode) {
			results = append(results, rule.Result)
		}
	}
	return results
}

// MatchesAny reports whether text matches at least one keyword under mode.
// An empty text or keyword never matches.
func MatchesAny(text string, keywords []string, mode MatchMode) bool {
	query := FoldKey(text)
	if query == "" {
		return false
	}
	for _, kw := range keywords {
		keyword := FoldKey(kw)
		if keyword == "" {
			continue
		}
		switch mode {
		case QueryContainsKeyword:
			if strings.Contains(query, keyword) {
				return true
			}
		case KeywordContainsQuery:
			if strings.Contains(keyword, query) {
				return true
			}
		case EitherDirection:
			if strings.Contains(query, keyword) || strings.Contains(keyword, query) {
				return true
			}
		}
	}
	return false
}

// FoldKey builds the comparison key used by every table: NFKC, trimmed, lowercased.
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}
