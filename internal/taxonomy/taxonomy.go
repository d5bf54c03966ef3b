// Package taxonomy provides the read-only domain ontology used by the matching engine.
package taxonomy

import (
	"strings"
	"sync"
)

// Area represents a canonical body region.
type Area string

const (
	AreaForehead Area = "Forehead"
	AreaEyes     Area = "Eyes"
	AreaCheeks   Area = "Cheeks"
	AreaNose     Area = "Nose"
	AreaLips     Area = "Lips"
	AreaJawline  Area = "Jawline"
	AreaSkin     Area = "Skin"
	AreaNeck     Area = "Neck"
	AreaChin     Area = "Chin"
	AreaFullFace Area = "Full Face"
	AreaOther    Area = "Other"
)

// AllAreas lists the closed area enumeration in display order.
var AllAreas = []Area{
	AreaForehead, AreaEyes, AreaCheeks, AreaNose, AreaLips, AreaJawline,
	AreaSkin, AreaNeck, AreaChin, AreaFullFace, AreaOther,
}

const allAreasWord = "all"

// StripAllSuffix trims name and removes a trailing " All" in any case, so
// "Skin All" becomes "Skin". A bare "All" comes back trimmed.
func StripAllSuffix(name string) string {
	name = strings.TrimSpace(name)
	const suffix = " " + allAreasWord
	if n := len(name) - len(suffix); n > 0 && strings.EqualFold(name[n:], suffix) {
		return strings.TrimSpace(name[:n])
	}
	return name
}

// AppliesToAllAreas reports whether a raw area name is the "All" sentinel.
func AppliesToAllAreas(name string) bool {
	return strings.EqualFold(StripAllSuffix(name), allAreasWord)
}

// ParseArea maps a raw area string onto the enumeration, case-insensitively.
func ParseArea(s string) (Area, bool) {
	key := FoldKey(s)
	for _, a := range AllAreas {
		if FoldKey(string(a)) == key {
			return a, true
		}
	}
	return "", false
}

// GeneralCategory represents one of the top-level concern categories.
type GeneralCategory string

const (
	CategorySkinHealth  GeneralCategory = "Skin Health"
	CategoryVolumeLoss  GeneralCategory = "Volume Loss"
	CategoryProportions GeneralCategory = "Proportions"
	CategorySkinLaxity  GeneralCategory = "Skin Laxity"
	CategoryExcessFat   GeneralCategory = "Excess Fat"
)

// Concern groups issues under one general category.
type Concern struct {
	Name     string
	Category GeneralCategory
	Areas    []Area
}

// Meta holds optional treatment metadata. Empty fields are unknown.
type Meta struct {
	Longevity  string `json:"longevity,omitempty" yaml:"longevity,omitempty"`
	Downtime   string `json:"downtime,omitempty" yaml:"downtime,omitempty"`
	PriceRange string `json:"priceRange,omitempty" yaml:"price_range,omitempty"`
}

// FindingGoal is the bundle a finding resolves to.
type FindingGoal struct {
	Goal       string   `json:"goal"`
	Region     Area     `json:"region"`
	Treatments []string `json:"treatments"`
}

// OtherSentinel is the catch-all label used by suggestion and product lists.
const OtherSentinel = "Other"

// SuggestionDef declares one suggestion (interest).
type SuggestionDef struct {
	Name   string
	Area   Area
	Issues []string
}

// IssueDef declares one issue with its concerns and primary area.
type IssueDef struct {
	Name     string
	Area     Area
	Concerns []string
}

// TreatmentDef declares one treatment category.
type TreatmentDef struct {
	Name     string
	Excluded bool
	Products []string
	Meta     *Meta
}

// Data holds the literal tables a Registry is built from.
type Data struct {
	Concerns           []Concern
	Issues             []IssueDef
	Suggestions        []SuggestionDef
	Treatments         []TreatmentDef
	InterestTreatments []Rule[[]string]
	IssueTreatments    []Rule[[]string]
	Findings           []Rule[FindingGoal]
	InterestRegions    []Rule[Area]
	ProductKeywords    map[string][]Rule[[]string]
}

// Registry exposes pure, total lookups over the taxonomy. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	suggestions        []string
	areaBySuggestion   map[string]Area
	issuesBySuggestion map[string][]string

	issues          []string
	concerns        map[string]Concern
	concernsByIssue map[string][]string
	areaByIssue     map[string]Area

	treatments []string
	excluded   []string
	products   map[string][]string
	meta       map[string]Meta

	interestTreatments RuleTable[[]string]
	issueTreatments    RuleTable[[]string]
	findings           RuleTable[FindingGoal]
	interestRegions    RuleTable[Area]
	productKeywords    map[string]RuleTable[[]string]
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the built-in tables.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(DefaultData())
	})
	return defaultRegistry
}

// New builds a registry from data.
func New(d Data) *Registry {
	r := &Registry{
		areaBySuggestion:   make(map[string]Area, len(d.Suggestions)),
		issuesBySuggestion: make(map[string][]string, len(d.Suggestions)),
		concerns:           make(map[string]Concern, len(d.Concerns)),
		concernsByIssue:    make(map[string][]string, len(d.Issues)),
		areaByIssue:        make(map[string]Area, len(d.Issues)),
		products:           make(map[string][]string, len(d.Treatments)),
		meta:               make(map[string]Meta, len(d.Treatments)),
		productKeywords:    make(map[string]RuleTable[[]string], len(d.ProductKeywords)),
	}

	for _, s := range d.Suggestions {
		key := FoldKey(s.Name)
		r.suggestions = append(r.suggestions, s.Name)
		r.areaBySuggestion[key] = s.Area
		r.issuesBySuggestion[key] = cloneStrings(s.Issues)
	}

	for _, c := range d.Concerns {
		c.Areas = append([]Area(nil), c.Areas...)
		r.concerns[FoldKey(c.Name)] = c
	}

	for _, is := range d.Issues {
		key := FoldKey(is.Name)
		r.issues = append(r.issues, is.Name)
		r.concernsByIssue[key] = cloneStrings(is.Concerns)
		if is.Area != "" {
			r.areaByIssue[key] = is.Area
		}
	}

	for _, t := range d.Treatments {
		if t.Excluded {
			r.excluded = append(r.excluded, t.Name)
			continue
		}
		key := FoldKey(t.Name)
		r.treatments = append(r.treatments, t.Name)
		r.products[key] = withOtherSentinel(t.Products)
		if t.Meta != nil {
			r.meta[key] = *t.Meta
		}
	}

	r.interestTreatments = NewRuleTable("interest_treatments", QueryContainsKeyword, d.InterestTreatments)
	r.issueTreatments = NewRuleTable("issue_treatments", EitherDirection, d.IssueTreatments)
	r.findings = NewRuleTable("findings", QueryContainsKeyword, d.Findings)
	r.interestRegions = NewRuleTable("interest_regions", QueryContainsKeyword, d.InterestRegions)
	for treatment, rules := range d.ProductKeywords {
		r.productKeywords[FoldKey(treatment)] = NewRuleTable("products:"+treatment, QueryContainsKeyword, rules)
	}

	return r
}

// Suggestions returns every suggestion name in declaration order.
func (r *Registry) Suggestions() []string {
	return cloneStrings(r.suggestions)
}

// Issues returns every issue name in declaration order.
func (r *Registry) Issues() []string {
	return cloneStrings(r.issues)
}

// Areas returns the closed area enumeration.
func (r *Registry) Areas() []Area {
	return append([]Area(nil), AllAreas...)
}

// Treatments returns the non-excluded treatment categories in declaration order.
func (r *Registry) Treatments() []string {
	return cloneStrings(r.treatments)
}

// ExcludedTreatments returns the surgical subset.
func (r *Registry) ExcludedTreatments() []string {
	return cloneStrings(r.excluded)
}

// AreaForSuggestion returns the single area a suggestion maps to.
func (r *Registry) AreaForSuggestion(name string) (Area, bool) {
	a, ok := r.areaBySuggestion[FoldKey(name)]
	return a, ok
}

// IssuesForSuggestion returns the feature breakdown of a suggestion.
func (r *Registry) IssuesForSuggestion(name string) []string {
	return cloneStrings(r.issuesBySuggestion[FoldKey(name)])
}

// ConcernsForIssue returns the concerns an issue belongs to.
func (r *Registry) ConcernsForIssue(name string) []Concern {
	names := r.concernsByIssue[FoldKey(name)]
	if len(names) == 0 {
		return nil
	}
	out := make([]Concern, 0, len(names))
	for _, n := range names {
		if c, ok := r.concerns[FoldKey(n)]; ok {
			c.Areas = append([]Area(nil), c.Areas...)
			out = append(out, c)
		}
	}
	return out
}

// AreasForIssue returns the union of areas across the issue's concerns,
// in enumeration order.
func (r *Registry) AreasForIssue(name string) []Area {
	seen := make(map[Area]bool)
	for _, c := range r.ConcernsForIssue(name) {
		for _, a := range c.Areas {
			seen[a] = true
		}
	}
	var out []Area
	for _, a := range AllAreas {
		if seen[a] {
			out = append(out, a)
		}
	}
	return out
}

// CategoriesForIssue returns the distinct general categories of an issue.
func (r *Registry) CategoriesForIssue(name string) []GeneralCategory {
	var out []GeneralCategory
	seen := make(map[GeneralCategory]bool)
	for _, c := range r.ConcernsForIssue(name) {
		if !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	return out
}

// AreaForIssue returns the primary area recorded for an issue.
func (r *Registry) AreaForIssue(name string) (Area, bool) {
	a, ok := r.areaByIssue[FoldKey(name)]
	return a, ok
}

// TreatmentsForInterest returns the union of every Interest→Treatment row the
// interest name contains a keyword of. Unknown interests return nil.
func (r *Registry) TreatmentsForInterest(name string) []string {
	return flattenUnique(r.interestTreatments.All(name))
}

// TreatmentsForIssue returns the union of every Issue→Treatment row matching
// the issue text in either direction.
func (r *Registry) TreatmentsForIssue(name string) []string {
	return flattenUnique(r.issueTreatments.All(name))
}

// InterestTreatmentRules returns the Interest→Treatment table.
func (r *Registry) InterestTreatmentRules() RuleTable[[]string] {
	return r.interestTreatments
}

// RegionsForInterest returns every area whose Interest→Region row matches.
func (r *Registry) RegionsForInterest(name string) []Area {
	var out []Area
	seen := make(map[Area]bool)
	for _, a := range r.interestRegions.All(name) {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// FindingGoal returns the first finding row whose keyword the finding contains.
func (r *Registry) FindingGoal(finding string) (FindingGoal, bool) {
	g, ok := r.findings.First(finding)
	if !ok {
		return FindingGoal{}, false
	}
	g.Treatments = cloneStrings(g.Treatments)
	return g, true
}

// ProductsForTreatment returns the product catalogue of a treatment.
func (r *Registry) ProductsForTreatment(name string) []string {
	return cloneStrings(r.products[FoldKey(name)])
}

// ProductKeywordRules returns the keyword table scoped to a treatment.
func (r *Registry) ProductKeywordRules(treatment string) (RuleTable[[]string], bool) {
	t, ok := r.productKeywords[FoldKey(treatment)]
	return t, ok
}

// MetaForTreatment returns longevity, downtime and price range if recorded.
func (r *Registry) MetaForTreatment(name string) (Meta, bool) {
	m, ok := r.meta[FoldKey(name)]
	return m, ok
}

// IsKnownTreatment reports whether name is a non-excluded treatment category.
func (r *Registry) IsKnownTreatment(name string) bool {
	_, ok := r.products[FoldKey(name)]
	return ok
}

func withOtherSentinel(products []string) []string {
	out := make([]string, 0, len(products)+1)
	for _, p := range products {
		if strings.EqualFold(p, OtherSentinel) {
			continue
		}
		out = append(out, p)
	}
	return append(out, OtherSentinel)
}

func flattenUnique(groups [][]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, g := range groups {
		for _, v := range g {
			key := FoldKey(v)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, v)
		}
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
