// Package catalog holds the filter/rank engine and the facet index over an
// in-memory set of video records.
package catalog

import (
	"strings"

	"bjj-foundation/internal/domain"
)

// Facet is a classification key on technique records.
type Facet string

const (
	FacetGuard      Facet = "guard_type"
	FacetPass       Facet = "pass"
	FacetSweep      Facet = "sweep"
	FacetPosition   Facet = "position"
	FacetSubmission Facet = "submission"
	FacetTakedown   Facet = "takedown"
	FacetTechnique  Facet = "technique"
)

// IndexedFacets are the facets the index exposes as selectable options.
var IndexedFacets = []Facet{
	FacetGuard,
	FacetPass,
	FacetSweep,
	FacetPosition,
	FacetSubmission,
	FacetTakedown,
}

var knownFacets = map[Facet]bool{
	FacetGuard:      true,
	FacetPass:       true,
	FacetSweep:      true,
	FacetPosition:   true,
	FacetSubmission: true,
	FacetTakedown:   true,
	FacetTechnique:  true,
}

// ParseFacet maps a filter value to a facet key, case-insensitively.
func ParseFacet(s string) (Facet, bool) {
	f := Facet(strings.ToLower(strings.TrimSpace(s)))
	return f, knownFacets[f]
}

func (f Facet) values(r *domain.VideoRecord) domain.StringList {
	return r.Classification.Values(string(f))
}

// MatchPolicy says how a facet filter value is tested against a record.
type MatchPolicy int

const (
	// MatchMembership requires the facet to contain the filter value.
	MatchMembership MatchPolicy = iota
	// MatchPresence treats the filter value as a facet name and requires that
	// facet to be non-empty.
	MatchPresence
)

// FacetFilter binds one technique filter of a FilterState to its facet and policy.
type FacetFilter struct {
	Key    string
	Facet  Facet
	Policy MatchPolicy
	value  func(*FilterState) *string
}

// Value returns the filter's current value in s.
func (ff FacetFilter) Value(s *FilterState) string {
	return *ff.value(s)
}

// Set stores v as the filter's value in s.
func (ff FacetFilter) Set(s *FilterState, v string) {
	*ff.value(s) = v
}

func (ff FacetFilter) match(r *domain.VideoRecord, want string) bool {
	switch ff.Policy {
	case MatchPresence:
		facet, ok := ParseFacet(want)
		if !ok {
			return false
		}
		return len(facet.values(r)) > 0
	default:
		for _, v := range ff.Facet.values(r) {
			if strings.ToLower(v) == want {
				return true
			}
		}
		return false
	}
}

// FacetFilters lists the technique filters in evaluation order.
var FacetFilters = []FacetFilter{
	{Key: "category", Policy: MatchPresence, value: func(s *FilterState) *string { return &s.TechniqueCategory }},
	{Key: "guard", Facet: FacetGuard, value: func(s *FilterState) *string { return &s.Guard }},
	{Key: "pass", Facet: FacetPass, value: func(s *FilterState) *string { return &s.Pass }},
	{Key: "sweep", Facet: FacetSweep, value: func(s *FilterState) *string { return &s.Sweep }},
	{Key: "position", Facet: FacetPosition, value: func(s *FilterState) *string { return &s.Position }},
	{Key: "submission", Facet: FacetSubmission, value: func(s *FilterState) *string { return &s.Submission }},
	{Key: "takedown", Facet: FacetTakedown, value: func(s *FilterState) *string { return &s.Takedown }},
}

// LookupFacetFilter finds a technique filter by key.
func LookupFacetFilter(key string) (FacetFilter, bool) {
	for _, ff := range FacetFilters {
		if ff.Key == key {
			return ff, true
		}
	}
	return FacetFilter{}, false
}
