package catalog

import (
	"cmp"
	"slices"
	"strings"

	"bjj-foundation/internal/domain"
)

// FilterState is the user's current selection. Empty fields impose no constraint.
type FilterState struct {
	TechniqueCategory string `json:"category,omitempty"`
	Guard             string `json:"guard,omitempty"`
	Pass              string `json:"pass,omitempty"`
	Sweep             string `json:"sweep,omitempty"`
	Position          string `json:"position,omitempty"`
	Submission        string `json:"submission,omitempty"`
	Takedown          string `json:"takedown,omitempty"`
	Channel           string `json:"channel,omitempty"`
	Athlete           string `json:"athlete,omitempty"`
	SearchQuery       string `json:"query,omitempty"`
}

// Normalize lowercases every value and trims the search query.
func (s FilterState) Normalize() FilterState {
	for _, ff := range FacetFilters {
		ff.Set(&s, strings.ToLower(ff.Value(&s)))
	}
	s.Channel = strings.ToLower(s.Channel)
	s.Athlete = strings.ToLower(s.Athlete)
	s.SearchQuery = strings.ToLower(strings.TrimSpace(s.SearchQuery))
	return s
}

// Searching reports whether a free-text query is active.
func (s FilterState) Searching() bool {
	return s.SearchQuery != ""
}

// HasFacetFilters reports whether any technique filter is set.
func (s FilterState) HasFacetFilters() bool {
	for _, ff := range FacetFilters {
		if ff.Value(&s) != "" {
			return true
		}
	}
	return false
}

// IsZero reports whether no constraint at all is set.
func (s FilterState) IsZero() bool {
	return s == FilterState{}
}

// FilterAndRank returns the records of dataset that satisfy every active
// predicate of state, ordered by view count, highest first. Records with equal
// view counts keep their dataset order. dataset is not modified.
func FilterAndRank(dataset []domain.VideoRecord, state FilterState) []domain.VideoRecord {
	state = state.Normalize()
	facetFilters := state.HasFacetFilters()

	out := make([]domain.VideoRecord, 0, len(dataset))
	for i := range dataset {
		if Matches(&dataset[i], state, facetFilters) {
			out = append(out, dataset[i])
		}
	}

	slices.SortStableFunc(out, func(a, b domain.VideoRecord) int {
		return cmp.Compare(b.ViewCount, a.ViewCount)
	})
	return out
}

// Matches evaluates the predicates for a single record against a normalized
// state. facetFilters must equal state.HasFacetFilters().
func Matches(r *domain.VideoRecord, state FilterState, facetFilters bool) bool {
	if state.SearchQuery != "" && !strings.Contains(searchText(r), state.SearchQuery) {
		return false
	}

	if state.Channel != "" && strings.ToLower(r.ChannelName) != state.Channel {
		return false
	}

	if r.IsFight {
		if facetFilters {
			return false
		}
		if state.Athlete != "" {
			return hasAthlete(r, state.Athlete)
		}
		return true
	}

	if state.Athlete != "" {
		return false
	}
	if r.Classification == nil {
		return false
	}

	for _, ff := range FacetFilters {
		want := ff.Value(&state)
		if want == "" {
			continue
		}
		if !ff.match(r, want) {
			return false
		}
	}
	return true
}

func searchText(r *domain.VideoRecord) string {
	parts := make([]string, 0, 2+len(r.Tags))
	parts = append(parts, r.Title, r.Description)
	parts = append(parts, r.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func hasAthlete(r *domain.VideoRecord, query string) bool {
	for _, a := range r.Athletes {
		if strings.Contains(strings.ToLower(a), query) {
			return true
		}
	}
	return false
}
