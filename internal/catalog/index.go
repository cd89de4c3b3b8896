package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bjj-foundation/internal/domain"

	"gopkg.in/yaml.v3"
)

// Option is one selectable filter value: Value is the lowercased key sent back
// in a FilterState, Label keeps the original casing for display.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func newOption(label string) Option {
	return Option{Value: strings.ToLower(label), Label: label}
}

// FacetIndex holds the options for every selector, built once after load.
type FacetIndex struct {
	Categories []Option           `json:"categories"`
	Facets     map[Facet][]Option `json:"facets"`
	Channels   []Option           `json:"channels"`
	Athletes   []Option           `json:"athletes"`
}

// Options returns the options for a filter key as used by FacetFilters, plus
// "channel" and "athlete".
func (idx FacetIndex) Options(key string) []Option {
	switch key {
	case "category":
		return idx.Categories
	case "channel":
		return idx.Channels
	case "athlete":
		return idx.Athletes
	}
	if ff, ok := LookupFacetFilter(key); ok {
		return idx.Facets[ff.Facet]
	}
	return nil
}

var categoryOptions = []Option{
	{Value: string(FacetPass), Label: "Passes"},
	{Value: string(FacetSweep), Label: "Sweeps"},
	{Value: string(FacetSubmission), Label: "Submissions"},
	{Value: string(FacetTakedown), Label: "Takedowns"},
	{Value: string(FacetTechnique), Label: "Techniques"},
}

// BuildIndex collects the distinct raw values per indexed facet and the distinct
// channel names, each sorted by label. Athletes come from the allowlist.
func BuildIndex(dataset []domain.VideoRecord) (FacetIndex, error) {
	athletes, err := AthleteAllowlist()
	if err != nil {
		return FacetIndex{}, err
	}

	seen := make(map[Facet]map[string]struct{}, len(IndexedFacets))
	for _, f := range IndexedFacets {
		seen[f] = map[string]struct{}{}
	}
	channels := map[string]struct{}{}

	for i := range dataset {
		r := &dataset[i]
		if r.Classification != nil {
			for _, f := range IndexedFacets {
				for _, v := range f.values(r) {
					seen[f][v] = struct{}{}
				}
			}
		}
		if r.ChannelName != "" {
			channels[r.ChannelName] = struct{}{}
		}
	}

	idx := FacetIndex{
		Categories: slices.Clone(categoryOptions),
		Facets:     make(map[Facet][]Option, len(IndexedFacets)),
		Channels:   sortedOptions(channels),
		Athletes:   make([]Option, 0, len(athletes)),
	}
	for _, f := range IndexedFacets {
		idx.Facets[f] = sortedOptions(seen[f])
	}
	for _, a := range athletes {
		idx.Athletes = append(idx.Athletes, newOption(a))
	}
	return idx, nil
}

func sortedOptions(set map[string]struct{}) []Option {
	labels := make([]string, 0, len(set))
	for v := range set {
		labels = append(labels, v)
	}
	slices.Sort(labels)

	out := make([]Option, 0, len(labels))
	for _, l := range labels {
		out = append(out, newOption(l))
	}
	return out
}

//go:embed athletes.yaml
var athletesYAML []byte

var loadAthletes = sync.OnceValues(func() ([]string, error) {
	var doc struct {
		Athletes []string `yaml:"athletes"`
	}
	if err := yaml.Unmarshal(athletesYAML, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse athlete allowlist: %w", err)
	}
	return doc.Athletes, nil
})

// AthleteAllowlist returns the curated fight athlete names in display order.
func AthleteAllowlist() ([]string, error) {
	names, err := loadAthletes()
	if err != nil {
		return nil, err
	}
	return slices.Clone(names), nil
}
