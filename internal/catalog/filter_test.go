package catalog

import (
	"math/rand/v2"
	"testing"

	"bjj-foundation/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func technique(title string, views int64, c domain.Classification) domain.VideoRecord {
	return domain.VideoRecord{Title: title, ViewCount: domain.ViewCount(views), Classification: c}
}

func fight(title string, views int64, athletes ...string) domain.VideoRecord {
	return domain.VideoRecord{Title: title, ViewCount: domain.ViewCount(views), Athletes: athletes, IsFight: true}
}

func titles(records []domain.VideoRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

func sampleDataset() []domain.VideoRecord {
	return []domain.VideoRecord{
		{
			Title:       "Armbar from Closed Guard",
			Description: "A classic submission",
			Tags:        domain.StringList{"bjj", "gi"},
			ChannelName: "Knight Jiu Jitsu",
			ViewCount:   1200,
			Classification: domain.Classification{
				"guard_type": {"Closed Guard"},
				"submission": {"Armbar"},
			},
		},
		{
			Title:       "De La Riva Sweep",
			ChannelName: "BJJ Fanatics",
			ViewCount:   900,
			Classification: domain.Classification{
				"guard_type": {"De La Riva"},
				"sweep":      {"Berimbolo"},
				"submission": {},
			},
		},
		{
			Title:       "Knee Cut Pass",
			Tags:        domain.StringList{"passing", "armdrag setup"},
			ChannelName: "bjj fanatics",
			ViewCount:   3000,
			Classification: domain.Classification{
				"pass":     {"Knee Cut"},
				"position": {"Half Guard"},
			},
		},
		{
			Title:     "Unclassified upload",
			ViewCount: 10,
		},
		fight("Gordon Ryan vs Felipe Pena", 5000, "Gordon Ryan", "Felipe Pena"),
		fight("Finals superfight", 900),
	}
}

func TestFilterAndRank_NoFiltersOrdersByViews(t *testing.T) {
	data := []domain.VideoRecord{
		technique("A", 500, domain.Classification{}),
		technique("B", 1500, domain.Classification{}),
	}

	got := FilterAndRank(data, FilterState{})

	assert.Equal(t, []string{"B", "A"}, titles(got))
}

func TestFilterAndRank_StringViewCounts(t *testing.T) {
	var data []domain.VideoRecord
	for _, raw := range []string{
		`{"title":"A","view_count":"500","classification":{}}`,
		`{"title":"B","view_count":"1500","classification":{}}`,
		`{"title":"C","view_count":"n/a","classification":{}}`,
	} {
		var r domain.VideoRecord
		require.NoError(t, jsonUnmarshal(raw, &r))
		data = append(data, r)
	}

	got := FilterAndRank(data, FilterState{})

	assert.Equal(t, []string{"B", "A", "C"}, titles(got))
}

func TestFilterAndRank_StableOnEqualViews(t *testing.T) {
	data := []domain.VideoRecord{
		technique("first", 100, domain.Classification{}),
		technique("top", 200, domain.Classification{}),
		technique("second", 100, domain.Classification{}),
		fight("third", 100),
		technique("fourth", 100, domain.Classification{}),
	}

	got := FilterAndRank(data, FilterState{})

	assert.Equal(t, []string{"top", "first", "second", "third", "fourth"}, titles(got))
}

func TestFilterAndRank_DoesNotModifyInput(t *testing.T) {
	data := sampleDataset()
	before := titles(data)

	_ = FilterAndRank(data, FilterState{})

	assert.Equal(t, before, titles(data))
}

func TestFilterAndRank_Predicates(t *testing.T) {
	tests := []struct {
		name  string
		state FilterState
		want  []string
	}{
		{
			name:  "no filters keeps classified techniques and fights",
			state: FilterState{},
			want: []string{
				"Gordon Ryan vs Felipe Pena", "Knee Cut Pass", "Armbar from Closed Guard",
				"De La Riva Sweep", "Finals superfight",
			},
		},
		{
			name:  "search matches title substring case-insensitively",
			state: FilterState{SearchQuery: "arm"},
			want:  []string{"Knee Cut Pass", "Armbar from Closed Guard"},
		},
		{
			name:  "search is trimmed and lowercased",
			state: FilterState{SearchQuery: "  ARMBAR "},
			want:  []string{"Armbar from Closed Guard"},
		},
		{
			name:  "search spans description",
			state: FilterState{SearchQuery: "classic submission"},
			want:  []string{"Armbar from Closed Guard"},
		},
		{
			name:  "search joins fields with a single space",
			state: FilterState{SearchQuery: "submission bjj gi"},
			want:  []string{"Armbar from Closed Guard"},
		},
		{
			name:  "channel is exact and case-insensitive",
			state: FilterState{Channel: "bjj fanatics"},
			want:  []string{"Knee Cut Pass", "De La Riva Sweep"},
		},
		{
			name:  "channel is not a substring match",
			state: FilterState{Channel: "bjj"},
			want:  []string{},
		},
		{
			name:  "guard membership is case-insensitive",
			state: FilterState{Guard: "closed guard"},
			want:  []string{"Armbar from Closed Guard"},
		},
		{
			name:  "guard membership is exact",
			state: FilterState{Guard: "closed"},
			want:  []string{},
		},
		{
			name:  "category is a presence check",
			state: FilterState{TechniqueCategory: "submission"},
			want:  []string{"Armbar from Closed Guard"},
		},
		{
			name:  "category on a facet with values",
			state: FilterState{TechniqueCategory: "pass"},
			want:  []string{"Knee Cut Pass"},
		},
		{
			name:  "unknown category matches nothing",
			state: FilterState{TechniqueCategory: "escape"},
			want:  []string{},
		},
		{
			name:  "filters are conjunctive",
			state: FilterState{Guard: "de la riva", Sweep: "berimbolo", Channel: "bjj fanatics"},
			want:  []string{"De La Riva Sweep"},
		},
		{
			name:  "conjunction can exclude everything",
			state: FilterState{Guard: "de la riva", Pass: "knee cut"},
			want:  []string{},
		},
		{
			name:  "position filter",
			state: FilterState{Position: "Half Guard"},
			want:  []string{"Knee Cut Pass"},
		},
		{
			name:  "athlete filter keeps only matching fights",
			state: FilterState{Athlete: "gordon"},
			want:  []string{"Gordon Ryan vs Felipe Pena"},
		},
		{
			name:  "athlete filter is a substring match",
			state: FilterState{Athlete: "pena"},
			want:  []string{"Gordon Ryan vs Felipe Pena"},
		},
		{
			name:  "fight without athletes fails athlete filter",
			state: FilterState{Athlete: "finals"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(FilterAndRank(sampleDataset(), tt.state))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FilterAndRank() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterAndRank_EmptyFacetFailsPresence(t *testing.T) {
	data := []domain.VideoRecord{
		technique("empty submission", 1, domain.Classification{"submission": {}}),
	}

	got := FilterAndRank(data, FilterState{TechniqueCategory: "submission"})

	assert.Empty(t, got)
}

func TestFilterAndRank_FightsNeverMatchFacetFilters(t *testing.T) {
	// a fight that happens to carry a classification still never matches
	r := fight("Gordon Ryan vs Craig Jones", 10, "Gordon Ryan", "Craig Jones")
	r.Classification = domain.Classification{
		"guard_type": {"Closed Guard"},
		"submission": {"Armbar"},
	}

	for _, ff := range FacetFilters {
		t.Run(ff.Key, func(t *testing.T) {
			var s FilterState
			value := "closed guard"
			if ff.Policy == MatchPresence {
				value = "submission"
			}
			ff.Set(&s, value)

			assert.Empty(t, FilterAndRank([]domain.VideoRecord{r}, s))
		})
	}
}

func TestFilterAndRank_TechniquesNeverMatchAthleteFilter(t *testing.T) {
	r := technique("Gordon Ryan guard passing", 10, domain.Classification{"pass": {"Body Lock"}})

	assert.Empty(t, FilterAndRank([]domain.VideoRecord{r}, FilterState{Athlete: "gordon"}))
}

func TestFilterAndRank_MissingClassification(t *testing.T) {
	missing := domain.VideoRecord{Title: "missing", ChannelName: "X", ViewCount: 5}
	empty := domain.VideoRecord{Title: "empty", ChannelName: "X", ViewCount: 4, Classification: domain.Classification{}}
	data := []domain.VideoRecord{missing, empty}

	assert.Equal(t, []string{"empty"}, titles(FilterAndRank(data, FilterState{})))
	assert.Equal(t, []string{"empty"}, titles(FilterAndRank(data, FilterState{Channel: "x"})))
	assert.Empty(t, FilterAndRank(data, FilterState{Guard: "closed guard"}))
}

func randomState(rng *rand.Rand) FilterState {
	pick := func(values ...string) string { return values[rng.IntN(len(values))] }
	return FilterState{
		TechniqueCategory: pick("", "", "submission", "pass", "sweep"),
		Guard:             pick("", "", "closed guard", "de la riva"),
		Pass:              pick("", "", "knee cut"),
		Sweep:             pick("", "berimbolo"),
		Position:          pick("", "half guard"),
		Channel:           pick("", "", "bjj fanatics", "knight jiu jitsu"),
		Athlete:           pick("", "", "", "gordon", "pena"),
		SearchQuery:       pick("", "", "arm", "guard", "vs"),
	}
}

func TestFilterAndRank_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	data := sampleDataset()

	for i := 0; i < 200; i++ {
		state := randomState(rng)
		got := FilterAndRank(data, state)

		// subset of the dataset, in an order consistent with the input for ties
		positions := make([]int, 0, len(got))
		for _, r := range got {
			pos := -1
			for j := range data {
				if data[j].Title == r.Title {
					pos = j
					break
				}
			}
			require.GreaterOrEqual(t, pos, 0, "record %q not in dataset", r.Title)
			positions = append(positions, pos)
		}
		for k := 1; k < len(got); k++ {
			require.GreaterOrEqual(t, got[k-1].ViewCount, got[k].ViewCount, "state %+v", state)
			if got[k-1].ViewCount == got[k].ViewCount {
				require.Less(t, positions[k-1], positions[k], "stability for state %+v", state)
			}
		}

		// idempotent
		again := FilterAndRank(got, state)
		require.Equal(t, titles(got), titles(again), "state %+v", state)
	}
}

func TestFilterState_HelperPredicates(t *testing.T) {
	assert.True(t, FilterState{}.IsZero())
	assert.False(t, FilterState{}.HasFacetFilters())
	assert.True(t, FilterState{TechniqueCategory: "pass"}.HasFacetFilters())
	assert.False(t, FilterState{Channel: "x", Athlete: "y"}.HasFacetFilters())
	assert.True(t, FilterState{SearchQuery: "x"}.Searching())

	n := FilterState{Guard: "Closed Guard", Channel: "BJJ Fanatics", SearchQuery: " ArmBar "}.Normalize()
	assert.Equal(t, "closed guard", n.Guard)
	assert.Equal(t, "bjj fanatics", n.Channel)
	assert.Equal(t, "armbar", n.SearchQuery)
}
