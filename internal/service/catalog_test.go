package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bjj-foundation/internal/catalog"
	"bjj-foundation/internal/config"
	"bjj-foundation/internal/database"
	"bjj-foundation/internal/dataset"
	"bjj-foundation/internal/domain"
	"bjj-foundation/internal/repository"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records() []domain.VideoRecord {
	return []domain.VideoRecord{
		{Title: "Armbar from Closed Guard", ViewCount: 100, ChannelName: "Knight",
			Classification: domain.Classification{"guard_type": {"Closed Guard"}, "submission": {"Armbar"}}},
		{Title: "Knee Cut", ViewCount: 300, ChannelName: "Knight",
			Classification: domain.Classification{"pass": {"Knee Cut"}}},
		{Title: "Berimbolo", ViewCount: 200, ChannelName: "Mikey",
			Classification: domain.Classification{"sweep": {"Berimbolo"}}},
		{Title: "Gordon Ryan vs Felipe Pena", ViewCount: 50, Athletes: domain.StringList{"Gordon Ryan"}, IsFight: true},
	}
}

func cardTitles(res *SearchResult) []string {
	out := make([]string, 0, len(res.Cards))
	for _, c := range res.Cards {
		out = append(out, c.Title)
	}
	return out
}

func TestCatalogService_Search(t *testing.T) {
	svc, err := NewCatalogService(records(), 0, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name  string
		state catalog.FilterState
		want  []string
	}{
		{"all ranked", catalog.FilterState{}, []string{"Knee Cut", "Berimbolo", "Armbar from Closed Guard", "Gordon Ryan vs Felipe Pena"}},
		{"guard case-insensitive", catalog.FilterState{Guard: "CLOSED GUARD"}, []string{"Armbar from Closed Guard"}},
		{"channel", catalog.FilterState{Channel: "knight"}, []string{"Knee Cut", "Armbar from Closed Guard"}},
		{"athlete", catalog.FilterState{Athlete: "Gordon"}, []string{"Gordon Ryan vs Felipe Pena"}},
		{"query", catalog.FilterState{SearchQuery: "  ARM "}, []string{"Armbar from Closed Guard"}},
		{"category presence", catalog.FilterState{TechniqueCategory: "sweep"}, []string{"Berimbolo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Search(ctx, SearchRequest{FilterState: tt.state})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, cardTitles(res)); diff != "" {
				t.Errorf("titles mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 4, res.Total)
			assert.Equal(t, tt.state.Normalize(), res.State)
		})
	}
}

func TestCatalogService_SearchCapsUnlessSearching(t *testing.T) {
	svc, err := NewCatalogService(records(), 2, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	res, err := svc.Search(ctx, SearchRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Cards, 2)
	assert.True(t, res.Capped)
	assert.Equal(t, "Showing 2 of 4 matches - refine search or filters to see more", res.Hint)

	res, err = svc.Search(ctx, SearchRequest{FilterState: catalog.FilterState{SearchQuery: "e"}})
	require.NoError(t, err)
	assert.False(t, res.Capped)
	assert.Equal(t, res.Matched, res.Shown)
}

func TestCatalogService_Facets(t *testing.T) {
	svc, err := NewCatalogService(records(), 0, zerolog.Nop())
	require.NoError(t, err)

	idx, err := svc.Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []catalog.Option{{Value: "knight", Label: "Knight"}, {Value: "mikey", Label: "Mikey"}}, idx.Channels)
	assert.Equal(t, []catalog.Option{{Value: "knee cut", Label: "Knee Cut"}}, idx.Facets[catalog.FacetPass])
}

func TestCatalogService_CanceledContext(t *testing.T) {
	svc, err := NewCatalogService(records(), 0, zerolog.Nop())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Search(ctx, SearchRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCatalogService_Unavailable(t *testing.T) {
	cfg := &config.Config{
		TechniquesSource: filepath.Join(t.TempDir(), "missing.json"),
		MaxCards:         10,
	}
	loader := dataset.NewConfiguredLoader(cfg, nil, nil, zerolog.Nop())

	svc, err := LoadCatalogService(loader, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Ready(), dataset.ErrDatasetUnavailable)

	_, err = svc.Search(context.Background(), SearchRequest{})
	assert.ErrorIs(t, err, dataset.ErrDatasetUnavailable)
	_, err = svc.Facets(context.Background())
	assert.ErrorIs(t, err, dataset.ErrDatasetUnavailable)
}

func TestLoadCatalogService_FromFiles(t *testing.T) {
	dir := t.TempDir()
	techniques := filepath.Join(dir, "techniques.json")
	require.NoError(t, os.WriteFile(techniques, []byte(`[{"title":"A","view_count":"5"},{"title":"B","view_count":7}]`), 0o644))

	cfg := &config.Config{TechniquesSource: techniques}
	loader := dataset.NewConfiguredLoader(cfg, nil, nil, zerolog.Nop())

	svc, err := LoadCatalogService(loader, cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, svc.Ready())
	assert.Equal(t, 2, svc.Total())

	res, err := svc.Search(context.Background(), SearchRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, cardTitles(res))
	assert.Equal(t, "Showing all 2 techniques", res.Summary)
}

func TestSnapshotService_Import(t *testing.T) {
	dir := t.TempDir()
	techniques := filepath.Join(dir, "techniques.json")
	fights := filepath.Join(dir, "fights.json")
	require.NoError(t, os.WriteFile(techniques, []byte(`[{"title":"A","view_count":1,"classification":{"pass":["Knee Cut"]}}]`), 0o644))
	require.NoError(t, os.WriteFile(fights, []byte(`[{"title":"F","view_count":2,"athletes":["Gordon Ryan"]}]`), 0o644))

	cfg := &config.Config{TechniquesSource: techniques, FightsSource: fights}
	db, err := database.Open(filepath.Join(dir, "snapshot.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewVideoRepository(db, zerolog.Nop())
	snap := NewSnapshotService(dataset.NewConfiguredLoader(cfg, nil, nil, zerolog.Nop()), repo, zerolog.Nop())

	_, err = snap.Meta(context.Background())
	assert.True(t, errors.Is(err, repository.ErrSnapshotEmpty))

	meta, err := snap.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, meta.Techniques)
	assert.Equal(t, 1, meta.Fights)
	assert.NotEmpty(t, meta.ImportID)

	// the snapshot now serves the same working set
	svc, err := LoadCatalogService(dataset.NewConfiguredLoader(cfg, db, nil, zerolog.Nop()), cfg, zerolog.Nop())
	require.NoError(t, err)
	res, err := svc.Search(context.Background(), SearchRequest{FilterState: catalog.FilterState{Athlete: "gordon"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"F"}, cardTitles(res))
}
