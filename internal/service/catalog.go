package service

import (
	"context"
	"errors"
	"fmt"

	"bjj-foundation/internal/catalog"
	"bjj-foundation/internal/config"
	"bjj-foundation/internal/constants"
	"bjj-foundation/internal/dataset"
	"bjj-foundation/internal/domain"
	"bjj-foundation/internal/render"

	"github.com/rs/zerolog"
)

// SearchRequest carries the filter selection. Its fields are inlined in JSON.
type SearchRequest struct {
	catalog.FilterState
}

// SearchResult is one rendered page of ranked results along with the
// normalized state that produced it.
type SearchResult struct {
	render.Page
	State catalog.FilterState `json:"state"`
}

// CatalogService serves searches over the working set loaded at startup. The
// dataset and index are immutable after construction, so calls need no
// locking.
type CatalogService struct {
	dataset  []domain.VideoRecord
	index    catalog.FacetIndex
	maxCards int
	loadErr  error
	logger   zerolog.Logger
}

// NewCatalogService indexes records. maxCards <= 0 disables the render cap.
func NewCatalogService(records []domain.VideoRecord, maxCards int, logger zerolog.Logger) (*CatalogService, error) {
	idx, err := catalog.BuildIndex(records)
	if err != nil {
		return nil, fmt.Errorf("failed to build facet index: %w", err)
	}
	logger.Info().
		Int("records", len(records)).
		Int("channels", len(idx.Channels)).
		Msg("catalog indexed")
	return &CatalogService{
		dataset:  records,
		index:    idx,
		maxCards: maxCards,
		logger:   logger,
	}, nil
}

// LoadCatalogService loads the working set and indexes it. When the primary
// collection cannot be loaded the service is still returned, but every call
// fails with dataset.ErrDatasetUnavailable so callers can show a static error.
func LoadCatalogService(loader *dataset.Loader, cfg *config.Config, logger zerolog.Logger) (*CatalogService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatasetLoadTimeout)
	defer cancel()

	records, err := loader.Load(ctx)
	if err != nil {
		if errors.Is(err, dataset.ErrDatasetUnavailable) {
			logger.Error().Err(err).Msg("catalog unavailable")
			return &CatalogService{loadErr: err, maxCards: cfg.MaxCards, logger: logger}, nil
		}
		return nil, err
	}
	return NewCatalogService(records, cfg.MaxCards, logger)
}

// Ready returns the load failure, if any.
func (s *CatalogService) Ready() error {
	return s.loadErr
}

// Total is the size of the working set.
func (s *CatalogService) Total() int {
	return len(s.dataset)
}

func (s *CatalogService) MaxCards() int {
	return s.maxCards
}

// Search filters and ranks the working set and renders the capped page.
func (s *CatalogService) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := req.FilterState.Normalize()
	results := catalog.FilterAndRank(s.dataset, state)
	page := render.BuildPage(results, len(s.dataset), state.Searching(), s.maxCards)

	zerolog.Ctx(ctx).Debug().
		Str("query", state.SearchQuery).
		Bool("facet_filters", state.HasFacetFilters()).
		Int("matched", page.Matched).
		Int("shown", page.Shown).
		Msg("catalog search")

	return &SearchResult{Page: page, State: state}, nil
}

// Facets returns the selector options built at load time.
func (s *CatalogService) Facets(ctx context.Context) (catalog.FacetIndex, error) {
	if s.loadErr != nil {
		return catalog.FacetIndex{}, s.loadErr
	}
	if err := ctx.Err(); err != nil {
		return catalog.FacetIndex{}, err
	}
	return s.index, nil
}
