package service

import (
	"context"
	"fmt"

	"bjj-foundation/internal/constants"
	"bjj-foundation/internal/dataset"
	"bjj-foundation/internal/repository"

	"github.com/rs/zerolog"
)

// SnapshotService copies the configured source collections into the sqlite
// snapshot.
type SnapshotService struct {
	loader *dataset.Loader
	repo   *repository.VideoRepository
	logger zerolog.Logger
}

func NewSnapshotService(loader *dataset.Loader, repo *repository.VideoRepository, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{loader: loader, repo: repo, logger: logger}
}

// Import replaces the snapshot with freshly loaded collections. A missing
// secondary collection is imported as empty, matching what the loader serves.
func (s *SnapshotService) Import(ctx context.Context) (*repository.SnapshotMeta, error) {
	loadCtx, cancel := context.WithTimeout(ctx, constants.DatasetLoadTimeout)
	defer cancel()

	c, err := s.loader.LoadCollections(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}

	meta, err := s.repo.ReplaceAll(ctx, c.Techniques, c.Fights)
	if err != nil {
		s.logger.Error().Err(err).Msg("snapshot import failed")
		return nil, err
	}
	return meta, nil
}

// Meta describes the current snapshot contents.
func (s *SnapshotService) Meta(ctx context.Context) (*repository.SnapshotMeta, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Meta(ctx)
}
