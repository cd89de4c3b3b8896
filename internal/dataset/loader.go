// Package dataset loads the technique and fight collections into one ordered
// working set.
package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bjj-foundation/internal/config"
	"bjj-foundation/internal/domain"
	"bjj-foundation/internal/repository"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"
)

const (
	fetchIOTimeout   = 10 * time.Second
	idleConnDuration = 1 * time.Minute
)

// ErrDatasetUnavailable means the primary collection could not be loaded.
var ErrDatasetUnavailable = errors.New("dataset unavailable")

type Loader struct {
	primary   Source
	secondary Source
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewLoader builds a loader over explicit sources. secondary may be nil.
func NewLoader(primary, secondary Source, timeout time.Duration, logger zerolog.Logger) *Loader {
	return &Loader{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		logger:    logger,
	}
}

// NewConfiguredLoader reads from the snapshot when db is non-nil and from the
// configured sources otherwise.
func NewConfiguredLoader(cfg *config.Config, db *sql.DB, client *fasthttp.Client, logger zerolog.Logger) *Loader {
	if db != nil {
		repo := repository.NewVideoRepository(db, logger)
		return NewLoader(NewSnapshotSource(repo, false), NewSnapshotSource(repo, true), cfg.FetchTimeout, logger)
	}

	var secondary Source
	if cfg.FightsSource != "" {
		secondary = NewSource(cfg.FightsSource, client)
	}
	return NewLoader(NewSource(cfg.TechniquesSource, client), secondary, cfg.FetchTimeout, logger)
}

// Collections holds both collections as loaded, before merging.
type Collections struct {
	Techniques []domain.VideoRecord
	Fights     []domain.VideoRecord
}

// Merged returns techniques followed by fights. Every fight record is tagged
// IsFight; the collections themselves are not modified.
func (c Collections) Merged() []domain.VideoRecord {
	out := make([]domain.VideoRecord, 0, len(c.Techniques)+len(c.Fights))
	out = append(out, c.Techniques...)
	for _, f := range c.Fights {
		f.IsFight = true
		out = append(out, f)
	}
	return out
}

// LoadCollections fetches both collections concurrently. A primary failure is
// wrapped in ErrDatasetUnavailable; a secondary failure is logged and yields an
// empty fight collection.
func (l *Loader) LoadCollections(ctx context.Context) (*Collections, error) {
	var c Collections
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := l.fetch(gctx, l.primary)
		if err != nil {
			l.logger.Error().Err(err).Str("source", l.primary.Name()).Msg("failed to load technique videos")
			return fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)
		}
		c.Techniques = records
		l.logger.Info().Int("count", len(records)).Str("source", l.primary.Name()).Msg("loaded technique videos")
		return nil
	})

	if l.secondary != nil {
		g.Go(func() error {
			records, err := l.fetch(gctx, l.secondary)
			if err != nil {
				l.logger.Warn().Err(err).Str("source", l.secondary.Name()).Msg("fight videos not available")
				return nil
			}
			c.Fights = records
			l.logger.Info().Int("count", len(records)).Str("source", l.secondary.Name()).Msg("loaded fight videos")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load returns the merged working set.
func (l *Loader) Load(ctx context.Context) ([]domain.VideoRecord, error) {
	c, err := l.LoadCollections(ctx)
	if err != nil {
		return nil, err
	}
	all := c.Merged()
	l.logger.Info().Int("total", len(all)).Msg("dataset ready")
	return all, nil
}

func (l *Loader) fetch(ctx context.Context, src Source) ([]domain.VideoRecord, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return src.Fetch(ctx)
}
