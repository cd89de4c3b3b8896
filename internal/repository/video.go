package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bjj-foundation/internal/constants"
	"bjj-foundation/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ErrSnapshotEmpty is returned when reading a snapshot that was never imported.
var ErrSnapshotEmpty = errors.New("snapshot has not been imported")

type SnapshotMeta struct {
	ImportID   string
	ImportedAt time.Time
	Techniques int
	Fights     int
}

type VideoRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewVideoRepository(sqlDB *sql.DB, logger zerolog.Logger) *VideoRepository {
	return &VideoRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const (
	collectionTechniques = "techniques"
	collectionFights     = "fights"
)

func collectionName(fights bool) string {
	if fights {
		return collectionFights
	}
	return collectionTechniques
}

const insertVideo = `INSERT INTO videos (
	collection, is_fight, position, title, description, tags, youtube_link,
	channel_name, view_count, language, classification, athletes
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const upsertMeta = `INSERT INTO snapshot_meta (id, import_id, imported_at, techniques, fights)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	import_id = excluded.import_id,
	imported_at = excluded.imported_at,
	techniques = excluded.techniques,
	fights = excluded.fights`

// ReplaceAll swaps the snapshot contents for the given collections in a single
// transaction and records the import.
func (r *VideoRepository) ReplaceAll(ctx context.Context, techniques, fights []domain.VideoRecord) (*SnapshotMeta, error) {
	importID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM videos`); err != nil {
		return nil, fmt.Errorf("failed to clear videos: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertVideo)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	if err := r.insertBatch(ctx, stmt, techniques, false); err != nil {
		return nil, err
	}
	if err := r.insertBatch(ctx, stmt, fights, true); err != nil {
		return nil, err
	}

	meta := &SnapshotMeta{
		ImportID:   importID,
		ImportedAt: time.Now().UTC(),
		Techniques: len(techniques),
		Fights:     len(fights),
	}
	if _, err := tx.ExecContext(ctx, upsertMeta, meta.ImportID, meta.ImportedAt, meta.Techniques, meta.Fights); err != nil {
		return nil, fmt.Errorf("failed to record snapshot meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	r.logger.Info().
		Str("import_id", meta.ImportID).
		Int("techniques", meta.Techniques).
		Int("fights", meta.Fights).
		Msg("snapshot replaced")
	return meta, nil
}

func (r *VideoRepository) insertBatch(ctx context.Context, stmt *sql.Stmt, records []domain.VideoRecord, fights bool) error {
	collection := collectionName(fights)
	for i := 0; i < len(records); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(records))

		for pos := i; pos < end; pos++ {
			v := records[pos]
			tags, err := encodeJSON(v.Tags)
			if err != nil {
				return err
			}
			classification, err := encodeJSON(v.Classification)
			if err != nil {
				return err
			}
			athletes, err := encodeJSON(v.Athletes)
			if err != nil {
				return err
			}

			_, err = stmt.ExecContext(ctx,
				collection, v.IsFight, pos, v.Title, v.Description, tags, v.YoutubeLink,
				v.ChannelName, int64(v.ViewCount), v.Language, classification, athletes,
			)
			if err != nil {
				return fmt.Errorf("failed to insert video %q: %w", v.Title, err)
			}
		}

		r.logger.Debug().
			Str("collection", collection).
			Int("from", i).
			Int("to", end).
			Msg("inserted video batch")
	}
	return nil
}

// Meta returns the last import, or ErrSnapshotEmpty.
func (r *VideoRepository) Meta(ctx context.Context) (*SnapshotMeta, error) {
	var m SnapshotMeta
	err := r.db.QueryRowContext(ctx,
		`SELECT import_id, imported_at, techniques, fights FROM snapshot_meta WHERE id = 1`,
	).Scan(&m.ImportID, &m.ImportedAt, &m.Techniques, &m.Fights)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot meta: %w", err)
	}
	return &m, nil
}

// List returns one collection in its original order. IsFight is the record's
// own flag as imported; the loader tags the fight collection when merging.
func (r *VideoRepository) List(ctx context.Context, fights bool) ([]domain.VideoRecord, error) {
	if _, err := r.Meta(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT
		is_fight, title, description, tags, youtube_link, channel_name,
		view_count, language, classification, athletes
	FROM videos WHERE collection = ? ORDER BY position`, collectionName(fights))
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var out []domain.VideoRecord
	for rows.Next() {
		var (
			v                              domain.VideoRecord
			views                          int64
			tags, classification, athletes sql.NullString
		)
		if err := rows.Scan(&v.IsFight, &v.Title, &v.Description, &tags, &v.YoutubeLink, &v.ChannelName,
			&views, &v.Language, &classification, &athletes); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		v.ViewCount = domain.ViewCount(views)

		if err := decodeJSON(tags, &v.Tags); err != nil {
			return nil, err
		}
		if err := decodeJSON(classification, &v.Classification); err != nil {
			return nil, err
		}
		if err := decodeJSON(athletes, &v.Athletes); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}

	r.logger.Debug().Str("collection", collectionName(fights)).Int("count", len(out)).Msg("loaded videos from snapshot")
	return out, nil
}

// encodeJSON stores nil values as SQL NULL so absent fields stay absent.
func encodeJSON(v any) (sql.NullString, error) {
	switch t := v.(type) {
	case domain.StringList:
		if t == nil {
			return sql.NullString{}, nil
		}
	case domain.Classification:
		if t == nil {
			return sql.NullString{}, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode column: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeJSON(s sql.NullString, v any) error {
	if !s.Valid {
		return nil
	}
	if err := json.Unmarshal([]byte(s.String), v); err != nil {
		return fmt.Errorf("failed to decode column: %w", err)
	}
	return nil
}
