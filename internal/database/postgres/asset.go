package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ThrowBot_Go/internal/domain"
	"github.com/osse101/ThrowBot_Go/internal/repository"
)

const itemSelect = `
	SELECT i.item_id, i.name, i.image_src, i.scale, i.weight, i.pixelate, i.created_at,
		COALESCE(array_agg(s.sound_id ORDER BY s.sound_id) FILTER (WHERE s.sound_id IS NOT NULL), '{}')
	FROM items i
	LEFT JOIN item_impact_sounds s ON s.item_id = i.item_id
`

const soundSelect = `SELECT sound_id, name, src, volume, created_at FROM sounds`

// AssetRepository implements repository.Asset for PostgreSQL
type AssetRepository struct {
	db *pgxpool.Pool
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(db *pgxpool.Pool) *AssetRepository {
	return &AssetRepository{db: db}
}

var _ repository.Asset = (*AssetRepository)(nil)

func (r *AssetRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryItems, err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.ImageSrc, &item.Scale, &item.Weight,
			&item.Pixelate, &item.CreatedAt, &item.ImpactSoundIDs); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryItems, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryItems, err)
	}
	return items, nil
}

func (r *AssetRepository) querySounds(ctx context.Context, query string, args ...any) ([]domain.Sound, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQuerySounds, err)
	}
	defer rows.Close()

	sounds := []domain.Sound{}
	for rows.Next() {
		var sound domain.Sound
		if err := rows.Scan(&sound.ID, &sound.Name, &sound.Src, &sound.Volume, &sound.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQuerySounds, err)
		}
		sounds = append(sounds, sound)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQuerySounds, err)
	}
	return sounds, nil
}

// GetItems returns the subset of ids that exist. Unknown ids are silently absent.
func (r *AssetRepository) GetItems(ctx context.Context, ids []uuid.UUID) ([]domain.Item, error) {
	if len(ids) == 0 {
		return []domain.Item{}, nil
	}
	return r.queryItems(ctx, itemSelect+` WHERE i.item_id = ANY($1) GROUP BY i.item_id`, ids)
}

// GetSounds returns the subset of ids that exist
func (r *AssetRepository) GetSounds(ctx context.Context, ids []uuid.UUID) ([]domain.Sound, error) {
	if len(ids) == 0 {
		return []domain.Sound{}, nil
	}
	return r.querySounds(ctx, soundSelect+` WHERE sound_id = ANY($1)`, ids)
}

// GetSound retrieves a single sound
func (r *AssetRepository) GetSound(ctx context.Context, id uuid.UUID) (*domain.Sound, error) {
	var sound domain.Sound
	err := r.db.QueryRow(ctx, soundSelect+` WHERE sound_id = $1`, id).
		Scan(&sound.ID, &sound.Name, &sound.Src, &sound.Volume, &sound.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", domain.ErrAssetNotFound, domain.ErrMsgSoundNotFound, id)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSound, err)
	}
	return &sound, nil
}

// ListItems returns every item ordered by name
func (r *AssetRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	return r.queryItems(ctx, itemSelect+` GROUP BY i.item_id ORDER BY i.name`)
}

// ListSounds returns every sound ordered by name
func (r *AssetRepository) ListSounds(ctx context.Context) ([]domain.Sound, error) {
	return r.querySounds(ctx, soundSelect+` ORDER BY name`)
}

// CreateItem inserts an item together with its impact sound links.
// A link to a missing sound fails the whole insert with domain.ErrAssetNotFound.
func (r *AssetRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	err = tx.QueryRow(ctx, `
		INSERT INTO items (item_id, name, image_src, scale, weight, pixelate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, item.ID, item.Name, item.ImageSrc, item.Scale, item.Weight, item.Pixelate).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertItem, err)
	}

	for _, soundID := range item.ImpactSoundIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO item_impact_sounds (item_id, sound_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, item.ID, soundID)
		if err != nil {
			if isPgError(err, PgErrorCodeForeignKeyViolation) {
				return fmt.Errorf("%w: %s %s", domain.ErrAssetNotFound, domain.ErrMsgSoundNotFound, soundID)
			}
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertImpactSound, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	if item.ImpactSoundIDs == nil {
		item.ImpactSoundIDs = []uuid.UUID{}
	}
	return nil
}

// CreateSound inserts a sound
func (r *AssetRepository) CreateSound(ctx context.Context, sound *domain.Sound) error {
	if sound.ID == uuid.Nil {
		sound.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO sounds (sound_id, name, src, volume)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, sound.ID, sound.Name, sound.Src, sound.Volume).Scan(&sound.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertSound, err)
	}
	return nil
}

// DeleteItem removes an item. Rules referencing it fail resolution afterwards.
func (r *AssetRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE item_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteItem, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrAssetNotFound, domain.ErrMsgItemNotFound, id)
	}
	return nil
}

// DeleteSound removes a sound and every impact link to it
func (r *AssetRepository) DeleteSound(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sounds WHERE sound_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteSound, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", domain.ErrAssetNotFound, domain.ErrMsgSoundNotFound, id)
	}
	return nil
}
