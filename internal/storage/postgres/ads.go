package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"market/internal/models"
)

// ============================================
// Advertisements
// ============================================

func (s *Storage) CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error {
	const op = "storage.postgres.CreateAdvertisement"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO advertisements (text, active, ad_type, duration, starts_at, ends_at, pinned, periodicity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		ad.Text, ad.Active, string(ad.Type), string(ad.Duration),
		ad.StartsAt, ad.EndsAt, ad.Pinned, ad.Periodicity,
	).Scan(&ad.ID, &ad.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if len(ad.Media) > 0 {
		batch := &pgx.Batch{}
		for i, m := range ad.Media {
			batch.Queue(`
				INSERT INTO ad_media (advertisement_id, position, file_id, media_type)
				VALUES ($1, $2, $3, $4)`,
				ad.ID, i, m.FileID, string(m.Kind))
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) DeactivateAdvertisement(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeactivateAdvertisement"

	if _, err := s.db.Exec(ctx, `UPDATE advertisements SET active = FALSE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) ListActiveAdvertisements(ctx context.Context, adType models.AdType, now time.Time) ([]models.Advertisement, error) {
	const op = "storage.postgres.ListActiveAdvertisements"

	rows, err := s.db.Query(ctx, `
		SELECT id, text, created_at, active, ad_type, duration, starts_at, ends_at, pinned, periodicity
		FROM advertisements
		WHERE ad_type = $1
		  AND active = TRUE
		  AND starts_at <= $2
		  AND (ends_at IS NULL OR ends_at >= $2)
		ORDER BY created_at DESC, id DESC`,
		string(adType), now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		ads []models.Advertisement
		ids []int64
	)
	for rows.Next() {
		var (
			ad       models.Advertisement
			kind     string
			duration string
		)
		if err := rows.Scan(&ad.ID, &ad.Text, &ad.CreatedAt, &ad.Active, &kind, &duration,
			&ad.StartsAt, &ad.EndsAt, &ad.Pinned, &ad.Periodicity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ad.Type = models.AdType(kind)
		ad.Duration = models.Duration(duration)
		ads = append(ads, ad)
		ids = append(ids, ad.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ads) == 0 {
		return nil, nil
	}

	media, err := s.adMedia(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range ads {
		ads[i].Media = media[ads[i].ID]
	}
	return ads, nil
}

// adMedia loads media of the given ads in attachment order
func (s *Storage) adMedia(ctx context.Context, ids []int64) (map[int64][]models.Media, error) {
	rows, err := s.db.Query(ctx, `
		SELECT advertisement_id, file_id, media_type
		FROM ad_media
		WHERE advertisement_id = ANY($1)
		ORDER BY advertisement_id, position`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := make(map[int64][]models.Media)
	for rows.Next() {
		var (
			adID int64
			m    models.Media
			kind string
		)
		if err := rows.Scan(&adID, &m.FileID, &kind); err != nil {
			return nil, err
		}
		m.Kind = models.MediaKind(kind)
		media[adID] = append(media[adID], m)
	}
	return media, rows.Err()
}
