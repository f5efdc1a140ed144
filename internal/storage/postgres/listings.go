package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"market/internal/models"
	"market/internal/storage"
)

// ============================================
// Categories
// ============================================

func (s *Storage) ListCategories(ctx context.Context, offset, limit int) ([]models.Category, error) {
	const op = "storage.postgres.ListCategories"

	rows, err := s.db.Query(ctx, `SELECT id, name FROM categories ORDER BY id OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

func (s *Storage) CreateCategory(ctx context.Context, name, description string) (models.Category, error) {
	const op = "storage.postgres.CreateCategory"

	var c models.Category
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id, name`,
		name, description,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *Storage) DeleteCategory(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteCategory"

	if _, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ============================================
// Listings
// ============================================

func (s *Storage) CreateListing(ctx context.Context, listing models.Listing) (int64, error) {
	const op = "storage.postgres.CreateListing"

	var geo []byte
	if listing.Geo != nil {
		var err error
		if geo, err = json.Marshal(listing.Geo); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	// products.user_id references the internal users.id
	var userID *int64
	if listing.SellerTelegramID != 0 {
		var id int64
		err := tx.QueryRow(ctx, `SELECT id FROM users WHERE telegram_id = $1`, listing.SellerTelegramID).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		userID = &id
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO products (user_id, category_id, name, description, price, contact, geo, publication)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		userID, listing.CategoryID, listing.Name, listing.Description,
		listing.Price, listing.Contact, geo, listing.Publication,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if len(listing.Photos) > 0 {
		batch := &pgx.Batch{}
		for _, photo := range listing.Photos {
			batch.Queue(`INSERT INTO product_photos (product_id, photo_url) VALUES ($1, $2)`, id, photo)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (s *Storage) SetPublication(ctx context.Context, id int64, published *bool) error {
	const op = "storage.postgres.SetPublication"

	tag, err := s.db.Exec(ctx, `UPDATE products SET publication = $1 WHERE id = $2`, published, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) ListingSeller(ctx context.Context, id int64) (int64, error) {
	const op = "storage.postgres.ListingSeller"

	var telegramID *int64
	err := s.db.QueryRow(ctx, `
		SELECT u.telegram_id
		FROM products p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.id = $1`, id,
	).Scan(&telegramID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	if telegramID == nil {
		return 0, nil
	}
	return *telegramID, nil
}

func (s *Storage) ListPublishedListingIDs(ctx context.Context) ([]int64, error) {
	const op = "storage.postgres.ListPublishedListingIDs"

	rows, err := s.db.Query(ctx, `SELECT id FROM products WHERE publication = TRUE ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

func (s *Storage) ListingFields(ctx context.Context, ids []int64) (map[int64]models.ListingFields, error) {
	const op = "storage.postgres.ListingFields"

	fields := make(map[int64]models.ListingFields, len(ids))
	if len(ids) == 0 {
		return fields, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, price, contact, geo, created_at
		FROM products
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  int64
			f   models.ListingFields
			geo []byte
		)
		if err := rows.Scan(&id, &f.Name, &f.Description, &f.Price, &f.Contact, &geo, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if len(geo) > 0 && string(geo) != "null" {
			f.Geo = &models.Geo{}
			if err := json.Unmarshal(geo, f.Geo); err != nil {
				return nil, fmt.Errorf("%s: decode geo of %d: %w", op, id, err)
			}
		}
		fields[id] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fields, nil
}

func (s *Storage) ListingPhotos(ctx context.Context, ids []int64) (map[int64][]string, error) {
	const op = "storage.postgres.ListingPhotos"

	photos := make(map[int64][]string)
	if len(ids) == 0 {
		return photos, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT product_id, photo_url
		FROM product_photos
		WHERE product_id = ANY($1)
		ORDER BY product_id, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  int64
			url string
		)
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		photos[id] = append(photos[id], url)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return photos, nil
}

// ============================================
// Users
// ============================================

func (s *Storage) UpsertUser(ctx context.Context, telegramID int64, username string) error {
	const op = "storage.postgres.UpsertUser"

	_, err := s.db.Exec(ctx, `
		INSERT INTO users (telegram_id, username)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = COALESCE(NULLIF(EXCLUDED.username, ''), users.username)`,
		telegramID, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) ListUserTelegramIDs(ctx context.Context) ([]int64, error) {
	const op = "storage.postgres.ListUserTelegramIDs"

	rows, err := s.db.Query(ctx, `SELECT telegram_id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}
