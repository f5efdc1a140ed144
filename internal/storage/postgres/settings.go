package postgres

import (
	"context"
	"fmt"

	"market/internal/models"
)

// rotationColumns maps a stream to its pointer column in bot_settings
var rotationColumns = map[models.Stream]string{
	models.StreamMenu:      "menu_ad_index",
	models.StreamBroadcast: "broadcast_ad_index",
	models.StreamListings:  "listings_ad_index",
}

const settingsColumns = `moderation, logging, notification_default,
	menu_ad_index, broadcast_ad_index, listings_ad_index, created_at, updated_at`

func ensureSettings(ctx context.Context, q querier) error {
	_, err := q.Exec(ctx, `INSERT INTO bot_settings (singleton_key) VALUES (1) ON CONFLICT (singleton_key) DO NOTHING`)
	return err
}

func scanSettings(row interface{ Scan(dest ...any) error }) (models.BotSettings, error) {
	var s models.BotSettings
	err := row.Scan(&s.Moderation, &s.Logging, &s.NotificationDefault,
		&s.MenuAdIndex, &s.BroadcastAdIndex, &s.ListingsAdIndex, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (s *Storage) Settings(ctx context.Context) (models.BotSettings, error) {
	const op = "storage.postgres.Settings"

	if err := ensureSettings(ctx, s.db); err != nil {
		return models.BotSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	settings, err := scanSettings(s.db.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM bot_settings WHERE singleton_key = 1`))
	if err != nil {
		return models.BotSettings{}, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return settings, nil
}

func (s *Storage) UpdateSettings(ctx context.Context, update models.SettingsUpdate) (models.BotSettings, error) {
	const op = "storage.postgres.UpdateSettings"

	if err := ensureSettings(ctx, s.db); err != nil {
		return models.BotSettings{}, fmt.Errorf("%s: %w", op, err)
	}

	settings, err := scanSettings(s.db.QueryRow(ctx, `
		UPDATE bot_settings SET
			moderation           = COALESCE($1::boolean, moderation),
			logging              = COALESCE($2::boolean, logging),
			notification_default = COALESCE($3::boolean, notification_default),
			menu_ad_index        = COALESCE($4::integer, menu_ad_index),
			broadcast_ad_index   = COALESCE($5::integer, broadcast_ad_index),
			listings_ad_index    = COALESCE($6::integer, listings_ad_index),
			updated_at           = now()
		WHERE singleton_key = 1
		RETURNING `+settingsColumns,
		update.Moderation, update.Logging, update.NotificationDefault,
		update.MenuAdIndex, update.BroadcastAdIndex, update.ListingsAdIndex,
	))
	if err != nil {
		return models.BotSettings{}, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return settings, nil
}

// AdvanceRotation locks the settings row for the duration of the read-modify-write
func (s *Storage) AdvanceRotation(ctx context.Context, stream models.Stream, step func(pointer int) int) (int, error) {
	const op = "storage.postgres.AdvanceRotation"

	column, ok := rotationColumns[stream]
	if !ok {
		return 0, fmt.Errorf("%s: unknown stream %q", op, stream)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	if err := ensureSettings(ctx, tx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var current int
	err = tx.QueryRow(ctx, `SELECT `+column+` FROM bot_settings WHERE singleton_key = 1 FOR UPDATE`).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}

	_, err = tx.Exec(ctx, `UPDATE bot_settings SET `+column+` = $1, updated_at = now() WHERE singleton_key = 1`, step(current))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return current, nil
}
