// Package ads manages advertisement lifetimes and picks the next ad of each
// rotation stream.
package ads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"market/internal/models"
	"market/internal/storage"
)

const day = 24 * time.Hour

// ErrInvalidType is returned for an unknown placement type
var ErrInvalidType = errors.New("unknown advertisement type")

// EndsAt computes when an ad started at start expires. Unknown durations
// fall back to one day.
func EndsAt(start time.Time, d models.Duration) time.Time {
	switch d {
	case models.DurationWeek:
		return start.Add(7 * day)
	case models.DurationMonth:
		return start.Add(30 * day)
	default:
		return start.Add(day)
	}
}

// NewAdvertisement holds the fields an admin supplies for a new ad
type NewAdvertisement struct {
	Text        string
	Type        models.AdType
	Duration    models.Duration
	Pinned      bool
	Periodicity int
	// StartsAt defaults to now
	StartsAt *time.Time
	Media    []models.Media
}

// Service creates and retires advertisements
type Service struct {
	store  storage.AdvertisementStore
	now    func() time.Time
	logger *zap.Logger
}

// NewService creates the lifecycle service
func NewService(store storage.AdvertisementStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Create persists an active ad with its expiry derived from the duration.
// Media keep their order.
func (s *Service) Create(ctx context.Context, in NewAdvertisement) (*models.Advertisement, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, in.Type)
	}

	start := s.now()
	if in.StartsAt != nil {
		start = in.StartsAt.UTC()
	}
	ends := EndsAt(start, in.Duration)

	ad := &models.Advertisement{
		Text:        in.Text,
		Active:      true,
		Type:        in.Type,
		Duration:    in.Duration,
		StartsAt:    start,
		EndsAt:      &ends,
		Pinned:      in.Pinned,
		Periodicity: in.Periodicity,
		Media:       append([]models.Media(nil), in.Media...),
	}
	if err := s.store.CreateAdvertisement(ctx, ad); err != nil {
		return nil, fmt.Errorf("create advertisement: %w", err)
	}

	s.logger.Info("Advertisement created",
		zap.Int64("ad_id", ad.ID),
		zap.String("type", string(ad.Type)),
		zap.Time("ends_at", ends),
		zap.Int("media", len(ad.Media)),
	)
	return ad, nil
}

// Deactivate hides the ad from every stream. Unknown ids are ignored.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.store.DeactivateAdvertisement(ctx, id); err != nil {
		return fmt.Errorf("deactivate advertisement %d: %w", id, err)
	}
	s.logger.Info("Advertisement deactivated", zap.Int64("ad_id", id))
	return nil
}
