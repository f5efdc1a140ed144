package ads

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"market/internal/models"
	"market/internal/storage"
)

var picks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "market",
	Subsystem: "rotation",
	Name:      "picks_total",
	Help:      "Ads picked per rotation stream.",
}, []string{"stream"})

// Advance maps a stored pointer onto a set of n ads.
//
// Rotation rules:
// 1. The ad shown is pointer mod n, so a pointer left over from a larger set
// still lands inside the current one
// 2. The next pointer is pointer+1, wrapping to 0 once it reaches n
// 3. For n == 0 nothing is shown and the pointer is returned unchanged
func Advance(pointer, n int) (idx, next int) {
	if n <= 0 {
		return -1, pointer
	}
	if pointer < 0 {
		pointer = 0
	}
	idx = pointer % n
	next = pointer + 1
	if next >= n {
		next = 0
	}
	return idx, next
}

// Rotator hands out the next ad of each stream. Every stream keeps its own
// pointer in the settings row.
type Rotator struct {
	ads      storage.AdvertisementStore
	settings storage.SettingsStore
	now      func() time.Time
	logger   *zap.Logger
}

// NewRotator creates a rotator over the given stores
func NewRotator(ads storage.AdvertisementStore, settings storage.SettingsStore, logger *zap.Logger) *Rotator {
	return &Rotator{
		ads:      ads,
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// NextMenuAd returns the next ad for the main menu, or nil when none is active
func (r *Rotator) NextMenuAd(ctx context.Context) (*models.Advertisement, error) {
	return r.next(ctx, models.StreamMenu)
}

// NextBroadcastAd returns the next ad for the periodic broadcast. Pinned
// broadcast ads rotate after the regular ones.
func (r *Rotator) NextBroadcastAd(ctx context.Context) (*models.Advertisement, error) {
	return r.next(ctx, models.StreamBroadcast)
}

// NextListingsAd returns the next ad to insert into the listings feed
func (r *Rotator) NextListingsAd(ctx context.Context) (*models.Advertisement, error) {
	return r.next(ctx, models.StreamListings)
}

// Next dispatches on the stream name
func (r *Rotator) Next(ctx context.Context, stream models.Stream) (*models.Advertisement, error) {
	return r.next(ctx, stream)
}

func (r *Rotator) next(ctx context.Context, stream models.Stream) (*models.Advertisement, error) {
	set, err := r.activeSet(ctx, stream)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, nil
	}

	n := len(set)
	pointer, err := r.settings.AdvanceRotation(ctx, stream, func(p int) int {
		_, next := Advance(p, n)
		return next
	})
	if err != nil {
		return nil, fmt.Errorf("advance %s rotation: %w", stream, err)
	}

	idx, _ := Advance(pointer, n)
	ad := set[idx]
	picks.WithLabelValues(string(stream)).Inc()
	r.logger.Debug("Ad picked",
		zap.String("stream", string(stream)),
		zap.Int64("ad_id", ad.ID),
		zap.Int("index", idx),
		zap.Int("active", n),
	)
	return &ad, nil
}

func (r *Rotator) activeSet(ctx context.Context, stream models.Stream) ([]models.Advertisement, error) {
	var types []models.AdType
	switch stream {
	case models.StreamMenu:
		types = []models.AdType{models.AdTypeMenu}
	case models.StreamListings:
		types = []models.AdType{models.AdTypeListings}
	case models.StreamBroadcast:
		types = []models.AdType{models.AdTypeBroadcast, models.AdTypeBroadcastPinned}
	default:
		return nil, fmt.Errorf("unknown stream %q", stream)
	}

	now := r.now()
	var set []models.Advertisement
	for _, t := range types {
		ads, err := r.ads.ListActiveAdvertisements(ctx, t, now)
		if err != nil {
			return nil, fmt.Errorf("list %s ads: %w", t, err)
		}
		set = append(set, ads...)
	}
	return set, nil
}
