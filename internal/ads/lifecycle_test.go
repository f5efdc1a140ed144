package ads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market/internal/models"
)

func TestEndsAt(t *testing.T) {
	start := time.Date(2026, 1, 31, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		duration models.Duration
		expected time.Time
	}{
		{"day", models.DurationDay, start.Add(24 * time.Hour)},
		{"week", models.DurationWeek, start.Add(7 * 24 * time.Hour)},
		{"month is thirty days", models.DurationMonth, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)},
		{"unknown falls back to day", models.Duration("fortnight"), start.Add(24 * time.Hour)},
		{"empty falls back to day", "", start.Add(24 * time.Hour)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EndsAt(start, tc.duration))
		})
	}
}

func TestVisible(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	testCases := []struct {
		name     string
		at       time.Time
		active   bool
		endsAt   *time.Time
		expected bool
	}{
		{"before start", start.Add(-time.Second), true, &end, false},
		{"exactly at start", start, true, &end, true},
		{"inside window", start.Add(time.Hour), true, &end, true},
		{"exactly at end", end, true, &end, true},
		{"after end", end.Add(time.Second), true, &end, false},
		{"no end date", start.Add(365 * 24 * time.Hour), true, nil, true},
		{"inactive", start.Add(time.Hour), false, &end, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ad := models.Advertisement{Active: tc.active, StartsAt: start, EndsAt: tc.endsAt}
			assert.Equal(t, tc.expected, ad.Visible(tc.at))
		})
	}
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	media := []models.Media{
		{FileID: "photo-1", Kind: models.MediaPhoto},
		{FileID: "video-1", Kind: models.MediaVideo},
	}
	ad, err := f.service.Create(ctx, NewAdvertisement{
		Text:     "Summer sale",
		Type:     models.AdTypeBroadcastPinned,
		Duration: models.DurationWeek,
		Pinned:   true,
		Media:    media,
	})
	require.NoError(t, err)

	assert.NotZero(t, ad.ID)
	assert.True(t, ad.Active)
	assert.Equal(t, f.now, ad.StartsAt)
	require.NotNil(t, ad.EndsAt)
	assert.Equal(t, f.now.Add(7*24*time.Hour), *ad.EndsAt)

	stored, err := f.db.ListActiveAdvertisements(ctx, models.AdTypeBroadcastPinned, f.now)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, media, stored[0].Media, "media keep their order")
	assert.True(t, stored[0].Pinned)
}

func TestService_CreateScheduled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	later := f.now.Add(48 * time.Hour)
	ad, err := f.service.Create(ctx, NewAdvertisement{Text: "Soon", Type: models.AdTypeMenu, StartsAt: &later})
	require.NoError(t, err)
	assert.Equal(t, later.Add(24*time.Hour), *ad.EndsAt)

	next, err := f.rotator.NextMenuAd(ctx)
	require.NoError(t, err)
	assert.Nil(t, next, "scheduled ads stay hidden until they start")
}

func TestService_CreateInvalidType(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), NewAdvertisement{Text: "x", Type: "banner"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestService_DeactivateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ad, err := f.service.Create(ctx, NewAdvertisement{Text: "Once", Type: models.AdTypeListings})
	require.NoError(t, err)

	require.NoError(t, f.service.Deactivate(ctx, ad.ID))
	require.NoError(t, f.service.Deactivate(ctx, ad.ID))
	require.NoError(t, f.service.Deactivate(ctx, 999999))

	next, err := f.rotator.NextListingsAd(ctx)
	require.NoError(t, err)
	assert.Nil(t, next)
}
