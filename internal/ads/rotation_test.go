package ads

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"market/internal/models"
	"market/internal/storage/stubs"
)

func TestAdvance(t *testing.T) {
	testCases := []struct {
		name         string
		pointer      int
		n            int
		expectedIdx  int
		expectedNext int
	}{
		{"empty set keeps pointer", 4, 0, -1, 4},
		{"first of three", 0, 3, 0, 1},
		{"middle of three", 1, 3, 1, 2},
		{"last of three wraps", 2, 3, 2, 0},
		{"single ad", 0, 1, 0, 0},
		{"drifted pointer lands inside set", 7, 3, 1, 0},
		{"pointer equal to size", 3, 3, 0, 0},
		{"negative pointer starts over", -2, 3, 0, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			idx, next := Advance(tc.pointer, tc.n)
			assert.Equal(t, tc.expectedIdx, idx, "index")
			assert.Equal(t, tc.expectedNext, next, "next pointer")
		})
	}
}

type fixture struct {
	db      *stubs.MockDB
	rotator *Rotator
	service *Service
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := stubs.NewMockDB()
	require.NoError(t, db.Initialize(context.Background()))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		db:      db,
		rotator: NewRotator(db, db, zap.NewNop()),
		service: NewService(db, zap.NewNop()),
		now:     now,
	}
	f.rotator.now = func() time.Time { return f.now }
	f.service.now = func() time.Time { return f.now }
	return f
}

// addAds creates ads in order; later ads are newer
func (f *fixture) addAds(t *testing.T, adType models.AdType, texts ...string) map[string]int64 {
	t.Helper()
	ids := make(map[string]int64, len(texts))
	for i, text := range texts {
		ad := &models.Advertisement{
			Text:      text,
			Active:    true,
			Type:      adType,
			Duration:  models.DurationWeek,
			StartsAt:  f.now.Add(-time.Hour),
			CreatedAt: f.now.Add(-time.Hour + time.Duration(i)*time.Minute),
		}
		require.NoError(t, f.db.CreateAdvertisement(context.Background(), ad))
		ids[text] = ad.ID
	}
	return ids
}

func texts(t *testing.T, calls int, next func(context.Context) (*models.Advertisement, error)) []string {
	t.Helper()
	var out []string
	for i := 0; i < calls; i++ {
		ad, err := next(context.Background())
		require.NoError(t, err)
		require.NotNil(t, ad)
		out = append(out, ad.Text)
	}
	return out
}

func TestRotator_EmptyStream(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ad, err := f.rotator.NextMenuAd(ctx)
	require.NoError(t, err)
	assert.Nil(t, ad)

	settings, err := f.db.Settings(ctx)
	require.NoError(t, err)
	assert.Zero(t, settings.MenuAdIndex, "pointer must not move when nothing is shown")
}

func TestRotator_CoversEveryAdOncePerCycle(t *testing.T) {
	f := newFixture(t)
	f.addAds(t, models.AdTypeMenu, "A", "B", "C", "D")

	got := texts(t, 5, f.rotator.NextMenuAd)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, got[:4])
	assert.Equal(t, got[0], got[4], "next cycle starts over")
	assert.Equal(t, []string{"D", "C", "B", "A", "D"}, got, "newest first")
}

func TestRotator_StreamsAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAds(t, models.AdTypeMenu, "m1", "m2")
	f.addAds(t, models.AdTypeListings, "l1", "l2", "l3")

	assert.Equal(t, []string{"m2", "m1", "m2"}, texts(t, 3, f.rotator.NextMenuAd))
	assert.Equal(t, []string{"l3"}, texts(t, 1, f.rotator.NextListingsAd))

	settings, err := f.db.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, settings.MenuAdIndex)
	assert.Equal(t, 1, settings.ListingsAdIndex)
	assert.Zero(t, settings.BroadcastAdIndex)
}

func TestRotator_BroadcastIncludesPinned(t *testing.T) {
	f := newFixture(t)
	f.addAds(t, models.AdTypeBroadcastPinned, "p1")
	f.addAds(t, models.AdTypeBroadcast, "b1", "b2")

	assert.Equal(t, []string{"b2", "b1", "p1", "b2"}, texts(t, 4, f.rotator.NextBroadcastAd))
}

func TestRotator_DriftedPointerSelfCorrects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAds(t, models.AdTypeMenu, "A", "B", "C")

	drift := 7
	_, err := f.db.UpdateSettings(ctx, models.SettingsUpdate{MenuAdIndex: &drift})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "B"}, texts(t, 3, f.rotator.NextMenuAd))

	settings, err := f.db.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, settings.MenuAdIndex)
}

func TestRotator_SkipsExpiredAndFutureAds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAds(t, models.AdTypeMenu, "live")

	expired := f.now.Add(-time.Minute)
	require.NoError(t, f.db.CreateAdvertisement(ctx, &models.Advertisement{
		Text: "expired", Active: true, Type: models.AdTypeMenu,
		StartsAt: f.now.Add(-48 * time.Hour), EndsAt: &expired, CreatedAt: f.now,
	}))
	require.NoError(t, f.db.CreateAdvertisement(ctx, &models.Advertisement{
		Text: "future", Active: true, Type: models.AdTypeMenu,
		StartsAt: f.now.Add(time.Hour), CreatedAt: f.now,
	}))

	assert.Equal(t, []string{"live", "live"}, texts(t, 2, f.rotator.NextMenuAd))
}

func TestRotator_DeactivationEndToEnd(t *testing.T) {
	testCases := []struct {
		name   string
		adType models.AdType
		next   func(*Rotator) func(context.Context) (*models.Advertisement, error)
	}{
		{"listings", models.AdTypeListings, func(r *Rotator) func(context.Context) (*models.Advertisement, error) { return r.NextListingsAd }},
		{"menu", models.AdTypeMenu, func(r *Rotator) func(context.Context) (*models.Advertisement, error) { return r.NextMenuAd }},
		{"broadcast", models.AdTypeBroadcast, func(r *Rotator) func(context.Context) (*models.Advertisement, error) { return r.NextBroadcastAd }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			next := tc.next(f.rotator)

			ids := make(map[string]int64)
			for _, text := range []string{"A", "B", "C"} {
				ad, err := f.service.Create(ctx, NewAdvertisement{Text: text, Type: tc.adType, Duration: models.DurationDay})
				require.NoError(t, err)
				ids[text] = ad.ID
			}

			assert.Equal(t, []string{"C", "B", "A", "C"}, texts(t, 4, next))

			require.NoError(t, f.service.Deactivate(ctx, ids["B"]))

			// pointer is 1 over [C, A]
			assert.Equal(t, []string{"A", "C"}, texts(t, 2, next))
		})
	}
}

func TestRotator_UnknownStream(t *testing.T) {
	f := newFixture(t)

	_, err := f.rotator.Next(context.Background(), models.Stream("sidebar"))
	assert.Error(t, err)
}
