package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"market/internal/models"
	"market/internal/storage"
)

// Integration tests run against a real PostgreSQL started by testcontainers.
//
//	GO_TEST_INTEGRATION=1 go test ./internal/storage/postgres -v -count=1
func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "market"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/market?sslmode=disable", host, port.Port())

	require.NoError(t, Migrate(ctx, dsn, "up"))

	db, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Initialize(ctx))
	return db
}

func boolPtr(v bool) *bool { return &v }

func TestStorage_Listings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	category, err := db.CreateCategory(ctx, "Bikes", "two wheels")
	require.NoError(t, err)

	price := int64(2500)
	first, err := db.CreateListing(ctx, models.Listing{
		CategoryID: category.ID,
		Name:       "Road bike",
		Price:      &price,
		Contact:    "@seller",
		Geo:        &models.Geo{Latitude: 47.2, Longitude: 39.7},
		Photos:     []string{"photo-a", "photo-b"},
	})
	require.NoError(t, err)

	second, err := db.CreateListing(ctx, models.Listing{CategoryID: category.ID, Name: "Kids bike"})
	require.NoError(t, err)

	require.NoError(t, db.SetPublication(ctx, first, boolPtr(true)))
	require.NoError(t, db.SetPublication(ctx, second, boolPtr(true)))

	ids, err := db.ListPublishedListingIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{second, first}, ids)

	fields, err := db.ListingFields(ctx, ids)
	require.NoError(t, err)
	require.NotNil(t, fields[first].Price)
	assert.Equal(t, int64(2500), *fields[first].Price)
	require.NotNil(t, fields[first].Geo)
	assert.InDelta(t, 47.2, fields[first].Geo.Latitude, 1e-9)
	assert.Nil(t, fields[second].Price)
	assert.Nil(t, fields[second].Geo)

	photos, err := db.ListingPhotos(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"photo-a", "photo-b"}, photos[first])

	require.NoError(t, db.SetPublication(ctx, first, boolPtr(false)))
	ids, err = db.ListPublishedListingIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{second}, ids)
}

func TestStorage_CreateListingUnknownCategory(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.CreateListing(context.Background(), models.Listing{CategoryID: 999, Name: "ghost"})
	assert.True(t, errors.Is(err, storage.ErrCategoryNotFound), "got %v", err)
}

func TestStorage_CreateListingForRegisteredSeller(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// The internal users.id differs from the Telegram id
	require.NoError(t, db.UpsertUser(ctx, 777, "first"))
	require.NoError(t, db.UpsertUser(ctx, 123456789, "seller"))
	category, err := db.CreateCategory(ctx, "Bikes", "")
	require.NoError(t, err)

	id, err := db.CreateListing(ctx, models.Listing{
		SellerTelegramID: 123456789,
		CategoryID:       category.ID,
		Name:             "Road bike",
		Contact:          "@seller",
	})
	require.NoError(t, err)

	seller, err := db.ListingSeller(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), seller)

	anonymous, err := db.CreateListing(ctx, models.Listing{CategoryID: category.ID, Name: "No seller"})
	require.NoError(t, err)
	seller, err = db.ListingSeller(ctx, anonymous)
	require.NoError(t, err)
	assert.Zero(t, seller)

	_, err = db.CreateListing(ctx, models.Listing{SellerTelegramID: 42, CategoryID: category.ID, Name: "ghost"})
	assert.True(t, errors.Is(err, storage.ErrUserNotFound), "got %v", err)

	_, err = db.ListingSeller(ctx, 999999)
	assert.True(t, errors.Is(err, storage.ErrNotFound), "got %v", err)
}

func TestStorage_Advertisements(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	end := now.Add(time.Hour)

	older := &models.Advertisement{Text: "older", Active: true, Type: models.AdTypeListings,
		Duration: models.DurationDay, StartsAt: now.Add(-time.Minute), EndsAt: &end, Periodicity: 1,
		Media: []models.Media{{FileID: "v1", Kind: models.MediaVideo}, {FileID: "p1", Kind: models.MediaPhoto}}}
	require.NoError(t, db.CreateAdvertisement(ctx, older))

	newer := &models.Advertisement{Text: "newer", Active: true, Type: models.AdTypeListings,
		Duration: models.DurationDay, StartsAt: now.Add(-time.Minute), Periodicity: 1}
	require.NoError(t, db.CreateAdvertisement(ctx, newer))

	future := &models.Advertisement{Text: "future", Active: true, Type: models.AdTypeListings,
		Duration: models.DurationDay, StartsAt: now.Add(time.Hour), Periodicity: 1}
	require.NoError(t, db.CreateAdvertisement(ctx, future))

	ads, err := db.ListActiveAdvertisements(ctx, models.AdTypeListings, now)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, newer.ID, ads[0].ID)
	assert.Equal(t, older.ID, ads[1].ID)
	assert.Equal(t, []models.Media{{FileID: "v1", Kind: models.MediaVideo}, {FileID: "p1", Kind: models.MediaPhoto}}, ads[1].Media)

	require.NoError(t, db.DeactivateAdvertisement(ctx, newer.ID))
	require.NoError(t, db.DeactivateAdvertisement(ctx, 424242))

	ads, err = db.ListActiveAdvertisements(ctx, models.AdTypeListings, now)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, older.ID, ads[0].ID)
}

func TestStorage_SettingsAndRotation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s, err := db.Settings(ctx)
	require.NoError(t, err)
	assert.True(t, s.Moderation)
	assert.Zero(t, s.MenuAdIndex)

	off := false
	s, err = db.UpdateSettings(ctx, models.SettingsUpdate{Logging: &off})
	require.NoError(t, err)
	assert.False(t, s.Logging)
	assert.True(t, s.Moderation)

	// Concurrent advances must not lose increments
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.AdvanceRotation(ctx, models.StreamBroadcast, func(p int) int { return p + 1 })
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err = db.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, s.BroadcastAdIndex)
	assert.Zero(t, s.MenuAdIndex)
	assert.Zero(t, s.ListingsAdIndex)
}

func TestStorage_Users(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.UpsertUser(ctx, 10, "a"))
	require.NoError(t, db.UpsertUser(ctx, 20, "b"))
	require.NoError(t, db.UpsertUser(ctx, 10, ""))

	ids, err := db.ListUserTelegramIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, ids)
}
