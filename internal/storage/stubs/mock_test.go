package stubs

import (
	"context"
	"errors"
	"testing"
	"time"

	"market/internal/models"
	"market/internal/storage"
)

func boolPtr(v bool) *bool { return &v }

func TestMockDB_ListCategoriesPaging(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	if err := db.Initialize(ctx); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	first, err := db.ListCategories(ctx, 0, 3)
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(first))
	}

	rest, err := db.ListCategories(ctx, 3, 3)
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("Expected 1 category on the second page, got %d", len(rest))
	}
	if rest[0].ID <= first[2].ID {
		t.Errorf("Expected categories ordered by id, got %d after %d", rest[0].ID, first[2].ID)
	}

	empty, err := db.ListCategories(ctx, 10, 3)
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected no categories past the end, got %d", len(empty))
	}
}

func TestMockDB_CreateListingUnknownCategory(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	_, err := db.CreateListing(ctx, models.Listing{Name: "Bike", CategoryID: 42})
	if !errors.Is(err, storage.ErrCategoryNotFound) {
		t.Fatalf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestMockDB_CreateListingSeller(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	if err := db.Initialize(ctx); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	categories, err := db.ListCategories(ctx, 0, 1)
	if err != nil || len(categories) != 1 {
		t.Fatalf("Failed to list categories: %v", err)
	}
	categoryID := categories[0].ID

	_, err = db.CreateListing(ctx, models.Listing{SellerTelegramID: 123456789, CategoryID: categoryID, Name: "Bike"})
	if !errors.Is(err, storage.ErrUserNotFound) {
		t.Fatalf("Expected ErrUserNotFound for an unregistered seller, got %v", err)
	}

	if err := db.UpsertUser(ctx, 123456789, "seller"); err != nil {
		t.Fatalf("Failed to register user: %v", err)
	}
	id, err := db.CreateListing(ctx, models.Listing{SellerTelegramID: 123456789, CategoryID: categoryID, Name: "Bike"})
	if err != nil {
		t.Fatalf("Failed to create listing: %v", err)
	}

	seller, err := db.ListingSeller(ctx, id)
	if err != nil {
		t.Fatalf("Failed to load seller: %v", err)
	}
	if seller != 123456789 {
		t.Errorf("Expected seller 123456789, got %d", seller)
	}

	if _, err := db.ListingSeller(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing listing, got %v", err)
	}
}

func TestMockDB_PublishedListings(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	category, err := db.CreateCategory(ctx, "Bikes", "")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	price := int64(1500)
	older, _ := db.CreateListing(ctx, models.Listing{Name: "Old bike", CategoryID: category.ID, Price: &price, Photos: []string{"p1", "p2"}})
	newer, _ := db.CreateListing(ctx, models.Listing{Name: "New bike", CategoryID: category.ID})
	pending, _ := db.CreateListing(ctx, models.Listing{Name: "Pending bike", CategoryID: category.ID})

	if err := db.SetPublication(ctx, older, boolPtr(true)); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
	if err := db.SetPublication(ctx, newer, boolPtr(true)); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	ids, err := db.ListPublishedListingIDs(ctx)
	if err != nil {
		t.Fatalf("Failed to list ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != newer || ids[1] != older {
		t.Fatalf("Expected [%d %d], got %v", newer, older, ids)
	}
	for _, id := range ids {
		if id == pending {
			t.Error("Pending listing must not be published")
		}
	}

	fields, err := db.ListingFields(ctx, ids)
	if err != nil {
		t.Fatalf("Failed to get fields: %v", err)
	}
	if fields[older].Price == nil || *fields[older].Price != 1500 {
		t.Errorf("Expected price 1500, got %v", fields[older].Price)
	}
	if fields[newer].Price != nil {
		t.Errorf("Expected negotiable price, got %v", *fields[newer].Price)
	}

	photos, err := db.ListingPhotos(ctx, ids)
	if err != nil {
		t.Fatalf("Failed to get photos: %v", err)
	}
	if len(photos[older]) != 2 || photos[older][0] != "p1" {
		t.Errorf("Expected ordered photos [p1 p2], got %v", photos[older])
	}
	if _, ok := photos[newer]; ok {
		t.Error("Listing without photos must not appear in the photo map")
	}

	if err := db.SetPublication(ctx, 999, boolPtr(true)); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing listing, got %v", err)
	}
}

func TestMockDB_ListActiveAdvertisements(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	visible := &models.Advertisement{Text: "visible", Type: models.AdTypeMenu, Active: true, StartsAt: past, EndsAt: &future}
	notStarted := &models.Advertisement{Text: "later", Type: models.AdTypeMenu, Active: true, StartsAt: future}
	expired := &models.Advertisement{Text: "expired", Type: models.AdTypeMenu, Active: true, StartsAt: past, EndsAt: &past}
	otherType := &models.Advertisement{Text: "feed", Type: models.AdTypeListings, Active: true, StartsAt: past}
	newest := &models.Advertisement{Text: "newest", Type: models.AdTypeMenu, Active: true, StartsAt: past}

	for _, ad := range []*models.Advertisement{visible, notStarted, expired, otherType, newest} {
		if err := db.CreateAdvertisement(ctx, ad); err != nil {
			t.Fatalf("Failed to create advertisement: %v", err)
		}
	}

	ads, err := db.ListActiveAdvertisements(ctx, models.AdTypeMenu, now)
	if err != nil {
		t.Fatalf("Failed to list advertisements: %v", err)
	}
	if len(ads) != 2 {
		t.Fatalf("Expected 2 visible menu ads, got %d", len(ads))
	}
	if ads[0].ID != newest.ID || ads[1].ID != visible.ID {
		t.Errorf("Expected newest first, got %d then %d", ads[0].ID, ads[1].ID)
	}

	if err := db.DeactivateAdvertisement(ctx, newest.ID); err != nil {
		t.Fatalf("Failed to deactivate: %v", err)
	}
	if err := db.DeactivateAdvertisement(ctx, 12345); err != nil {
		t.Fatalf("Deactivating a missing ad must be a no-op, got %v", err)
	}

	ads, _ = db.ListActiveAdvertisements(ctx, models.AdTypeMenu, now)
	if len(ads) != 1 || ads[0].ID != visible.ID {
		t.Errorf("Expected only the remaining visible ad, got %v", ads)
	}
}

func TestMockDB_SettingsSingleton(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	s, err := db.Settings(ctx)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}
	if !s.Moderation || !s.Logging {
		t.Error("Expected default toggles to be on")
	}
	if s.MenuAdIndex != 0 || s.BroadcastAdIndex != 0 || s.ListingsAdIndex != 0 {
		t.Error("Expected zero rotation pointers on a fresh row")
	}

	off := false
	updated, err := db.UpdateSettings(ctx, models.SettingsUpdate{Moderation: &off})
	if err != nil {
		t.Fatalf("Failed to update settings: %v", err)
	}
	if updated.Moderation || !updated.Logging {
		t.Errorf("Expected only moderation to change, got %+v", updated)
	}

	read, err := db.AdvanceRotation(ctx, models.StreamMenu, func(p int) int { return p + 5 })
	if err != nil {
		t.Fatalf("Failed to advance rotation: %v", err)
	}
	if read != 0 {
		t.Errorf("Expected previous pointer 0, got %d", read)
	}

	s, _ = db.Settings(ctx)
	if s.MenuAdIndex != 5 || s.BroadcastAdIndex != 0 || s.ListingsAdIndex != 0 {
		t.Errorf("Expected only the menu pointer to move, got %+v", s)
	}
}

func TestMockDB_Users(t *testing.T) {
	db := NewMockDB()
	ctx := context.Background()

	_ = db.UpsertUser(ctx, 100, "alice")
	_ = db.UpsertUser(ctx, 200, "bob")
	_ = db.UpsertUser(ctx, 100, "alice2")

	ids, err := db.ListUserTelegramIDs(ctx)
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if len(ids) != 2 || ids[0] != 100 || ids[1] != 200 {
		t.Errorf("Expected [100 200], got %v", ids)
	}
}
