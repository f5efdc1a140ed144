package storage

import (
	"context"
	"errors"
	"time"

	"market/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrCategoryNotFound is returned when a listing references a missing category
	ErrCategoryNotFound = errors.New("category not found")
	// ErrUserNotFound is returned when a listing names a seller who never registered
	ErrUserNotFound = errors.New("user not found")
)

// CategoryStore defines category operations
type CategoryStore interface {
	// ListCategories returns categories ordered by id, skipping offset rows
	ListCategories(ctx context.Context, offset, limit int) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, description string) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ListingStore defines listing operations used by the feed and moderation
type ListingStore interface {
	// CreateListing stores the listing with its photos and returns the new id.
	// ErrCategoryNotFound is returned for an unknown category, ErrUserNotFound
	// for an unregistered seller.
	CreateListing(ctx context.Context, listing models.Listing) (int64, error)
	// SetPublication sets the tri-state publication flag (nil = pending)
	SetPublication(ctx context.Context, id int64, published *bool) error
	// ListingSeller returns the seller's Telegram id (0 if unknown) or ErrNotFound
	ListingSeller(ctx context.Context, id int64) (int64, error)

	// ListPublishedListingIDs returns ids of published listings, newest first
	ListPublishedListingIDs(ctx context.Context) ([]int64, error)
	ListingFields(ctx context.Context, ids []int64) (map[int64]models.ListingFields, error)
	// ListingPhotos returns photo references per listing in insertion order
	ListingPhotos(ctx context.Context, ids []int64) (map[int64][]string, error)
}

// AdvertisementStore defines advertisement operations
type AdvertisementStore interface {
	// CreateAdvertisement inserts ad with its media and fills ID and CreatedAt
	CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error
	// DeactivateAdvertisement clears the active flag. Missing ids are ignored.
	DeactivateAdvertisement(ctx context.Context, id int64) error
	// ListActiveAdvertisements returns ads of the given type visible at now,
	// newest first, with media attached
	ListActiveAdvertisements(ctx context.Context, adType models.AdType, now time.Time) ([]models.Advertisement, error)
}

// SettingsStore owns the singleton settings row. The row is created with
// default values on first access.
type SettingsStore interface {
	Settings(ctx context.Context) (models.BotSettings, error)
	UpdateSettings(ctx context.Context, update models.SettingsUpdate) (models.BotSettings, error)

	// AdvanceRotation reads the stream pointer, stores step(pointer) and
	// returns the pointer that was read. Read and write happen atomically.
	AdvanceRotation(ctx context.Context, stream models.Stream, step func(pointer int) int) (int, error)
}

// UserStore defines operations on the broadcast audience
type UserStore interface {
	UpsertUser(ctx context.Context, telegramID int64, username string) error
	ListUserTelegramIDs(ctx context.Context) ([]int64, error)
}

// Storage defines the interface for data storage operations
type Storage interface {
	CategoryStore
	ListingStore
	AdvertisementStore
	SettingsStore
	UserStore

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
