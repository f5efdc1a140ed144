// Package service holds the write paths that must keep the feed cache in step
// with the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"market/internal/models"
	"market/internal/storage"
)

var (
	// ErrInvalidListing is returned when a listing misses required fields
	ErrInvalidListing = errors.New("invalid listing")
	// ErrNotOwner is returned when a user changes someone else's listing
	ErrNotOwner = errors.New("listing belongs to another user")
)

// Cache is the part of the feed cache the write paths depend on
type Cache interface {
	CategoryPage(ctx context.Context, page, limit int) ([]models.Category, error)
	AllListings(ctx context.Context) (models.ListingsData, error)
	InvalidateCategories(ctx context.Context)
	InvalidateOnNewListing(ctx context.Context)
}

// Store is the part of the storage the write paths depend on
type Store interface {
	storage.CategoryStore
	storage.ListingStore
	storage.SettingsStore
}

// NewListing holds what a user submits for a new listing
type NewListing struct {
	SellerTelegramID int64
	CategoryID       int64
	Name             string
	Description      string
	Price            *int64
	Contact          string
	Geo              *models.Geo
	Photos           []string
}

// FeedPage is one page of the published listings
type FeedPage struct {
	Items      []models.ListingSnapshot
	Page       int
	TotalPages int
}

// Listings mediates listing and category writes with cache invalidation
type Listings struct {
	store  Store
	cache  Cache
	logger *zap.Logger
}

// NewListings creates the listings service
func NewListings(store Store, cache Cache, logger *zap.Logger) *Listings {
	return &Listings{store: store, cache: cache, logger: logger}
}

// Create stores a listing. With moderation off it is published right away.
func (s *Listings) Create(ctx context.Context, in NewListing) (int64, bool, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, false, fmt.Errorf("%w: name is required", ErrInvalidListing)
	}
	if strings.TrimSpace(in.Contact) == "" {
		return 0, false, fmt.Errorf("%w: contact is required", ErrInvalidListing)
	}

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("load settings: %w", err)
	}

	listing := models.Listing{
		SellerTelegramID: in.SellerTelegramID,
		CategoryID:       in.CategoryID,
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		Price:            in.Price,
		Contact:          in.Contact,
		Geo:              in.Geo,
		Photos:           in.Photos,
	}
	published := !settings.Moderation
	if published {
		listing.Publication = &published
	}

	id, err := s.store.CreateListing(ctx, listing)
	if err != nil {
		return 0, false, fmt.Errorf("create listing: %w", err)
	}

	if published {
		s.cache.InvalidateOnNewListing(ctx)
	}
	s.logger.Info("Listing created",
		zap.Int64("listing_id", id),
		zap.Int64("seller_telegram_id", in.SellerTelegramID),
		zap.Bool("published", published),
	)
	return id, published, nil
}

// Approve publishes a listing waiting for moderation
func (s *Listings) Approve(ctx context.Context, id int64) error {
	return s.setPublication(ctx, id, true)
}

// Reject refuses a listing waiting for moderation
func (s *Listings) Reject(ctx context.Context, id int64) error {
	return s.setPublication(ctx, id, false)
}

// Unpublish removes a listing from the feed
func (s *Listings) Unpublish(ctx context.Context, id int64) error {
	return s.setPublication(ctx, id, false)
}

// UnpublishOwn removes a listing from the feed on behalf of its seller
func (s *Listings) UnpublishOwn(ctx context.Context, id, sellerTelegramID int64) error {
	seller, err := s.store.ListingSeller(ctx, id)
	if err != nil {
		return fmt.Errorf("load seller of listing %d: %w", id, err)
	}
	if seller == 0 || seller != sellerTelegramID {
		return ErrNotOwner
	}
	return s.setPublication(ctx, id, false)
}

func (s *Listings) setPublication(ctx context.Context, id int64, published bool) error {
	if err := s.store.SetPublication(ctx, id, &published); err != nil {
		return fmt.Errorf("set publication of listing %d: %w", id, err)
	}
	s.cache.InvalidateOnNewListing(ctx)
	s.logger.Info("Listing publication changed", zap.Int64("listing_id", id), zap.Bool("published", published))
	return nil
}

// Categories returns one page of categories through the cache
func (s *Listings) Categories(ctx context.Context, page, limit int) ([]models.Category, error) {
	return s.cache.CategoryPage(ctx, page, limit)
}

// CreateCategory adds a category
func (s *Listings) CreateCategory(ctx context.Context, name, description string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, errors.New("category name is required")
	}

	category, err := s.store.CreateCategory(ctx, name, description)
	if err != nil {
		return models.Category{}, fmt.Errorf("create category: %w", err)
	}
	s.cache.InvalidateCategories(ctx)
	return category, nil
}

// DeleteCategory removes a category
func (s *Listings) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.cache.InvalidateCategories(ctx)
	return nil
}

// Feed returns one page (1-based) of published listings, newest first.
// Pages past the end are clamped to the last page.
func (s *Listings) Feed(ctx context.Context, page, pageSize int) (FeedPage, error) {
	if pageSize < 1 {
		pageSize = 1
	}

	data, err := s.cache.AllListings(ctx)
	if err != nil {
		return FeedPage{}, fmt.Errorf("load listings: %w", err)
	}

	total := (len(data.OrderedIDs) + pageSize - 1) / pageSize
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}

	out := FeedPage{Page: page, TotalPages: total}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(data.OrderedIDs))
	for _, id := range data.OrderedIDs[min(start, end):end] {
		if snap, ok := data.Snapshot(id); ok {
			out.Items = append(out.Items, snap)
		}
	}
	return out, nil
}
