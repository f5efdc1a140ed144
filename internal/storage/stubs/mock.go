package stubs

import (
	"context"
	"sort"
	"sync"
	"time"

	"market/internal/models"
	"market/internal/storage"
)

// MockDB is an in-memory implementation of the Storage interface for testing
type MockDB struct {
	mu         sync.RWMutex
	categories map[int64]categoryRow
	listings   map[int64]models.Listing
	ads        map[int64]models.Advertisement
	users      map[int64]models.User
	settings   *models.BotSettings
	nextID     int64
}

type categoryRow struct {
	models.Category
	Description string
}

// NewMockDB creates a new mock database
func NewMockDB() *MockDB {
	return &MockDB{
		categories: make(map[int64]categoryRow),
		listings:   make(map[int64]models.Listing),
		ads:        make(map[int64]models.Advertisement),
		users:      make(map[int64]models.User),
	}
}

var _ storage.Storage = (*MockDB)(nil)

// Initialize adds a few default categories
func (m *MockDB) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.categories) > 0 {
		return nil
	}
	for _, name := range []string{"Electronics", "Clothes", "Home", "Services"} {
		id := m.id()
		m.categories[id] = categoryRow{Category: models.Category{ID: id, Name: name}}
	}
	return nil
}

// id hands out the next identifier; callers hold the write lock
func (m *MockDB) id() int64 {
	m.nextID++
	return m.nextID
}

// ListCategories returns categories ordered by id
func (m *MockDB) ListCategories(ctx context.Context, offset, limit int) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, c.Category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(categories) {
		return nil, nil
	}
	categories = categories[offset:]
	if limit >= 0 && limit < len(categories) {
		categories = categories[:limit]
	}
	return categories, nil
}

// CreateCategory adds a category
func (m *MockDB) CreateCategory(ctx context.Context, name, description string) (models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := models.Category{ID: m.id(), Name: name}
	m.categories[c.ID] = categoryRow{Category: c, Description: description}
	return c, nil
}

// DeleteCategory removes a category
func (m *MockDB) DeleteCategory(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.categories, id)
	return nil
}

// CreateListing stores a listing
func (m *MockDB) CreateListing(ctx context.Context, listing models.Listing) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[listing.CategoryID]; !ok {
		return 0, storage.ErrCategoryNotFound
	}
	if listing.SellerTelegramID != 0 {
		if _, ok := m.users[listing.SellerTelegramID]; !ok {
			return 0, storage.ErrUserNotFound
		}
	}

	listing.ID = m.id()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now().UTC()
	}
	listing.Photos = append([]string(nil), listing.Photos...)
	m.listings[listing.ID] = listing
	return listing.ID, nil
}

// ListingSeller returns the Telegram id of the listing's seller
func (m *MockDB) ListingSeller(ctx context.Context, id int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	listing, ok := m.listings[id]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return listing.SellerTelegramID, nil
}

// SetPublication changes the publication state of a listing
func (m *MockDB) SetPublication(ctx context.Context, id int64, published *bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	listing, ok := m.listings[id]
	if !ok {
		return storage.ErrNotFound
	}
	if published != nil {
		v := *published
		published = &v
	}
	listing.Publication = published
	m.listings[id] = listing
	return nil
}

// ListPublishedListingIDs returns published listing ids, newest first
func (m *MockDB) ListPublishedListingIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []int64
	for id, l := range m.listings {
		if l.Publication != nil && *l.Publication {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids, nil
}

// ListingFields returns feed fields for the given listings
func (m *MockDB) ListingFields(ctx context.Context, ids []int64) (map[int64]models.ListingFields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields := make(map[int64]models.ListingFields, len(ids))
	for _, id := range ids {
		l, ok := m.listings[id]
		if !ok {
			continue
		}
		fields[id] = models.ListingFields{
			Name:        l.Name,
			Description: l.Description,
			Price:       l.Price,
			Contact:     l.Contact,
			Geo:         l.Geo,
			CreatedAt:   l.CreatedAt,
		}
	}
	return fields, nil
}

// ListingPhotos returns photos for the given listings
func (m *MockDB) ListingPhotos(ctx context.Context, ids []int64) (map[int64][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	photos := make(map[int64][]string)
	for _, id := range ids {
		l, ok := m.listings[id]
		if !ok || len(l.Photos) == 0 {
			continue
		}
		photos[id] = append([]string(nil), l.Photos...)
	}
	return photos, nil
}

// CreateAdvertisement stores an advertisement
func (m *MockDB) CreateAdvertisement(ctx context.Context, ad *models.Advertisement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ad.ID = m.id()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now().UTC()
	}
	row := *ad
	row.Media = append([]models.Media(nil), ad.Media...)
	m.ads[ad.ID] = row
	return nil
}

// DeactivateAdvertisement marks an advertisement inactive
func (m *MockDB) DeactivateAdvertisement(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ad, ok := m.ads[id]
	if !ok {
		return nil
	}
	ad.Active = false
	m.ads[id] = ad
	return nil
}

// ListActiveAdvertisements returns visible ads of one type, newest first
func (m *MockDB) ListActiveAdvertisements(ctx context.Context, adType models.AdType, now time.Time) ([]models.Advertisement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ads []models.Advertisement
	for _, ad := range m.ads {
		if ad.Type != adType || !ad.Visible(now) {
			continue
		}
		ad.Media = append([]models.Media(nil), ad.Media...)
		ads = append(ads, ad)
	}

	// Newest first; ids break ties between ads created in the same instant
	sort.Slice(ads, func(i, j int) bool {
		if !ads[i].CreatedAt.Equal(ads[j].CreatedAt) {
			return ads[i].CreatedAt.After(ads[j].CreatedAt)
		}
		return ads[i].ID > ads[j].ID
	})
	return ads, nil
}

// settingsRow returns the singleton row, creating it if needed; callers hold the write lock
func (m *MockDB) settingsRow() *models.BotSettings {
	if m.settings == nil {
		s := models.DefaultSettings()
		now := time.Now().UTC()
		s.CreatedAt, s.UpdatedAt = now, now
		m.settings = &s
	}
	return m.settings
}

// Settings returns the singleton settings row
func (m *MockDB) Settings(ctx context.Context) (models.BotSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return *m.settingsRow(), nil
}

// UpdateSettings applies a partial update to the settings row
func (m *MockDB) UpdateSettings(ctx context.Context, update models.SettingsUpdate) (models.BotSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.settingsRow()
	update.Apply(s)
	s.UpdatedAt = time.Now().UTC()
	return *s, nil
}

// AdvanceRotation moves the stream pointer under the write lock
func (m *MockDB) AdvanceRotation(ctx context.Context, stream models.Stream, step func(pointer int) int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.settingsRow()
	current := s.Pointer(stream)
	s.SetPointer(stream, step(current))
	s.UpdatedAt = time.Now().UTC()
	return current, nil
}

// UpsertUser registers a user
func (m *MockDB) UpsertUser(ctx context.Context, telegramID int64, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[telegramID]; ok {
		if username != "" {
			u.Username = username
			m.users[telegramID] = u
		}
		return nil
	}
	m.users[telegramID] = models.User{
		ID:         m.id(),
		TelegramID: telegramID,
		Username:   username,
		CreatedAt:  time.Now().UTC(),
	}
	return nil
}

// ListUserTelegramIDs returns Telegram ids of all users ordered by registration
func (m *MockDB) ListUserTelegramIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.TelegramID)
	}
	return ids, nil
}

// Close does nothing for mock DB
func (m *MockDB) Close() error {
	return nil
}
