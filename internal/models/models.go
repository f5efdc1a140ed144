package models

import "time"

// AdType tells where an advertisement is shown
type AdType string

const (
	AdTypeMenu            AdType = "menu"
	AdTypeListings        AdType = "listings"
	AdTypeBroadcast       AdType = "broadcast"
	AdTypeBroadcastPinned AdType = "broadcast_pinned"
)

// Valid reports whether t is one of the known placement types
func (t AdType) Valid() bool {
	switch t {
	case AdTypeMenu, AdTypeListings, AdTypeBroadcast, AdTypeBroadcastPinned:
		return true
	}
	return false
}

// Duration is the lifetime class of an advertisement
type Duration string

const (
	DurationDay   Duration = "day"
	DurationWeek  Duration = "week"
	DurationMonth Duration = "month"
)

// MediaKind is the kind of an attached media file
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// Stream identifies one of the independent ad rotation channels
type Stream string

const (
	StreamMenu      Stream = "menu"
	StreamBroadcast Stream = "broadcast"
	StreamListings  Stream = "listings"
)

// Media is a Telegram file attached to an advertisement
type Media struct {
	FileID string
	Kind   MediaKind
}

// Advertisement represents a promotional message shown in the bot
type Advertisement struct {
	ID          int64
	Text        string
	CreatedAt   time.Time
	Active      bool
	Type        AdType
	Duration    Duration
	StartsAt    time.Time
	EndsAt      *time.Time
	Pinned      bool
	Periodicity int
	Media       []Media
}

// Visible reports whether the ad may be shown at the given moment.
// Both window boundaries are inclusive.
func (a *Advertisement) Visible(now time.Time) bool {
	if !a.Active || a.StartsAt.After(now) {
		return false
	}
	return a.EndsAt == nil || !a.EndsAt.Before(now)
}

// Category represents a listing category
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Geo is a point attached to a listing
type Geo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Listing represents a marketplace item ("product").
// Publication is nil while the listing waits for moderation.
type Listing struct {
	ID               int64
	SellerTelegramID int64 // 0 when the seller is unknown
	CategoryID       int64
	Name             string
	Description      string
	Price            *int64
	Contact          string
	Geo              *Geo
	Publication      *bool
	CreatedAt        time.Time
	Photos           []string
}

// ListingFields is the subset of listing columns shown in the feed
type ListingFields struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *int64    `json:"price"`
	Contact     string    `json:"contact"`
	Geo         *Geo      `json:"geo"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListingSnapshot is a published listing as served from the feed cache
type ListingSnapshot struct {
	ID int64
	ListingFields
	Photos []string
}

// ListingsData is the cached view over all published listings
type ListingsData struct {
	OrderedIDs []int64
	Listings   map[int64]ListingFields
	Photos     map[int64][]string
}

// Empty reports whether there is nothing to show
func (d ListingsData) Empty() bool {
	return len(d.OrderedIDs) == 0
}

// Snapshot assembles the listing with the given id
func (d ListingsData) Snapshot(id int64) (ListingSnapshot, bool) {
	fields, ok := d.Listings[id]
	if !ok {
		return ListingSnapshot{}, false
	}
	return ListingSnapshot{ID: id, ListingFields: fields, Photos: d.Photos[id]}, true
}

// BotSettings is the singleton row with feature toggles and rotation pointers
type BotSettings struct {
	Moderation          bool
	Logging             bool
	NotificationDefault bool
	MenuAdIndex         int
	BroadcastAdIndex    int
	ListingsAdIndex     int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Pointer returns the rotation pointer of the stream
func (s *BotSettings) Pointer(stream Stream) int {
	switch stream {
	case StreamMenu:
		return s.MenuAdIndex
	case StreamBroadcast:
		return s.BroadcastAdIndex
	case StreamListings:
		return s.ListingsAdIndex
	}
	return 0
}

// SetPointer stores the rotation pointer of the stream
func (s *BotSettings) SetPointer(stream Stream, value int) {
	switch stream {
	case StreamMenu:
		s.MenuAdIndex = value
	case StreamBroadcast:
		s.BroadcastAdIndex = value
	case StreamListings:
		s.ListingsAdIndex = value
	}
}

// DefaultSettings returns the values a freshly created settings row holds
func DefaultSettings() BotSettings {
	return BotSettings{
		Moderation:          true,
		Logging:             true,
		NotificationDefault: true,
	}
}

// SettingsUpdate holds the settings fields to change; nil fields are kept
type SettingsUpdate struct {
	Moderation          *bool
	Logging             *bool
	NotificationDefault *bool
	MenuAdIndex         *int
	BroadcastAdIndex    *int
	ListingsAdIndex     *int
}

// Apply writes the non-nil fields into s
func (u SettingsUpdate) Apply(s *BotSettings) {
	if u.Moderation != nil {
		s.Moderation = *u.Moderation
	}
	if u.Logging != nil {
		s.Logging = *u.Logging
	}
	if u.NotificationDefault != nil {
		s.NotificationDefault = *u.NotificationDefault
	}
	if u.MenuAdIndex != nil {
		s.MenuAdIndex = *u.MenuAdIndex
	}
	if u.BroadcastAdIndex != nil {
		s.BroadcastAdIndex = *u.BroadcastAdIndex
	}
	if u.ListingsAdIndex != nil {
		s.ListingsAdIndex = *u.ListingsAdIndex
	}
}

// User is a bot user reachable for broadcasts
type User struct {
	ID         int64
	TelegramID int64
	Username   string
	CreatedAt  time.Time
}

// Impression is one advertisement shown to one chat
type Impression struct {
	EventID string
	AdID    int64
	Stream  Stream
	ChatID  int64
	ShownAt time.Time
}

// StreamStat is the number of impressions per stream and ad
type StreamStat struct {
	Stream      Stream
	AdID        int64
	Impressions uint64
}
