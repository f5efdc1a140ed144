package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"market/internal/models"
	"market/internal/service"
	"market/internal/storage"
)

//go:generate mockgen -source=types.go -destination=mocks/mocks.go -package=mocks

// Sender delivers requests to the Telegram Bot API
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	SendMediaGroup(config tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error)
}

// AdPicker chooses the next ad of each rotation stream
type AdPicker interface {
	NextMenuAd(ctx context.Context) (*models.Advertisement, error)
	NextBroadcastAd(ctx context.Context) (*models.Advertisement, error)
	NextListingsAd(ctx context.Context) (*models.Advertisement, error)
}

// RateLimiter decides whether a user may run an action now
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, subjectID int64, action string, limit int, window time.Duration) (bool, time.Duration)
}

// Marketplace is the listing side the bot talks to
type Marketplace interface {
	Feed(ctx context.Context, page, pageSize int) (service.FeedPage, error)
	Categories(ctx context.Context, page, limit int) ([]models.Category, error)
	Create(ctx context.Context, in service.NewListing) (int64, bool, error)
	Approve(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	Unpublish(ctx context.Context, id int64) error
	UnpublishOwn(ctx context.Context, id, sellerTelegramID int64) error
	CreateCategory(ctx context.Context, name, description string) (models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// AdManager retires advertisements on admin request
type AdManager interface {
	Deactivate(ctx context.Context, id int64) error
}

// ImpressionRecorder stores which ad was shown to which chat
type ImpressionRecorder interface {
	Record(ctx context.Context, imp models.Impression) error
	RecordBatch(ctx context.Context, imps []models.Impression) error
}

// ImpressionStats aggregates recorded impressions
type ImpressionStats interface {
	CountByStream(ctx context.Context, since time.Time) ([]models.StreamStat, error)
}

// Deps holds the services the bot dispatches to
type Deps struct {
	Users       storage.UserStore
	Ads         AdPicker
	AdManager   AdManager
	Marketplace Marketplace
	Limiter     RateLimiter
	Recorder    ImpressionRecorder
	// Stats is optional; /ad_stats reports it is unavailable when nil
	Stats ImpressionStats
}

// Options tune the user facing behaviour
type Options struct {
	AdminIDs   []int64
	PageSize   int
	AdEvery    int
	RateLimit  int
	RateWindow time.Duration
}

// DefaultOptions returns the settings used when a field is left zero
func DefaultOptions() Options {
	return Options{
		PageSize:   10,
		AdEvery:    3,
		RateLimit:  3,
		RateWindow: 3 * time.Second,
	}
}

// Bot represents the Telegram bot wrapper
type Bot struct {
	client   *tgbotapi.BotAPI
	api      Sender
	deps     Deps
	opts     Options
	admins   map[int64]bool
	states   map[int64]*ConversationState
	statesMu sync.Mutex
	logger   *zap.Logger
}

// ConversationState tracks the state of multi-step commands
type ConversationState struct {
	Command string
	Step    int
	Data    map[string]interface{}
}

const stepDone = -1
