package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// NewBot creates a new Telegram bot
func NewBot(token string, deps Deps, opts Options, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	b := New(api, deps, opts, logger)
	b.client = api
	return b, nil
}

// New wires a bot over an existing sender. Bots built this way cannot poll.
func New(api Sender, deps Deps, opts Options, logger *zap.Logger) *Bot {
	defaults := DefaultOptions()
	if opts.PageSize <= 0 {
		opts.PageSize = defaults.PageSize
	}
	if opts.AdEvery <= 0 {
		opts.AdEvery = defaults.AdEvery
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaults.RateLimit
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = defaults.RateWindow
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}

	admins := make(map[int64]bool, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = true
	}

	return &Bot{
		api:    api,
		deps:   deps,
		opts:   opts,
		admins: admins,
		states: make(map[int64]*ConversationState),
		logger: logger,
	}
}
