package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.reply(message.Chat.ID, "An error occurred while processing your request. Please try again.")
		}
	}()

	userID := message.From.ID
	cancelled := false

	if state := b.state(userID); state != nil {
		switch {
		case state.Step == stepDone:
			b.clearState(userID)
		case message.IsCommand():
			// Any command cancels an ongoing conversation
			b.clearState(userID)
			cancelled = true
		default:
			b.handleConversation(ctx, message, state)
			return
		}
	}

	if !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "all":
		b.handleAll(ctx, message)
	case "categories":
		b.handleCategories(ctx, message)
	case "sell":
		b.handleSellStart(ctx, message)
	case "cancel":
		if cancelled {
			b.reply(message.Chat.ID, "Cancelled.")
		} else {
			b.reply(message.Chat.ID, "Nothing to cancel.")
		}
	case "unpublish":
		b.handleUnpublish(ctx, message)
	case "category_add":
		b.handleCategoryAdd(ctx, message)
	case "approve", "reject", "ad_off", "category_del":
		b.handleAdminCommand(ctx, message)
	case "ad_stats":
		b.handleAdStats(ctx, message)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /start to see available commands.")
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	// Answer the callback query to remove loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Debug("Failed to answer callback", zap.Error(err))
	}
	if query.Message == nil {
		return
	}

	data := query.Data
	switch {
	case strings.HasPrefix(data, "feed:"):
		b.handleFeedCallback(ctx, query)
	case strings.HasPrefix(data, "category:"):
		b.handleCategoryCallback(ctx, query)
	}
}

func (b *Bot) state(userID int64) *ConversationState {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	return b.states[userID]
}

func (b *Bot) setState(userID int64, state *ConversationState) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	b.states[userID] = state
}

// takeState removes and returns the user's state if match accepts it
func (b *Bot) takeState(userID int64, match func(*ConversationState) bool) *ConversationState {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	state, ok := b.states[userID]
	if !ok || !match(state) {
		return nil
	}
	delete(b.states, userID)
	return state
}

func (b *Bot) clearState(userID int64) {
	b.statesMu.Lock()
	defer b.statesMu.Unlock()
	delete(b.states, userID)
}
