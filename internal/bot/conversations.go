package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"market/internal/service"
	"market/internal/storage"
)

// /sell steps
const (
	sellName = iota + 1
	sellDescription
	sellPrice
	sellContact
	sellCategory
)

// handleSellStart initiates the new listing conversation
func (b *Bot) handleSellStart(ctx context.Context, message *tgbotapi.Message) {
	b.setState(message.From.ID, &ConversationState{
		Command: "sell",
		Step:    sellName,
		Data:    make(map[string]interface{}),
	})
	b.reply(message.Chat.ID, "Please enter the listing title:")
}

// handleConversation processes multi-step conversations
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Command {
	case "sell":
		b.handleSellConversation(ctx, message, state)
	}

	if state.Step == stepDone {
		b.clearState(message.From.ID)
	}
}

func (b *Bot) handleSellConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	// Photos may arrive with any step; the largest size is kept
	if len(message.Photo) > 0 {
		photos, _ := state.Data["photos"].([]string)
		state.Data["photos"] = append(photos, message.Photo[len(message.Photo)-1].FileID)
		if text == "" {
			text = strings.TrimSpace(message.Caption)
		}
		if text == "" {
			b.reply(chatID, "📷 Photo added.")
			return
		}
	}

	switch state.Step {
	case sellName:
		if text == "" {
			b.reply(chatID, "The title can't be empty. Please enter the listing title:")
			return
		}
		state.Data["name"] = text
		state.Step = sellDescription
		b.reply(chatID, "Describe the item (or send - to skip):")

	case sellDescription:
		if text != "-" {
			state.Data["description"] = text
		}
		state.Step = sellPrice
		b.reply(chatID, "Enter the price in rubles (or send - if negotiable):")

	case sellPrice:
		if text != "-" {
			price, err := strconv.ParseInt(strings.ReplaceAll(text, " ", ""), 10, 64)
			if err != nil || price < 0 {
				b.reply(chatID, "❌ Invalid price. Please enter a whole number or -:")
				return
			}
			state.Data["price"] = price
		}
		state.Step = sellContact
		b.reply(chatID, "How can buyers contact you?")

	case sellContact:
		if text == "" {
			b.reply(chatID, "Please enter a contact:")
			return
		}
		state.Data["contact"] = text
		state.Step = sellCategory
		b.showCategoryPicker(ctx, chatID, state)
	}
}

func (b *Bot) showCategoryPicker(ctx context.Context, chatID int64, state *ConversationState) {
	categories, err := b.deps.Marketplace.Categories(ctx, 1, categoriesPageSize)
	if err != nil || len(categories) == 0 {
		if err != nil {
			b.logger.Error("Failed to load categories for listing", zap.Error(err))
		}
		b.reply(chatID, "No categories available. Please try again later.")
		state.Step = stepDone
		return
	}

	msg := tgbotapi.NewMessage(chatID, "📂 Select a category:")

	// 2 columns
	var rows [][]tgbotapi.InlineKeyboardButton
	var currentRow []tgbotapi.InlineKeyboardButton
	for i, c := range categories {
		currentRow = append(currentRow, tgbotapi.NewInlineKeyboardButtonData(c.Name, fmt.Sprintf("category:%d", c.ID)))
		if len(currentRow) == 2 || i == len(categories)-1 {
			rows = append(rows, currentRow)
			currentRow = nil
		}
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.sendMessage(msg)
}

// handleCategoryCallback completes /sell once a category is picked. The
// conversation is taken out of the state map before the listing is created,
// so a second tap on the keyboard finds nothing to complete.
func (b *Bot) handleCategoryCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID

	categoryID, err := strconv.ParseInt(strings.TrimPrefix(query.Data, "category:"), 10, 64)
	if err != nil {
		return
	}

	state := b.takeState(query.From.ID, func(s *ConversationState) bool {
		return s.Command == "sell" && s.Step == sellCategory
	})
	if state == nil {
		return
	}

	// Sellers who skipped /start still need a users row
	if err := b.deps.Users.UpsertUser(ctx, query.From.ID, query.From.UserName); err != nil {
		b.logger.Error("Failed to register seller", zap.Error(err), zap.Int64("user_id", query.From.ID))
	}

	in := service.NewListing{
		SellerTelegramID: query.From.ID,
		CategoryID:       categoryID,
	}
	in.Name, _ = state.Data["name"].(string)
	in.Description, _ = state.Data["description"].(string)
	in.Contact, _ = state.Data["contact"].(string)
	in.Photos, _ = state.Data["photos"].([]string)
	if price, ok := state.Data["price"].(int64); ok {
		in.Price = &price
	}

	id, published, err := b.deps.Marketplace.Create(ctx, in)
	switch {
	case errors.Is(err, storage.ErrCategoryNotFound):
		b.reply(chatID, "This category no longer exists. Please start again with /sell")
	case errors.Is(err, storage.ErrUserNotFound):
		b.reply(chatID, "Please send /start first, then try /sell again.")
	case err != nil:
		b.logger.Error("Failed to create listing", zap.Error(err), zap.Int64("user_id", query.From.ID))
		b.reply(chatID, fmt.Sprintf("Error creating listing: %v", err))
	case published:
		b.reply(chatID, fmt.Sprintf("✅ Listing #%d is published!", id))
	default:
		b.reply(chatID, fmt.Sprintf("✅ Listing #%d was sent for moderation.", id))
	}
}
