package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"market/internal/models"
	"market/internal/service"
	"market/internal/storage"
)

// Rate limiter actions
const (
	actionStart      = "search_cmd"
	actionAll        = "all_ads_cmd"
	actionCategories = "categories_cmd"
)

const categoriesPageSize = 10

// allow checks the rate limit and tells the user how long to wait when denied
func (b *Bot) allow(ctx context.Context, chatID, userID int64, action string) bool {
	allowed, retry := b.deps.Limiter.CheckRateLimit(ctx, userID, action, b.opts.RateLimit, b.opts.RateWindow)
	if allowed {
		return true
	}
	seconds := int(retry.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	b.reply(chatID, fmt.Sprintf("Too many requests. Please wait %d s and try again.", seconds))
	return false
}

// handleStart registers the user, shows the menu and the next menu ad
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !b.allow(ctx, chatID, message.From.ID, actionStart) {
		return
	}

	if err := b.deps.Users.UpsertUser(ctx, message.From.ID, message.From.UserName); err != nil {
		b.logger.Error("Failed to register user", zap.Error(err), zap.Int64("user_id", message.From.ID))
	}

	text := `Welcome to the marketplace! 🛒

Available commands:
/all - Browse all listings
/categories - Show categories
/sell - Publish a listing
/unpublish <id> - Remove your listing from the feed
/cancel - Cancel the current action`
	b.reply(chatID, text)

	ad, err := b.deps.Ads.NextMenuAd(ctx)
	if err != nil {
		b.logger.Error("Failed to pick menu ad", zap.Error(err))
		return
	}
	if ad != nil {
		if err := b.SendAd(ctx, chatID, ad); err != nil {
			b.logger.Warn("Failed to send menu ad", zap.Error(err), zap.Int64("ad_id", ad.ID))
		}
	}
}

// handleAll shows the first page of the listings feed
func (b *Bot) handleAll(ctx context.Context, message *tgbotapi.Message) {
	if !b.allow(ctx, message.Chat.ID, message.From.ID, actionAll) {
		return
	}
	b.showFeedPage(ctx, message.Chat.ID, 1)
}

// showFeedPage renders one page of listings with a listings ad after every
// AdEvery-th item
func (b *Bot) showFeedPage(ctx context.Context, chatID int64, page int) {
	feed, err := b.deps.Marketplace.Feed(ctx, page, b.opts.PageSize)
	if err != nil {
		b.logger.Error("Failed to load feed", zap.Error(err), zap.Int64("chat_id", chatID))
		b.reply(chatID, "Listings are unavailable right now. Please try again later.")
		return
	}
	if len(feed.Items) == 0 {
		b.reply(chatID, "No listings available yet.")
		return
	}

	for i, item := range feed.Items {
		b.sendListing(chatID, item)

		if (i+1)%b.opts.AdEvery != 0 {
			continue
		}
		ad, err := b.deps.Ads.NextListingsAd(ctx)
		if err != nil {
			b.logger.Error("Failed to pick listings ad", zap.Error(err))
			continue
		}
		if ad != nil {
			if err := b.SendAd(ctx, chatID, ad); err != nil {
				b.logger.Warn("Failed to send listings ad", zap.Error(err), zap.Int64("ad_id", ad.ID))
			}
		}
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Page %d of %d", feed.Page, feed.TotalPages))
	if keyboard, ok := pagerKeyboard(feed.Page, feed.TotalPages); ok {
		msg.ReplyMarkup = keyboard
	}
	b.sendMessage(msg)
}

func pagerKeyboard(page, total int) (tgbotapi.InlineKeyboardMarkup, bool) {
	var row []tgbotapi.InlineKeyboardButton
	if page > 1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", fmt.Sprintf("feed:%d", page-1)))
	}
	if page < total {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("feed:%d", page+1)))
	}
	if len(row) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(row), true
}

// handleCategories lists the first categories page
func (b *Bot) handleCategories(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !b.allow(ctx, chatID, message.From.ID, actionCategories) {
		return
	}

	categories, err := b.deps.Marketplace.Categories(ctx, 1, categoriesPageSize)
	if err != nil {
		b.logger.Error("Failed to load categories", zap.Error(err))
		b.reply(chatID, "Categories are unavailable right now. Please try again later.")
		return
	}
	if len(categories) == 0 {
		b.reply(chatID, "No categories yet.")
		return
	}

	var text strings.Builder
	text.WriteString("Categories:\n\n")
	for _, c := range categories {
		text.WriteString(fmt.Sprintf("• %s\n", c.Name))
	}
	b.reply(chatID, text.String())
}

// requireAdmin tells non-admins off
func (b *Bot) requireAdmin(message *tgbotapi.Message) bool {
	if b.admins[message.From.ID] {
		return true
	}
	b.logger.Warn("Unauthorized admin command",
		zap.Int64("user_id", message.From.ID),
		zap.String("username", message.From.UserName),
		zap.String("command", message.Command()),
	)
	b.reply(message.Chat.ID, "This command is for administrators only.")
	return false
}

// handleAdminCommand runs /approve, /reject and /ad_off for admins
func (b *Bot) handleAdminCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !b.requireAdmin(message) {
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(message.CommandArguments()), 10, 64)
	if err != nil || id <= 0 {
		b.reply(chatID, fmt.Sprintf("Usage: /%s <id>", message.Command()))
		return
	}

	switch message.Command() {
	case "approve":
		err = b.deps.Marketplace.Approve(ctx, id)
	case "reject":
		err = b.deps.Marketplace.Reject(ctx, id)
	case "ad_off":
		err = b.deps.AdManager.Deactivate(ctx, id)
	case "category_del":
		err = b.deps.Marketplace.DeleteCategory(ctx, id)
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.reply(chatID, fmt.Sprintf("Nothing found with id %d.", id))
	case err != nil:
		b.logger.Error("Admin command failed", zap.Error(err), zap.String("command", message.Command()), zap.Int64("id", id))
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
	default:
		b.reply(chatID, "✅ Done.")
	}
}

// handleUnpublish takes a listing out of the feed. Sellers may unpublish
// their own listings, admins any listing.
func (b *Bot) handleUnpublish(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	id, err := strconv.ParseInt(strings.TrimSpace(message.CommandArguments()), 10, 64)
	if err != nil || id <= 0 {
		b.reply(chatID, "Usage: /unpublish <id>")
		return
	}

	if b.admins[message.From.ID] {
		err = b.deps.Marketplace.Unpublish(ctx, id)
	} else {
		err = b.deps.Marketplace.UnpublishOwn(ctx, id, message.From.ID)
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.reply(chatID, fmt.Sprintf("Nothing found with id %d.", id))
	case errors.Is(err, service.ErrNotOwner):
		b.reply(chatID, "You can only unpublish your own listings.")
	case err != nil:
		b.logger.Error("Unpublish failed", zap.Error(err), zap.Int64("id", id))
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
	default:
		b.reply(chatID, fmt.Sprintf("✅ Listing #%d was removed from the feed.", id))
	}
}

// handleCategoryAdd creates a category named by the command arguments
func (b *Bot) handleCategoryAdd(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !b.requireAdmin(message) {
		return
	}

	name := strings.TrimSpace(message.CommandArguments())
	if name == "" {
		b.reply(chatID, "Usage: /category_add <name>")
		return
	}

	category, err := b.deps.Marketplace.CreateCategory(ctx, name, "")
	if err != nil {
		b.logger.Error("Failed to create category", zap.Error(err), zap.String("name", name))
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Category #%d %q created.", category.ID, category.Name))
}

// handleAdStats shows impressions per stream for the last 24 hours
func (b *Bot) handleAdStats(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !b.requireAdmin(message) {
		return
	}
	if b.deps.Stats == nil {
		b.reply(chatID, "Impression statistics are not configured.")
		return
	}

	stats, err := b.deps.Stats.CountByStream(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		b.logger.Error("Failed to load impression stats", zap.Error(err))
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	if len(stats) == 0 {
		b.reply(chatID, "No impressions in the last 24 hours.")
		return
	}

	var text strings.Builder
	text.WriteString("📊 Impressions, last 24 hours:\n\n")
	for _, s := range stats {
		text.WriteString(fmt.Sprintf("%s · ad #%d: %d\n", s.Stream, s.AdID, s.Impressions))
	}
	b.reply(chatID, text.String())
}

func (b *Bot) sendListing(chatID int64, item models.ListingSnapshot) {
	text := listingText(item)
	if len(item.Photos) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(item.Photos[0]))
		photo.Caption = text
		b.sendMessage(photo)
		return
	}
	b.reply(chatID, text)
}
