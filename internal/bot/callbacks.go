package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleFeedCallback processes the feed pager buttons (feed:<page>)
func (b *Bot) handleFeedCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	page, err := strconv.Atoi(strings.TrimPrefix(query.Data, "feed:"))
	if err != nil {
		return
	}

	chatID := query.Message.Chat.ID
	if !b.allow(ctx, chatID, query.From.ID, actionAll) {
		return
	}
	b.showFeedPage(ctx, chatID, page)
}
