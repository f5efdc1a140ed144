package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"market/internal/models"
)

const descriptionPreview = 100

// sendMessage sends c and logs failures
func (b *Bot) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, bool) {
	msg, err := b.api.Send(c)
	if err != nil {
		b.logger.Warn("Failed to send message", zap.Error(err))
		return msg, false
	}
	return msg, true
}

func (b *Bot) reply(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// formatPrice groups thousands with spaces; a missing or zero price is negotiable
func formatPrice(price *int64) string {
	if price == nil || *price == 0 {
		return "negotiable"
	}

	digits := strconv.FormatInt(*price, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var out strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(' ')
		}
		out.WriteRune(r)
	}
	return sign + out.String() + " ₽"
}

func listingText(item models.ListingSnapshot) string {
	name := item.Name
	if name == "" {
		name = "Untitled"
	}
	desc := item.Description
	if desc == "" {
		desc = "No description"
	}
	if runes := []rune(desc); len(runes) > descriptionPreview {
		desc = string(runes[:descriptionPreview]) + "..."
	}
	return fmt.Sprintf("📌 %s\n💬 %s\n💰 Price: %s", name, desc, formatPrice(item.Price))
}
