package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"market/internal/models"
)

// maxMediaGroup is the Telegram limit for one media group
const maxMediaGroup = 10

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, models.Impression) error        { return nil }
func (nopRecorder) RecordBatch(context.Context, []models.Impression) error { return nil }

// SendAd delivers ad to chatID and records the impression. Ads with media go
// out as one media group captioned on the first item.
func (b *Bot) SendAd(ctx context.Context, chatID int64, ad *models.Advertisement) error {
	if err := b.deliverAd(chatID, ad); err != nil {
		return err
	}
	if err := b.deps.Recorder.Record(ctx, impression(ad, chatID)); err != nil {
		b.logger.Warn("Failed to record impression", zap.Error(err), zap.Int64("ad_id", ad.ID))
	}
	return nil
}

func (b *Bot) deliverAd(chatID int64, ad *models.Advertisement) error {
	first, err := b.sendAdMessages(chatID, ad)
	if err != nil {
		return err
	}

	if ad.Pinned {
		pin := tgbotapi.PinChatMessageConfig{ChatID: chatID, MessageID: first, DisableNotification: true}
		if _, err := b.api.Request(pin); err != nil {
			b.logger.Debug("Failed to pin ad", zap.Error(err), zap.Int64("chat_id", chatID), zap.Int64("ad_id", ad.ID))
		}
	}
	return nil
}

// sendAdMessages returns the id of the first message sent
func (b *Bot) sendAdMessages(chatID int64, ad *models.Advertisement) (int, error) {
	if len(ad.Media) > 0 {
		msgs, err := b.api.SendMediaGroup(tgbotapi.NewMediaGroup(chatID, mediaGroup(ad)))
		if err == nil && len(msgs) > 0 {
			return msgs[0].MessageID, nil
		}
		// Fall back to plain text when media can't be delivered
		b.logger.Warn("Failed to send ad media, falling back to text",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
			zap.Int64("ad_id", ad.ID),
		)
	}

	msg, err := b.api.Send(tgbotapi.NewMessage(chatID, ad.Text))
	if err != nil {
		return 0, fmt.Errorf("send ad %d to %d: %w", ad.ID, chatID, err)
	}
	return msg.MessageID, nil
}

func mediaGroup(ad *models.Advertisement) []interface{} {
	media := ad.Media
	if len(media) > maxMediaGroup {
		media = media[:maxMediaGroup]
	}

	items := make([]interface{}, 0, len(media))
	for i, m := range media {
		caption := ""
		if i == 0 {
			caption = ad.Text
		}
		switch m.Kind {
		case models.MediaVideo:
			video := tgbotapi.NewInputMediaVideo(tgbotapi.FileID(m.FileID))
			video.Caption = caption
			items = append(items, video)
		default:
			photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(m.FileID))
			photo.Caption = caption
			items = append(items, photo)
		}
	}
	return items
}

func streamOf(t models.AdType) models.Stream {
	switch t {
	case models.AdTypeMenu:
		return models.StreamMenu
	case models.AdTypeListings:
		return models.StreamListings
	default:
		return models.StreamBroadcast
	}
}

func impression(ad *models.Advertisement, chatID int64) models.Impression {
	return models.Impression{
		EventID: uuid.NewString(),
		AdID:    ad.ID,
		Stream:  streamOf(ad.Type),
		ChatID:  chatID,
		ShownAt: time.Now().UTC(),
	}
}
