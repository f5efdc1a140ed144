package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"market/internal/models"
)

var deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "market",
	Subsystem: "broadcast",
	Name:      "deliveries_total",
	Help:      "Broadcast ad deliveries by result.",
}, []string{"result"})

// BroadcastResult summarizes one broadcast run
type BroadcastResult struct {
	RunID  string
	AdID   int64
	Sent   int
	Failed int
}

// Broadcaster periodically sends the next broadcast ad to every known user
type Broadcaster struct {
	bot      *Bot
	interval time.Duration
	logger   *zap.Logger
}

// NewBroadcaster creates a broadcaster that fires every interval (default 1h)
func NewBroadcaster(b *Bot, interval time.Duration, logger *zap.Logger) *Broadcaster {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Broadcaster{bot: b, interval: interval, logger: logger}
}

// Run broadcasts right away and then once per interval until ctx is done.
// A failed run is logged and retried on the next tick.
func (br *Broadcaster) Run(ctx context.Context) {
	br.logger.Info("Broadcaster started", zap.Duration("interval", br.interval))

	br.runLogged(ctx)

	ticker := time.NewTicker(br.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			br.logger.Info("Broadcaster stopped")
			return
		case <-ticker.C:
			br.runLogged(ctx)
		}
	}
}

func (br *Broadcaster) runLogged(ctx context.Context) {
	if _, err := br.RunOnce(ctx); err != nil {
		br.logger.Error("Broadcast run failed", zap.Error(err))
	}
}

// RunOnce picks the next broadcast ad and delivers it to all users. Failures
// for single users are counted and never stop the run.
func (br *Broadcaster) RunOnce(ctx context.Context) (BroadcastResult, error) {
	res := BroadcastResult{RunID: uuid.NewString()}

	ad, err := br.bot.deps.Ads.NextBroadcastAd(ctx)
	if err != nil {
		return res, fmt.Errorf("pick broadcast ad: %w", err)
	}
	if ad == nil {
		br.logger.Debug("No broadcast ad to send", zap.String("run_id", res.RunID))
		return res, nil
	}
	res.AdID = ad.ID

	users, err := br.bot.deps.Users.ListUserTelegramIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}

	var imps []models.Impression
	for _, chatID := range users {
		if ctx.Err() != nil {
			break
		}
		if err := br.bot.deliverAd(chatID, ad); err != nil {
			res.Failed++
			deliveries.WithLabelValues("failed").Inc()
			br.logger.Debug("Broadcast delivery failed", zap.Error(err), zap.Int64("chat_id", chatID))
			continue
		}
		res.Sent++
		deliveries.WithLabelValues("sent").Inc()
		imps = append(imps, impression(ad, chatID))
	}

	if err := br.bot.deps.Recorder.RecordBatch(ctx, imps); err != nil {
		br.logger.Warn("Failed to record broadcast impressions", zap.Error(err), zap.String("run_id", res.RunID))
	}

	br.logger.Info("Broadcast finished",
		zap.String("run_id", res.RunID),
		zap.Int64("ad_id", ad.ID),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
