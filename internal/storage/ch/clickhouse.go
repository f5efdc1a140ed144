package ch

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"market/internal/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"
)

// ImpressionLog stores advertisement impressions in ClickHouse
type ImpressionLog struct {
	conn clickhouse.Conn
}

// NewImpressionLog creates a new ClickHouse connection
func NewImpressionLog(host string, port int, database, user, password string, useTLS bool) (*ImpressionLog, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	options := &clickhouse.Options{
		Addr:     []string{addr},
		Protocol: clickhouse.Native,
		Auth: clickhouse.Auth{
			Database: database,
			Username: user,
			Password: password,
		},
	}

	// Configure TLS if enabled
	if useTLS {
		options.TLS = &tls.Config{
			InsecureSkipVerify: false,
		}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test the connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ImpressionLog{conn: conn}, nil
}

// Initialize creates the impressions table.
// goose does not handle ClickHouse well, so the table is created here.
func (l *ImpressionLog) Initialize(ctx context.Context) error {
	err := l.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ad_impressions (
			event_id UUID,
			ad_id Int64,
			stream LowCardinality(String),
			chat_id Int64,
			shown_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree()
		ORDER BY (stream, shown_at)
	`)
	if err != nil {
		return fmt.Errorf("failed to create ad_impressions: %w", err)
	}
	return nil
}

// Record stores a single impression
func (l *ImpressionLog) Record(ctx context.Context, imp models.Impression) error {
	return l.RecordBatch(ctx, []models.Impression{imp})
}

// RecordBatch stores impressions in one insert. Missing event ids and
// timestamps are filled in.
func (l *ImpressionLog) RecordBatch(ctx context.Context, imps []models.Impression) error {
	if len(imps) == 0 {
		return nil
	}

	batch, err := l.conn.PrepareBatch(ctx, `INSERT INTO ad_impressions (event_id, ad_id, stream, chat_id, shown_at)`)
	if err != nil {
		return fmt.Errorf("failed to prepare impressions batch: %w", err)
	}

	for _, imp := range imps {
		eventID, err := uuid.Parse(imp.EventID)
		if err != nil {
			eventID = uuid.New()
		}
		shownAt := imp.ShownAt
		if shownAt.IsZero() {
			shownAt = time.Now()
		}
		if err := batch.Append(eventID, imp.AdID, string(imp.Stream), imp.ChatID, shownAt.UTC()); err != nil {
			return fmt.Errorf("failed to append impression: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send impressions batch: %w", err)
	}
	return nil
}

// CountByStream returns impression counts per stream and ad since the given moment
func (l *ImpressionLog) CountByStream(ctx context.Context, since time.Time) ([]models.StreamStat, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT stream, ad_id, count() AS impressions
		FROM ad_impressions
		WHERE shown_at >= ?
		GROUP BY stream, ad_id
		ORDER BY stream, impressions DESC, ad_id`, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count impressions: %w", err)
	}
	defer rows.Close()

	var stats []models.StreamStat
	for rows.Next() {
		var (
			stat   models.StreamStat
			stream string
		)
		if err := rows.Scan(&stream, &stat.AdID, &stat.Impressions); err != nil {
			return nil, fmt.Errorf("failed to scan impression stat: %w", err)
		}
		stat.Stream = models.Stream(stream)
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

// Close closes the database connection
func (l *ImpressionLog) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
