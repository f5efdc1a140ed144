package ch

import (
	"context"
	"testing"
	"time"

	"market/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clickhouseTC "github.com/testcontainers/testcontainers-go/modules/clickhouse"
)

// setupTestLog creates a test ClickHouse instance using testcontainers
func setupTestLog(t *testing.T) (*ImpressionLog, func()) {
	ctx := context.Background()

	// Start ClickHouse container
	clickhouseContainer, err := clickhouseTC.Run(ctx,
		"clickhouse/clickhouse-server:24.3.3.102-alpine",
		clickhouseTC.WithUsername("default"),
		clickhouseTC.WithPassword(""),
		clickhouseTC.WithDatabase("default"),
	)
	require.NoError(t, err, "Failed to start ClickHouse container")

	// Get connection details
	host, err := clickhouseContainer.Host(ctx)
	require.NoError(t, err)

	port, err := clickhouseContainer.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	log, err := NewImpressionLog(host, port.Int(), "default", "default", "", false)
	require.NoError(t, err, "Failed to connect to ClickHouse")

	_ = log.conn.Exec(ctx, "DROP TABLE IF EXISTS ad_impressions")
	require.NoError(t, log.Initialize(ctx), "Failed to create tables")

	cleanup := func() {
		log.Close()
		clickhouseContainer.Terminate(ctx)
	}

	return log, cleanup
}

// TestImpressionLog_RecordAndCount tests recording impressions and aggregating them
func TestImpressionLog_RecordAndCount(t *testing.T) {
	log, cleanup := setupTestLog(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	err := log.Record(ctx, models.Impression{EventID: uuid.NewString(), AdID: 1, Stream: models.StreamMenu, ChatID: 10, ShownAt: now})
	require.NoError(t, err)

	err = log.RecordBatch(ctx, []models.Impression{
		{AdID: 2, Stream: models.StreamBroadcast, ChatID: 10, ShownAt: now},
		{AdID: 2, Stream: models.StreamBroadcast, ChatID: 11, ShownAt: now},
		{AdID: 3, Stream: models.StreamBroadcast, ChatID: 12, ShownAt: now},
		{AdID: 1, Stream: models.StreamMenu, ChatID: 13, ShownAt: now.Add(-48 * time.Hour)},
	})
	require.NoError(t, err)

	stats, err := log.CountByStream(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stats, 3)

	// Ordered by stream name, then by impressions
	assert.Equal(t, models.StreamStat{Stream: models.StreamBroadcast, AdID: 2, Impressions: 2}, stats[0])
	assert.Equal(t, models.StreamStat{Stream: models.StreamBroadcast, AdID: 3, Impressions: 1}, stats[1])
	assert.Equal(t, models.StreamStat{Stream: models.StreamMenu, AdID: 1, Impressions: 1}, stats[2])
}

// TestImpressionLog_EmptyBatch tests that an empty batch is a no-op
func TestImpressionLog_EmptyBatch(t *testing.T) {
	log, cleanup := setupTestLog(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, log.RecordBatch(ctx, nil))

	stats, err := log.CountByStream(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stats)
}
