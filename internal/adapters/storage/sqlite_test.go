package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/adapters/storage"
	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecord(id string, kind domain.TradeRecordKind, ts time.Time) domain.TradeRecord {
	rec := domain.TradeRecord{
		ID:        id,
		Timestamp: ts,
		Kind:      kind,
		MarketID:  "mkt-1",
		Question:  "Will BTC be up this hour?",
	}
	if kind == domain.RecordTrade {
		rec.Side = domain.SideYes
		rec.DollarAmount = 5
		rec.Shares = 12.5
		rec.Price = 0.40
	} else {
		rec.PnL = 3
	}
	return rec
}

func TestSQLiteHistorian_RecordAndStats(t *testing.T) {
	db, err := storage.NewSQLiteHistorian(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, db.RecordTrade(ctx, makeRecord("a", domain.RecordTrade, base)))
	require.NoError(t, db.RecordTrade(ctx, makeRecord("b", domain.RecordTrade, base.Add(time.Minute))))
	require.NoError(t, db.RecordTrade(ctx, makeRecord("c", domain.RecordSettlement, base.Add(2*time.Minute))))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalTrades)
	assert.Equal(t, 1, stats.TotalSettlements)
	assert.InDelta(t, 10.0, stats.DollarsSpent, 1e-9)
	assert.InDelta(t, 3.0, stats.RealizedPnL, 1e-9)
	assert.False(t, stats.FirstTrade.IsZero())
	assert.False(t, stats.LastTrade.Before(stats.FirstTrade))
}

// Re-espejar el mismo registro tras un reinicio no duplica filas.
func TestSQLiteHistorian_IdempotentInsert(t *testing.T) {
	db, err := storage.NewSQLiteHistorian(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	rec := makeRecord("same-id", domain.RecordTrade, time.Now().UTC())

	require.NoError(t, db.RecordTrade(ctx, rec))
	require.NoError(t, db.RecordTrade(ctx, rec))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTrades)
	assert.InDelta(t, 5.0, stats.DollarsSpent, 1e-9)
}

func TestSQLiteHistorian_EmptyStats(t *testing.T) {
	db, err := storage.NewSQLiteHistorian(":memory:")
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTrades)
	assert.Zero(t, stats.TotalSettlements)
	assert.True(t, stats.FirstTrade.IsZero())
}
