package domain_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarket() domain.Market {
	return domain.Market{
		ID:         "mkt-1",
		Question:   "Will BTC be up this hour?",
		YesTokenID: "tok-yes",
		NoTokenID:  "tok-no",
	}
}

func TestPerformanceLog_RecordFill(t *testing.T) {
	now := time.Now()
	log := domain.NewPerformanceLog(now)
	market := testMarket()

	rec := log.RecordFill(now, market, domain.SideYes, 0.40, domain.Fill{Shares: 25, Cost: 10})

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, domain.RecordTrade, rec.Kind)
	assert.Equal(t, domain.SideYes, rec.Side)
	assert.InDelta(t, 10.0, rec.DollarAmount, 1e-9)

	pos := log.PositionFor(market.ID)
	assert.Equal(t, 25.0, pos.AmountYes)
	assert.Equal(t, 10.0, pos.CostYes)
	assert.Equal(t, 1, log.TotalTrades)
	assert.InDelta(t, 10.0, log.TotalDollarSpent, 1e-9)
	assert.Len(t, log.TradeHistory, 1)
}

// totalTrades y totalDollarSpent nunca decrecen entre ciclos.
func TestPerformanceLog_MonotonicTotals(t *testing.T) {
	now := time.Now()
	log := domain.NewPerformanceLog(now)
	market := testMarket()

	prevTrades, prevSpent := 0, 0.0
	for i := 0; i < 20; i++ {
		log.RecordFill(now, market, domain.SideNo, 0.45, domain.Fill{Shares: 2, Cost: 0.9})

		require.GreaterOrEqual(t, log.TotalTrades, prevTrades)
		require.GreaterOrEqual(t, log.TotalDollarSpent, prevSpent)
		prevTrades, prevSpent = log.TotalTrades, log.TotalDollarSpent
	}
}

func TestPerformanceLog_RecordSettlement(t *testing.T) {
	now := time.Now()
	log := domain.NewPerformanceLog(now)
	market := testMarket()

	log.RecordFill(now, market, domain.SideYes, 0.40, domain.Fill{Shares: 25, Cost: 10})
	log.RecordFill(now, market, domain.SideNo, 0.48, domain.Fill{Shares: 30, Cost: 12})

	settlement := domain.Settlement{
		Outcome:        domain.SideYes,
		PayoutPerShare: 1.0,
		TotalPayout:    25,
		TotalCost:      22,
		Profit:         3,
	}

	rec, ok := log.RecordSettlement(now, market, settlement)
	require.True(t, ok)
	assert.Equal(t, domain.RecordSettlement, rec.Kind)
	assert.InDelta(t, 3.0, rec.PnL, 1e-9)

	// Double-write: copia cerrada + slot abierto a cero.
	assert.True(t, log.IsClosed(market.ID))
	closed := log.ClosedPositions[market.ID]
	assert.Equal(t, 25.0, closed.AmountYes)
	assert.True(t, log.OpenPositions[market.ID].IsEmpty())
	assert.InDelta(t, 25.0, log.TotalPayout, 1e-9)
}

// Aplicar la transición de settlement dos veces no duplica el payout ni
// toca la copia cerrada.
func TestPerformanceLog_SettlementIdempotent(t *testing.T) {
	now := time.Now()
	log := domain.NewPerformanceLog(now)
	market := testMarket()

	log.RecordFill(now, market, domain.SideYes, 0.40, domain.Fill{Shares: 25, Cost: 10})

	settlement := domain.Settlement{Outcome: domain.SideYes, PayoutPerShare: 1, TotalPayout: 25}

	_, ok := log.RecordSettlement(now, market, settlement)
	require.True(t, ok)
	closedBefore := log.ClosedPositions[market.ID]
	payoutBefore := log.TotalPayout
	historyBefore := len(log.TradeHistory)

	_, ok = log.RecordSettlement(now, market, settlement)
	assert.False(t, ok)
	assert.Equal(t, closedBefore, log.ClosedPositions[market.ID])
	assert.Equal(t, payoutBefore, log.TotalPayout)
	assert.Len(t, log.TradeHistory, historyBefore)
}

func TestPerformanceLog_EnsureMaps(t *testing.T) {
	var log domain.PerformanceLog
	log.EnsureMaps()

	assert.NotNil(t, log.OpenPositions)
	assert.NotNil(t, log.ClosedPositions)
	assert.False(t, log.IsClosed("whatever"))
	assert.True(t, log.PositionFor("whatever").IsEmpty())
}
