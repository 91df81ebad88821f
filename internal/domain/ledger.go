package domain

// ledger.go — unified performance log, the bot's only durable state.
//
// One PerformanceLog per deployment. Open positions are keyed by market id;
// settlement moves the position into closed_positions (immutable from then
// on) AND writes the zeroed position back into open_positions. The double
// write is the crash-recovery mechanism: a restart sees either the pre-exit
// state (recomputes the same exit) or the closed state (no-ops via the
// closed check), never a half-applied mutation.

import (
	"time"

	"github.com/google/uuid"
)

// TradeRecordKind distinguishes entry fills from settlement records.
type TradeRecordKind string

const (
	RecordTrade      TradeRecordKind = "trade"
	RecordSettlement TradeRecordKind = "settlement"
)

// TradeRecord is one append-only entry in the trade history.
// Trade records carry side/amounts/price; settlement records carry PnL.
type TradeRecord struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Kind         TradeRecordKind `json:"kind"`
	MarketID     string          `json:"market_id"`
	Question     string          `json:"question"`
	Side         Side            `json:"side,omitempty"`
	DollarAmount float64         `json:"dollar_amount,omitempty"`
	Shares       float64         `json:"shares,omitempty"`
	Price        float64         `json:"price,omitempty"`
	PnL          float64         `json:"pnl,omitempty"`
}

// HistoryStats is the aggregate over the mirrored trade history, used by
// the report mode.
type HistoryStats struct {
	TotalTrades      int
	TotalSettlements int
	DollarsSpent     float64
	RealizedPnL      float64
	FirstTrade       time.Time
	LastTrade        time.Time
}

// PerformanceLog is the process-wide durable record: cumulative totals,
// open and closed positions, and the full trade history.
type PerformanceLog struct {
	StartTime        time.Time           `json:"start_time"`
	Status           string              `json:"status"`
	TotalTrades      int                 `json:"total_trades"`
	TotalPayout      float64             `json:"total_payout"`
	TotalDollarSpent float64             `json:"total_dollar_amount_spent"`
	OpenPositions    map[string]Position `json:"open_positions"`
	ClosedPositions  map[string]Position `json:"closed_positions"`
	TradeHistory     []TradeRecord       `json:"trade_history"`
}

// NewPerformanceLog creates an empty log with the clock's current time.
func NewPerformanceLog(now time.Time) *PerformanceLog {
	return &PerformanceLog{
		StartTime:       now.UTC(),
		Status:          "running",
		OpenPositions:   map[string]Position{},
		ClosedPositions: map[string]Position{},
	}
}

// EnsureMaps initializes nil maps after JSON decoding.
func (l *PerformanceLog) EnsureMaps() {
	if l.OpenPositions == nil {
		l.OpenPositions = map[string]Position{}
	}
	if l.ClosedPositions == nil {
		l.ClosedPositions = map[string]Position{}
	}
}

// IsClosed reports whether the market has already settled. Settlement is
// terminal per market: a closed market is never mutated again.
func (l *PerformanceLog) IsClosed(marketID string) bool {
	_, ok := l.ClosedPositions[marketID]
	return ok
}

// PositionFor returns the open position for the market, zero-valued if the
// market has not been seen before.
func (l *PerformanceLog) PositionFor(marketID string) Position {
	return l.OpenPositions[marketID]
}

// RecordFill applies an executed fill to the market's open position, appends
// the trade record and bumps the cumulative totals. Returns the record for
// mirroring into secondary storage.
func (l *PerformanceLog) RecordFill(now time.Time, market Market, side Side, price float64, fill Fill) TradeRecord {
	pos := l.OpenPositions[market.ID].ApplyFill(side, fill)
	l.OpenPositions[market.ID] = pos

	rec := TradeRecord{
		ID:           uuid.NewString(),
		Timestamp:    now.UTC(),
		Kind:         RecordTrade,
		MarketID:     market.ID,
		Question:     market.Question,
		Side:         side,
		DollarAmount: fill.Cost,
		Shares:       fill.Shares,
		Price:        price,
	}
	l.TradeHistory = append(l.TradeHistory, rec)
	l.TotalTrades++
	l.TotalDollarSpent += fill.Cost
	return rec
}

// RecordSettlement performs the terminal transition for a market: the final
// position is copied into closed_positions, the open slot is zeroed, the
// payout is added to the totals and a settlement record is appended.
// Calling it for an already-closed market is a no-op (second return false).
func (l *PerformanceLog) RecordSettlement(now time.Time, market Market, s Settlement) (TradeRecord, bool) {
	if l.IsClosed(market.ID) {
		return TradeRecord{}, false
	}

	l.ClosedPositions[market.ID] = l.OpenPositions[market.ID]
	l.OpenPositions[market.ID] = Position{}
	l.TotalPayout += s.TotalPayout

	rec := TradeRecord{
		ID:        uuid.NewString(),
		Timestamp: now.UTC(),
		Kind:      RecordSettlement,
		MarketID:  market.ID,
		Question:  market.Question,
		Side:      s.Outcome,
		PnL:       s.Profit,
	}
	l.TradeHistory = append(l.TradeHistory, rec)
	return rec, true
}
