package notify_test

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/alejandrodnm/polyhedge/internal/adapters/notify"
	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	console := notify.NewConsoleWriter(&buf)

	now := time.Now()
	log := domain.NewPerformanceLog(now)
	market := domain.Market{ID: "mkt-1", Question: "Will BTC be up this hour?"}
	log.RecordFill(now, market, domain.SideYes, 0.40, domain.Fill{Shares: 25, Cost: 10})
	log.OpenPositions["mkt-2"] = domain.Position{AmountYes: 30, AmountNo: 25, CostYes: 12, CostNo: 10}

	console.PrintReport(log, domain.HistoryStats{TotalTrades: 1, DollarsSpent: 10})

	out := buf.String()
	assert.Contains(t, out, "PERFORMANCE REPORT")
	assert.Contains(t, out, "OPEN POSITIONS (2)")
	assert.Contains(t, out, "mkt-2")
	assert.Contains(t, out, "TRADE HISTORY")
	assert.Contains(t, out, "Trades executed:       1")
}

func TestPrintCycle_MultiByteQuestion(t *testing.T) {
	var buf bytes.Buffer
	console := notify.NewConsoleWriter(&buf)

	// Pregunta larga con caracteres multi-byte: el corte no debe partir
	// ninguna runa.
	market := domain.Market{
		ID:       "mkt-1",
		Question: "¿Subirá el precio de Bitcoin por encima de $100.000 a medianoche según el índice de referencia?",
	}

	console.PrintCycle(market, "no_decision", nil)

	out := buf.String()
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "¿Subirá el precio")
	assert.Contains(t, out, "...")
}

func TestPrintCycle(t *testing.T) {
	var buf bytes.Buffer
	console := notify.NewConsoleWriter(&buf)

	market := domain.Market{ID: "mkt-1", Question: "Will BTC be up this hour?"}

	console.PrintCycle(market, "no_decision", nil)
	assert.Contains(t, buf.String(), "no_decision")

	buf.Reset()
	console.PrintCycle(market, "traded", &domain.TradeDecision{
		Side: domain.SideYes, Price: 0.40, DollarAmount: 5, ProjectedPairCost: 0.4,
	})
	out := buf.String()
	assert.Contains(t, out, "traded")
	assert.Contains(t, out, "YES $5.00 @ 0.4000")
}
