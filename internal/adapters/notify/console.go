package notify

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console imprime el estado del bot a stdout.
type Console struct {
	out io.Writer
}

// NewConsole crea un printer que escribe a stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter crea un printer para tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintCycle imprime el resultado compacto de un ciclo.
func (c *Console) PrintCycle(market domain.Market, action string, decision *domain.TradeDecision) {
	now := time.Now().Format("15:04:05")
	label := truncate(market.Question, 40)
	if label == "" {
		label = market.ID
	}

	if decision == nil {
		fmt.Fprintf(c.out, "[%s] %s → %s\n", now, label, action)
		return
	}
	fmt.Fprintf(c.out, "[%s] %s → %s: %s $%.2f @ %.4f (pair cost proy. %.4f)\n",
		now, label, action, decision.Side, decision.DollarAmount,
		decision.Price, decision.ProjectedPairCost)
}

// PrintReport imprime el estado completo del performance log más las
// estadísticas del histórico espejado en SQLite.
func (c *Console) PrintReport(log *domain.PerformanceLog, stats domain.HistoryStats) {
	fmt.Fprintf(c.out, "\n========================================================\n")
	fmt.Fprintf(c.out, "  PERFORMANCE REPORT\n")
	fmt.Fprintf(c.out, "  since %s  status: %s\n",
		log.StartTime.Format("2006-01-02 15:04"), log.Status)
	fmt.Fprintf(c.out, "========================================================\n")

	c.printPositions("OPEN POSITIONS", log.OpenPositions)
	c.printPositions("CLOSED POSITIONS", log.ClosedPositions)
	c.printHistory(log.TradeHistory)

	fmt.Fprintf(c.out, "\n  --- TOTALS ---\n")
	fmt.Fprintf(c.out, "  Trades executed:       %d\n", log.TotalTrades)
	fmt.Fprintf(c.out, "  Dollars spent:         $%.2f\n", log.TotalDollarSpent)
	fmt.Fprintf(c.out, "  Settlement payout:     $%.2f\n", log.TotalPayout)
	fmt.Fprintf(c.out, "  Net P&L:               $%.2f\n", log.TotalPayout-log.TotalDollarSpent)

	if stats.TotalTrades > 0 || stats.TotalSettlements > 0 {
		fmt.Fprintf(c.out, "\n  --- HISTORY DB ---\n")
		fmt.Fprintf(c.out, "  Trades mirrored:       %d\n", stats.TotalTrades)
		fmt.Fprintf(c.out, "  Settlements:           %d\n", stats.TotalSettlements)
		fmt.Fprintf(c.out, "  Realized PnL:          $%.2f\n", stats.RealizedPnL)
		if !stats.FirstTrade.IsZero() {
			fmt.Fprintf(c.out, "  First trade:           %s\n", stats.FirstTrade.Format("2006-01-02 15:04"))
			fmt.Fprintf(c.out, "  Last trade:            %s\n", stats.LastTrade.Format("2006-01-02 15:04"))
		}
	}
	fmt.Fprintln(c.out)
}

// printPositions imprime una tabla de posiciones por mercado.
func (c *Console) printPositions(title string, positions map[string]domain.Position) {
	fmt.Fprintf(c.out, "\n  --- %s (%d) ---\n", title, len(positions))
	if len(positions) == 0 {
		return
	}

	// Orden estable para que el report sea reproducible.
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	table := tablewriter.NewWriter(c.out)
	table.Header("Market", "qYES", "qNO", "costYES", "costNO", "Pair cost", "Exit?")

	for _, id := range ids {
		pos := positions[id]
		exit := ""
		if domain.ShouldExit(pos) {
			exit = "YES"
		}
		table.Append(
			truncate(id, 20),
			fmt.Sprintf("%.2f", pos.AmountYes),
			fmt.Sprintf("%.2f", pos.AmountNo),
			fmt.Sprintf("$%.2f", pos.CostYes),
			fmt.Sprintf("$%.2f", pos.CostNo),
			fmt.Sprintf("%.4f", pos.PairCost()),
			exit,
		)
	}
	table.Render()
}

// printHistory imprime los últimos registros del trade history.
func (c *Console) printHistory(history []domain.TradeRecord) {
	const maxRows = 15

	fmt.Fprintf(c.out, "\n  --- TRADE HISTORY (last %d of %d) ---\n",
		min(maxRows, len(history)), len(history))
	if len(history) == 0 {
		return
	}

	start := 0
	if len(history) > maxRows {
		start = len(history) - maxRows
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Time", "Kind", "Market", "Side", "Amount", "Shares", "Price", "PnL")

	for _, rec := range history[start:] {
		pnl := "-"
		if rec.Kind == domain.RecordSettlement {
			pnl = fmt.Sprintf("$%.2f", rec.PnL)
		}
		table.Append(
			rec.Timestamp.Format("01-02 15:04"),
			string(rec.Kind),
			truncate(rec.MarketID, 16),
			string(rec.Side),
			fmt.Sprintf("$%.2f", rec.DollarAmount),
			fmt.Sprintf("%.2f", rec.Shares),
			fmt.Sprintf("%.4f", rec.Price),
			pnl,
		)
	}
	table.Render()
}

// truncate corta por runas: las preguntas de Polymarket pueden traer
// caracteres multi-byte.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
