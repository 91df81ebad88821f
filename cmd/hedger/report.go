package main

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/polyhedge/internal/adapters/notify"
	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/alejandrodnm/polyhedge/internal/ports"
)

// runReport imprime el performance log y las estadísticas del histórico
// sin tocar el mercado.
func runReport(ctx context.Context, l ports.Ledger, history ports.TradeHistorian, console *notify.Console) error {
	plog, err := l.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	var stats domain.HistoryStats
	if history != nil {
		stats, err = history.Stats(ctx)
		if err != nil {
			return fmt.Errorf("history stats: %w", err)
		}
	}

	console.PrintReport(plog, stats)
	return nil
}
