package engine

// oracle.go — price snapshot with all-or-nothing semantics.
//
// A cycle decides on a consistent pair of prices or it does not decide at
// all. If either side still fails after the retry budget the whole quote is
// discarded; partial quotes never reach the sizing logic.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/alejandrodnm/polyhedge/internal/ports"
)

const (
	oracleAttempts = 3
	oracleBaseWait = 1 * time.Second
)

// Oracle fetches both sides of a market as one atomic quote.
type Oracle struct {
	prices ports.PriceProvider
	log    *slog.Logger

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration)
}

// NewOracle builds an oracle on top of a price provider.
func NewOracle(prices ports.PriceProvider, log *slog.Logger) *Oracle {
	return &Oracle{
		prices: prices,
		log:    log,
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-time.After(d):
			case <-ctx.Done():
			}
		},
	}
}

// Quote fetches YES and NO prices for the market. Each side gets up to
// three attempts with 1s, 2s backoff between them; a side that exhausts its
// attempts fails the whole quote.
func (o *Oracle) Quote(ctx context.Context, market domain.Market) (domain.PriceQuote, error) {
	yes, err := o.fetchSide(ctx, market, domain.SideYes)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("engine.Quote: YES side: %w", err)
	}
	no, err := o.fetchSide(ctx, market, domain.SideNo)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("engine.Quote: NO side: %w", err)
	}

	quote := domain.PriceQuote{
		YesPrice:   yes,
		NoPrice:    no,
		YesTokenID: market.YesTokenID,
		NoTokenID:  market.NoTokenID,
	}
	if !quote.Valid() {
		return domain.PriceQuote{}, fmt.Errorf("engine.Quote: prices out of range: yes=%.4f no=%.4f", yes, no)
	}
	return quote, nil
}

// fetchSide pide el precio de un lado con backoff exponencial.
func (o *Oracle) fetchSide(ctx context.Context, market domain.Market, side domain.Side) (float64, error) {
	tokenID := market.TokenID(side)
	if tokenID == "" {
		return 0, fmt.Errorf("market %s has no %s token", market.ID, side)
	}

	var lastErr error
	for attempt := 0; attempt < oracleAttempts; attempt++ {
		if attempt > 0 {
			wait := oracleBaseWait << (attempt - 1)
			o.log.Debug("retrying price fetch",
				"market", market.ID, "side", side, "attempt", attempt+1, "wait", wait)
			o.sleep(ctx, wait)
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
		}

		price, err := o.prices.BestPrice(ctx, tokenID, side)
		if err != nil {
			lastErr = err
			continue
		}
		if price <= 0 || price >= 1 {
			lastErr = fmt.Errorf("price %.4f outside (0, 1)", price)
			continue
		}
		return price, nil
	}
	return 0, fmt.Errorf("after %d attempts: %w", oracleAttempts, lastErr)
}
