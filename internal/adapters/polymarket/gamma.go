package polymarket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

const (
	gammaSeriesPath  = "/series"
	gammaMarketsPath = "/markets"
)

var (
	// ErrSeriesNotFound indica que la serie no existe en Gamma.
	ErrSeriesNotFound = errors.New("series not found")
	// ErrNoFutureEvents indica que la serie no tiene eventos sin resolver.
	ErrNoFutureEvents = errors.New("series has no future events")
)

// ActiveMarket implementa ports.MarketProvider: devuelve el mercado del
// evento futuro más próximo de la serie. Los eventos sin startDate o con
// fechas no parseables se saltan.
func (c *Client) ActiveMarket(ctx context.Context, seriesSlug string) (domain.Market, error) {
	u := fmt.Sprintf("%s%s?closed=false&limit=1&slug=%s",
		c.gammaBase, gammaSeriesPath, url.QueryEscape(seriesSlug))

	var series []gammaSeries
	if err := c.get(ctx, c.gammaLimiter, u, &series); err != nil {
		return domain.Market{}, fmt.Errorf("polymarket.ActiveMarket: fetch series %q: %w", seriesSlug, err)
	}
	if len(series) == 0 {
		return domain.Market{}, fmt.Errorf("polymarket.ActiveMarket: %q: %w", seriesSlug, ErrSeriesNotFound)
	}

	event, err := nextFutureEvent(series[0].Events, time.Now().UTC())
	if err != nil {
		return domain.Market{}, fmt.Errorf("polymarket.ActiveMarket: %q: %w", seriesSlug, err)
	}

	mu := fmt.Sprintf("%s%s?closed=false&slug=%s",
		c.gammaBase, gammaMarketsPath, url.QueryEscape(event.Slug))

	var markets []gammaMarket
	if err := c.get(ctx, c.gammaLimiter, mu, &markets); err != nil {
		return domain.Market{}, fmt.Errorf("polymarket.ActiveMarket: fetch markets for event %s: %w", event.ID, err)
	}
	if len(markets) == 0 {
		return domain.Market{}, fmt.Errorf("polymarket.ActiveMarket: event %s has no markets", event.ID)
	}

	// El primer mercado es el activo del evento.
	market, err := mapGammaMarket(markets[0])
	if err != nil {
		return domain.Market{}, err
	}

	slog.Debug("active market resolved",
		"series", seriesSlug,
		"event", event.Slug,
		"market", market.ID,
		"question", market.Question,
	)
	return market, nil
}

// nextFutureEvent filtra los eventos con endDate futuro y startDate
// presente, y devuelve el de resolución más próxima.
func nextFutureEvent(events []gammaEvent, now time.Time) (gammaEvent, error) {
	type dated struct {
		event gammaEvent
		end   time.Time
	}

	var future []dated
	for _, ev := range events {
		end := parseGammaTime(ev.EndDate)
		if end.IsZero() || !end.After(now) || ev.StartDate == "" {
			continue
		}
		future = append(future, dated{event: ev, end: end})
	}
	if len(future) == 0 {
		return gammaEvent{}, ErrNoFutureEvents
	}

	sort.Slice(future, func(i, j int) bool {
		return future[i].end.Before(future[j].end)
	})
	return future[0].event, nil
}
