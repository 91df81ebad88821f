package polymarket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

// mapGammaMarket convierte un gammaMarket DTO a domain.Market.
// Falla con error tipado si los token ids no decodifican — mejor un decode
// error explícito que un panic por key inexistente aguas abajo.
func mapGammaMarket(gm gammaMarket) (domain.Market, error) {
	m := domain.Market{
		ID:       gm.ID,
		Question: gm.Question,
		Slug:     gm.Slug,
		Active:   gm.Active,
		Closed:   gm.Closed,
	}

	tokenIDs, err := decodeStringArray(gm.ClobTokenIDs)
	if err != nil || len(tokenIDs) != 2 {
		return m, fmt.Errorf("polymarket.mapGammaMarket: market %s: clobTokenIds %q: %w",
			gm.ID, gm.ClobTokenIDs, errBadTokenIDs(err))
	}
	m.YesTokenID = tokenIDs[0]
	m.NoTokenID = tokenIDs[1]

	// Los precios terminales son opcionales hasta que el mercado resuelve.
	if prices, err := decodeStringArray(gm.OutcomePrices); err == nil && len(prices) == 2 {
		m.YesOutcomePrice, _ = strconv.ParseFloat(prices[0], 64)
		m.NoOutcomePrice, _ = strconv.ParseFloat(prices[1], 64)
	}

	// eventStartTime es más preciso que startDate cuando existe.
	start := gm.EventStartTime
	if start == "" {
		start = gm.StartDate
	}
	m.StartTime = parseGammaTime(start)
	m.EndTime = parseGammaTime(gm.EndDate)

	return m, nil
}

func errBadTokenIDs(err error) error {
	if err == nil {
		return fmt.Errorf("expected exactly 2 token ids")
	}
	return err
}

// decodeStringArray decodifica los arrays que Gamma devuelve como string
// JSON-encoded, p.ej. `"[\"123\", \"456\"]"`.
func decodeStringArray(raw string) ([]string, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty array field")
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// parseGammaTime intenta los formatos de fecha que usa Polymarket.
// Devuelve zero time si ninguno encaja — el timing gate hace fail-open
// con timestamps malformados, así que no es un error.
func parseGammaTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
