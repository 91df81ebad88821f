package polymarket

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

const pricePath = "/price"

// BestPrice implementa ports.PriceProvider: mejor precio ejecutable de
// compra para el token dado. Un error aquí es transitorio desde el punto de
// vista del caller — el oracle decide si reintentar o descartar el ciclo.
func (c *Client) BestPrice(ctx context.Context, tokenID string, _ domain.Side) (float64, error) {
	u := fmt.Sprintf("%s%s?token_id=%s&side=BUY",
		c.clobBase, pricePath, url.QueryEscape(tokenID))

	var resp priceResponse
	if err := c.get(ctx, c.clobLimiter, u, &resp); err != nil {
		return 0, fmt.Errorf("polymarket.BestPrice: token %s: %w", tokenID, err)
	}

	price, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("polymarket.BestPrice: token %s: parse price %q: %w", tokenID, resp.Price, err)
	}
	return price, nil
}
