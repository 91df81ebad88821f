package ports

import (
	"context"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

// OrderExecutor executes real market orders on the exchange. Order signing
// and submission mechanics live behind this boundary.
type OrderExecutor interface {
	// ExecuteMarketOrder submits a FOK market buy for dollarAmount USDC of
	// the given token and returns the reported fill. Fills may differ from
	// the requested size; callers must update positions from the fill, not
	// the request.
	ExecuteMarketOrder(ctx context.Context, market domain.Market, dollarAmount float64, tokenID string) (domain.Fill, error)

	// GetBalance returns the available USDC balance.
	GetBalance(ctx context.Context) (float64, error)
}
