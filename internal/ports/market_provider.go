package ports

import (
	"context"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

// MarketProvider localiza el mercado binario activo de una serie.
type MarketProvider interface {
	// ActiveMarket devuelve el mercado del evento futuro más próximo de la
	// serie. Falla si la serie no existe o no tiene eventos futuros.
	ActiveMarket(ctx context.Context, seriesSlug string) (domain.Market, error)
}
