package ports

import (
	"context"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

// PriceProvider obtiene el mejor precio ejecutable de un token del CLOB.
type PriceProvider interface {
	// BestPrice devuelve el mejor precio de compra para el token dado.
	// Puede fallar con errores transitorios de red; el oracle que lo
	// consume aplica los reintentos.
	BestPrice(ctx context.Context, tokenID string, side domain.Side) (float64, error)
}
