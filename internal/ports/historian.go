package ports

import (
	"context"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

// TradeHistorian mirrors trade records into queryable storage for
// reporting. Best effort: the JSON performance log stays authoritative and
// a mirror failure never aborts a cycle.
type TradeHistorian interface {
	RecordTrade(ctx context.Context, rec domain.TradeRecord) error

	// Stats aggregates the mirrored history.
	Stats(ctx context.Context) (domain.HistoryStats, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
