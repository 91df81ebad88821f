package ports

import (
	"context"

	"github.com/alejandrodnm/polyhedge/internal/domain"
)

// Ledger persists the performance log. The log is read fully, mutated in
// memory and written fully within one cycle — single-writer deployment is
// assumed and enforced operationally, not here.
type Ledger interface {
	// Load reads the current log, returning a fresh one if none exists yet.
	Load(ctx context.Context) (*domain.PerformanceLog, error)

	// Save atomically replaces the persisted log.
	Save(ctx context.Context, log *domain.PerformanceLog) error
}
