package domain_test

import (
	"testing"

	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSettleOutcome(t *testing.T) {
	assert.Equal(t, domain.SideYes, domain.SettleOutcome(0.7, 0.3, domain.TieBreakRandom))
	assert.Equal(t, domain.SideNo, domain.SettleOutcome(0.1, 0.9, domain.TieBreakRandom))
}

func TestSettleOutcome_TiePolicies(t *testing.T) {
	assert.Equal(t, domain.SideYes, domain.SettleOutcome(0.5, 0.5, domain.TieBreakYes))
	assert.Equal(t, domain.SideNo, domain.SettleOutcome(0.5, 0.5, domain.TieBreakNo))

	// random devuelve siempre uno de los dos lados
	for i := 0; i < 50; i++ {
		got := domain.SettleOutcome(0.5, 0.5, domain.TieBreakRandom)
		assert.Contains(t, []domain.Side{domain.SideYes, domain.SideNo}, got)
	}
}

func TestSettlePosition(t *testing.T) {
	pos := domain.Position{AmountYes: 25, AmountNo: 30, CostYes: 10, CostNo: 12}

	s := domain.SettlePosition(pos, 0.7, 0.3, domain.TieBreakRandom)

	assert.Equal(t, domain.SideYes, s.Outcome)
	assert.Equal(t, 1.0, s.PayoutPerShare)
	assert.InDelta(t, 25.0, s.TotalPayout, 1e-9)
	assert.InDelta(t, 22.0, s.TotalCost, 1e-9)
	assert.InDelta(t, 3.0, s.Profit, 1e-9)
}

func TestSettlePosition_LosingLegPaysNothing(t *testing.T) {
	pos := domain.Position{AmountYes: 25, AmountNo: 30, CostYes: 10, CostNo: 12}

	s := domain.SettlePosition(pos, 0.2, 0.8, domain.TieBreakRandom)

	// Solo las shares del outcome ganador pagan $1
	assert.Equal(t, domain.SideNo, s.Outcome)
	assert.InDelta(t, 30.0, s.TotalPayout, 1e-9)
	assert.InDelta(t, 8.0, s.Profit, 1e-9)
}
