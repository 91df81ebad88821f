package domain_test

import (
	"math/rand"
	"testing"

	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosition_ApplyFill(t *testing.T) {
	pos := domain.Position{}

	pos = pos.ApplyFill(domain.SideYes, domain.Fill{Shares: 25, Cost: 10})
	pos = pos.ApplyFill(domain.SideNo, domain.Fill{Shares: 20, Cost: 11})
	pos = pos.ApplyFill(domain.SideYes, domain.Fill{Shares: 5, Cost: 2})

	assert.Equal(t, 30.0, pos.AmountYes)
	assert.Equal(t, 20.0, pos.AmountNo)
	assert.InDelta(t, 12.0, pos.CostYes, 1e-9)
	assert.InDelta(t, 11.0, pos.CostNo, 1e-9)
	assert.InDelta(t, 23.0, pos.TotalCost(), 1e-9)
}

func TestPosition_PairCost(t *testing.T) {
	pos := domain.Position{AmountYes: 30, AmountNo: 25, CostYes: 12, CostNo: 10}

	// 12/30 + 10/25 = 0.4 + 0.4
	assert.InDelta(t, 0.8, pos.PairCost(), 1e-9)

	// Un lado vacío no contribuye al pair cost
	half := domain.Position{AmountYes: 10, CostYes: 4}
	assert.InDelta(t, 0.4, half.PairCost(), 1e-9)
}

func TestShouldExit_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		pos  domain.Position
		want bool
	}{
		{
			name: "lopsided position does not exit",
			pos:  domain.Position{AmountYes: 30, AmountNo: 5, CostYes: 12, CostNo: 2},
			want: false, // min(30,5)=5, cost=14
		},
		{
			name: "balanced cheap position exits",
			pos:  domain.Position{AmountYes: 30, AmountNo: 25, CostYes: 12, CostNo: 10},
			want: true, // min=25 > 22
		},
		{
			name: "empty position never exits",
			pos:  domain.Position{},
			want: false,
		},
		{
			name: "exact equality does not exit",
			pos:  domain.Position{AmountYes: 20, AmountNo: 20, CostYes: 10, CostNo: 10},
			want: false, // min=20 > 20 es falso
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ShouldExit(tt.pos))
		})
	}
}

// La condición de salida es exactamente min(qYes, qNo) > costYes+costNo
// para cualquier cuádrupla no negativa.
func TestShouldExit_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		pos := domain.Position{
			AmountYes: rng.Float64() * 100,
			AmountNo:  rng.Float64() * 100,
			CostYes:   rng.Float64() * 50,
			CostNo:    rng.Float64() * 50,
		}

		minAmount := pos.AmountYes
		if pos.AmountNo < minAmount {
			minAmount = pos.AmountNo
		}
		want := minAmount > pos.CostYes+pos.CostNo

		require.Equal(t, want, domain.ShouldExit(pos), "position %+v", pos)
	}
}
