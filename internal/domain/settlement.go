package domain

import "math/rand"

// TieBreak decides the winner when both terminal prices are equal. The
// source data genuinely allows this ambiguity, so the policy is explicit
// and configurable instead of silently random.
type TieBreak string

const (
	TieBreakRandom TieBreak = "random"
	TieBreakYes    TieBreak = "yes"
	TieBreakNo     TieBreak = "no"
)

// Settlement is the estimated terminal resolution of a position: the
// realized outcome, the $1-per-winning-share payout and the resulting P&L.
type Settlement struct {
	Outcome        Side
	PayoutPerShare float64
	TotalPayout    float64
	TotalCost      float64
	Profit         float64
}

// SettleOutcome infers the realized binary outcome from the market's
// terminal outcome prices (not the live order book): the side with the
// strictly higher final price wins. On an exact tie the configured policy
// applies.
func SettleOutcome(yesPrice, noPrice float64, tie TieBreak) Side {
	switch {
	case yesPrice > noPrice:
		return SideYes
	case noPrice > yesPrice:
		return SideNo
	}

	switch tie {
	case TieBreakYes:
		return SideYes
	case TieBreakNo:
		return SideNo
	default:
		if rand.Intn(2) == 0 {
			return SideYes
		}
		return SideNo
	}
}

// SettlePosition computes the settlement P&L for a position given the
// terminal outcome prices: $1 per winning share, $0 per losing share.
func SettlePosition(p Position, yesPrice, noPrice float64, tie TieBreak) Settlement {
	outcome := SettleOutcome(yesPrice, noPrice, tie)

	s := Settlement{
		Outcome:        outcome,
		PayoutPerShare: 1.0,
		TotalCost:      p.TotalCost(),
	}
	s.TotalPayout = p.Amount(outcome) * s.PayoutPerShare
	s.Profit = s.TotalPayout - s.TotalCost
	return s
}
