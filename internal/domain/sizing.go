package domain

// sizing.go — the pure entry-sizing decision.
//
// CalculateTrade maps (position, quote, market schedule, clock, balance) to
// either a TradeDecision or nothing. Every rejection is a silent no-decision
// outcome, not an error — the caller simply does nothing that cycle. The
// function never sleeps: when the entry timing gate closes a window it
// returns a retry-after hint and lets the caller schedule the next cycle.

import "time"

// Default sizing thresholds. Cheap/mispricing/safety are configurable via
// ARBITRAGE_* env keys; the sizing bounds are fixed strategy constants.
const (
	DefaultCheapThreshold      = 0.49
	DefaultMispricingThreshold = 1.05
	DefaultSafetyMargin        = 0.99

	minInitialBalanceUSDC = 3.0  // floor for opening a new position
	balanceSizePct        = 0.05 // base size: 5% of balance...
	minOrderUSDC          = 1.0  // ...floored at $1
	maxOrderUSDC          = 10.0 // ...capped at $10
	balanceAdjustFactor   = 0.1  // pull towards leg parity

	entryWindow = 1 * time.Minute // first entry allowed this long after open
	closeGuard  = 2 * time.Minute // no first entry this close to resolution
)

// SizingParams are the tunable thresholds of the sizing engine.
type SizingParams struct {
	CheapThreshold      float64 // a side below this price is "cheap"
	MispricingThreshold float64 // yes+no above this signals aggregate mispricing
	SafetyMargin        float64 // max acceptable projected pair cost
}

// DefaultSizingParams returns the stock thresholds.
func DefaultSizingParams() SizingParams {
	return SizingParams{
		CheapThreshold:      DefaultCheapThreshold,
		MispricingThreshold: DefaultMispricingThreshold,
		SafetyMargin:        DefaultSafetyMargin,
	}
}

// TradeDecision is an order the engine decided to place. Produced only when
// a decision to trade is reached; absence means "no trade this cycle".
type TradeDecision struct {
	Side              Side
	Price             float64
	DollarAmount      float64
	TokenID           string
	ProjectedPairCost float64
}

// SizingInput is everything the decision function looks at.
type SizingInput struct {
	Position Position
	Quote    PriceQuote
	Market   Market
	Balance  float64 // available USDC
	Now      time.Time
	// SkipEntryGate bypasses the initial-trade timing gate. Used by
	// simulated evaluation paths that must not block on market schedule.
	SkipEntryGate bool
}

// CalculateTrade runs the decision algorithm and returns the trade to place,
// or nil. The second return is a retry-after hint: when the initial-entry
// gate is the only thing blocking, it says how long until the next window.
func CalculateTrade(in SizingInput, params SizingParams) (*TradeDecision, time.Duration) {
	// 1. Initial-trade timing gate. Only first entries are gated; an
	// existing position may keep topping up at any time.
	if in.Position.IsEmpty() && !in.SkipEntryGate {
		if ok, retryAfter := entryGateOpen(in.Market, in.Now); !ok {
			return nil, retryAfter
		}
	}

	// 2. Opportunity detection: a cheap side, or aggregate mispricing.
	side, ok := detectOpportunity(in.Quote, params)
	if !ok {
		return nil, 0
	}
	price := in.Quote.Price(side)

	// 3. Balance gate, initial trades only. Risk on an existing position is
	// already committed, so top-ups are exempt.
	if in.Position.IsEmpty() && in.Balance < minInitialBalanceUSDC {
		return nil, 0
	}

	// 4. Base size: 5% of balance, clamped to [$1, $10].
	size := clamp(in.Balance*balanceSizePct, minOrderUSDC, maxOrderUSDC)

	// 5. Balance adjustment: buy proportionally more of the under-hedged
	// side. A heavily lopsided position can push the size negative — that
	// is a rejection, not a sell.
	imbalance := in.Position.Amount(side.Opposite()) - in.Position.Amount(side)
	size *= 1 + balanceAdjustFactor*imbalance
	if size < minOrderUSDC {
		return nil, 0
	}

	// 6. Forward safety check, always fail-closed: simulate the fill and
	// reject any trade whose projected pair cost reaches the safety margin,
	// i.e. any trade that could make a guaranteed exit impossible.
	projected := projectedPairCost(in.Position, side, price, size)
	if projected >= params.SafetyMargin {
		return nil, 0
	}

	return &TradeDecision{
		Side:              side,
		Price:             price,
		DollarAmount:      size,
		TokenID:           in.Quote.TokenID(side),
		ProjectedPairCost: projected,
	}, 0
}

// entryGateOpen implements the two first-entry windows: within entryWindow
// after market open, or within entryWindow right before the closeGuard —
// the strategy only initiates hedges at open or just before resolution.
// Inside closeGuard of resolution, never. Mid-life the gate is shut and the
// retry-after hint targets the opening of the pre-close window. Markets
// with a malformed or missing schedule fail open (the gate is optional,
// the safety margin is not).
func entryGateOpen(m Market, now time.Time) (bool, time.Duration) {
	if !m.HasSchedule() {
		return true, 0
	}

	preClose := m.EndTime.Add(-closeGuard)
	switch {
	case now.Before(m.StartTime):
		return false, m.StartTime.Sub(now)
	case now.Sub(m.StartTime) <= entryWindow:
		return true, 0
	case !now.Before(preClose):
		// Inside the close guard: too late for a first entry.
		return false, 0
	case !now.Before(preClose.Add(-entryWindow)):
		// Pre-close window: last chance before the guard shuts the gate.
		return true, 0
	default:
		return false, preClose.Add(-entryWindow).Sub(now)
	}
}

// detectOpportunity picks the trade side. A side is cheap below
// CheapThreshold (YES preferred when both are). Failing that, prices
// summing above MispricingThreshold indicate market inefficiency and the
// strictly cheaper side is taken.
func detectOpportunity(q PriceQuote, params SizingParams) (Side, bool) {
	switch {
	case q.YesPrice < params.CheapThreshold:
		return SideYes, true
	case q.NoPrice < params.CheapThreshold:
		return SideNo, true
	}

	if q.YesPrice+q.NoPrice > params.MispricingThreshold {
		switch {
		case q.YesPrice < q.NoPrice:
			return SideYes, true
		case q.NoPrice < q.YesPrice:
			return SideNo, true
		}
	}
	return "", false
}

// projectedPairCost recomputes the pair cost as if the candidate trade had
// filled at the quoted price for the full dollar size.
func projectedPairCost(p Position, side Side, price, size float64) float64 {
	newAmount := p.Amount(side) + size
	var newCost float64
	if side == SideYes {
		newCost = p.CostYes + price*size
	} else {
		newCost = p.CostNo + price*size
	}

	newAvg := newCost / newAmount
	var otherAvg float64
	if side == SideYes {
		otherAvg = p.AvgNo()
	} else {
		otherAvg = p.AvgYes()
	}
	return newAvg + otherAvg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
