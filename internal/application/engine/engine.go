package engine

// engine.go — per-cycle control loop of the hedger.
//
// One RunOnce call performs exactly one state transition attempt for the
// series' active market: CLOSED no-op, settlement, or at most one trade.
// Every rejection degrades to a no-op result instead of an error so the
// outer polling loop is the availability mechanism.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/polyhedge/internal/domain"
	"github.com/alejandrodnm/polyhedge/internal/ports"
)

// Action identifies what a cycle did.
type Action string

const (
	ActionClosed     Action = "closed"      // market already settled, terminal no-op
	ActionSettled    Action = "settled"     // exit condition fired, position closed
	ActionSkipPrices Action = "skip_prices" // quote unavailable this cycle
	ActionNoDecision Action = "no_decision" // sizing produced no trade
	ActionTraded     Action = "traded"      // one leg bought
)

// Config are the engine knobs. Sizing thresholds come from configuration,
// the rest of the sizing bounds are fixed in the domain.
type Config struct {
	SeriesSlug    string
	DryRun        bool
	SkipEntryGate bool
	PaperBalance  float64 // balance assumed when no executor is wired
	Sizing        domain.SizingParams
	TieBreak      domain.TieBreak
}

// CycleResult summarizes one RunOnce invocation.
type CycleResult struct {
	Action   Action
	Market   domain.Market
	Decision *domain.TradeDecision

	// RetryAfter hints when the next attempt can succeed (timing gate).
	// Zero means poll at the normal cadence.
	RetryAfter time.Duration
}

// Engine drives one market lifecycle per cycle.
type Engine struct {
	cfg      Config
	markets  ports.MarketProvider
	oracle   *Oracle
	executor ports.OrderExecutor
	ledger   ports.Ledger
	history  ports.TradeHistorian
	log      *slog.Logger
	now      func() time.Time
}

// New wires the engine. executor may be nil in dry-run mode; history may be
// nil when no mirror database is configured.
func New(cfg Config, markets ports.MarketProvider, oracle *Oracle, executor ports.OrderExecutor, ledger ports.Ledger, history ports.TradeHistorian, log *slog.Logger) (*Engine, error) {
	if markets == nil || oracle == nil || ledger == nil {
		return nil, errors.New("engine.New: markets, oracle and ledger are required")
	}
	if !cfg.DryRun && executor == nil {
		return nil, errors.New("engine.New: live mode requires an order executor")
	}
	if cfg.PaperBalance <= 0 {
		cfg.PaperBalance = 100
	}
	return &Engine{
		cfg:      cfg,
		markets:  markets,
		oracle:   oracle,
		executor: executor,
		ledger:   ledger,
		history:  history,
		log:      log,
		now:      time.Now,
	}, nil
}

// RunOnce executes one cycle: resolve the active market, then either no-op
// on a closed market, settle an exited position, or attempt one trade.
func (e *Engine) RunOnce(ctx context.Context) (*CycleResult, error) {
	market, err := e.markets.ActiveMarket(ctx, e.cfg.SeriesSlug)
	if err != nil {
		return nil, fmt.Errorf("engine.RunOnce: resolve market: %w", err)
	}

	plog, err := e.ledger.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine.RunOnce: load ledger: %w", err)
	}

	if plog.IsClosed(market.ID) {
		e.log.Debug("market already closed", "market", market.ID)
		return &CycleResult{Action: ActionClosed, Market: market}, nil
	}

	pos := plog.PositionFor(market.ID)

	if domain.ShouldExit(pos) {
		return e.settle(ctx, plog, market, pos)
	}

	return e.trade(ctx, plog, market, pos)
}

// settle closes an exited position. The closed copy plus the zeroed open
// copy are written in one save; a crash before the save replays the same
// exit next cycle, a crash after it no-ops via the closed-check.
func (e *Engine) settle(ctx context.Context, plog *domain.PerformanceLog, market domain.Market, pos domain.Position) (*CycleResult, error) {
	settlement := domain.SettlePosition(pos, market.YesOutcomePrice, market.NoOutcomePrice, e.cfg.TieBreak)

	rec, ok := plog.RecordSettlement(e.now(), market, settlement)
	if !ok {
		return &CycleResult{Action: ActionClosed, Market: market}, nil
	}

	e.log.Info("position settled",
		"market", market.ID,
		"outcome", settlement.Outcome,
		"payout", settlement.TotalPayout,
		"cost", settlement.TotalCost,
		"profit", settlement.Profit)

	e.persist(ctx, plog)
	e.mirror(ctx, rec)

	return &CycleResult{Action: ActionSettled, Market: market}, nil
}

// trade samples prices, sizes a candidate order and executes it.
func (e *Engine) trade(ctx context.Context, plog *domain.PerformanceLog, market domain.Market, pos domain.Position) (*CycleResult, error) {
	quote, err := e.oracle.Quote(ctx, market)
	if err != nil {
		e.log.Warn("quote unavailable, skipping cycle", "market", market.ID, "err", err)
		return &CycleResult{Action: ActionSkipPrices, Market: market}, nil
	}

	balance, err := e.balance(ctx)
	if err != nil {
		e.log.Warn("balance unavailable, skipping cycle", "market", market.ID, "err", err)
		return &CycleResult{Action: ActionSkipPrices, Market: market}, nil
	}

	decision, retryAfter := domain.CalculateTrade(domain.SizingInput{
		Position:      pos,
		Quote:         quote,
		Market:        market,
		Balance:       balance,
		Now:           e.now(),
		SkipEntryGate: e.cfg.SkipEntryGate || e.cfg.DryRun,
	}, e.cfg.Sizing)
	if decision == nil {
		e.log.Debug("no trade this cycle",
			"market", market.ID,
			"yes", quote.YesPrice, "no", quote.NoPrice,
			"retry_after", retryAfter)
		return &CycleResult{Action: ActionNoDecision, Market: market, RetryAfter: retryAfter}, nil
	}

	fill, err := e.execute(ctx, market, decision)
	if err != nil {
		// Order failures are transient from the loop's point of view.
		e.log.Error("order execution failed", "market", market.ID, "err", err)
		return &CycleResult{Action: ActionNoDecision, Market: market}, nil
	}

	rec := plog.RecordFill(e.now(), market, decision.Side, decision.Price, fill)
	pos = plog.PositionFor(market.ID)

	e.log.Info("trade executed",
		"market", market.ID,
		"side", decision.Side,
		"dollars", decision.DollarAmount,
		"shares", fill.Shares,
		"cost", fill.Cost,
		"pair_cost", pos.PairCost(),
		"dry_run", e.cfg.DryRun)

	e.persist(ctx, plog)
	e.mirror(ctx, rec)

	return &CycleResult{Action: ActionTraded, Market: market, Decision: decision}, nil
}

// execute fills the decision: simulated full fill in dry-run, reported fill
// from the exchange in live mode.
func (e *Engine) execute(ctx context.Context, market domain.Market, d *domain.TradeDecision) (domain.Fill, error) {
	if e.cfg.DryRun {
		return domain.Fill{
			Shares: d.DollarAmount / d.Price,
			Cost:   d.DollarAmount,
		}, nil
	}
	return e.executor.ExecuteMarketOrder(ctx, market, d.DollarAmount, d.TokenID)
}

// balance devuelve el balance real o el simulado según el modo.
func (e *Engine) balance(ctx context.Context) (float64, error) {
	if e.executor == nil {
		return e.cfg.PaperBalance, nil
	}
	return e.executor.GetBalance(ctx)
}

// persist saves the log. A write failure is logged and not retried within
// the cycle; the next cycle re-derives the lost transition.
func (e *Engine) persist(ctx context.Context, plog *domain.PerformanceLog) {
	if err := e.ledger.Save(ctx, plog); err != nil {
		e.log.Error("ledger persist failed", "err", err)
	}
}

// mirror copies a record to the history database, best effort.
func (e *Engine) mirror(ctx context.Context, rec domain.TradeRecord) {
	if e.history == nil {
		return
	}
	if err := e.history.RecordTrade(ctx, rec); err != nil {
		e.log.Warn("history mirror failed", "record", rec.ID, "err", err)
	}
}
