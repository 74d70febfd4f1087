package risk

import (
	"fmt"
	"time"

	"orderaccumulator/internal/obs"
	"orderaccumulator/internal/schema"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"
)

// DefaultExposureLimit is the absolute net notional allowed per symbol.
var DefaultExposureLimit = decimal.NewFromInt(100_000_000)

// DefaultSymbols is the allow-list used when none is configured.
var DefaultSymbols = []string{"PETR4", "VALE3", "VIIA4"}

// Config defines the static risk limits. It is fixed for the engine lifetime.
type Config struct {
	Symbols       []string
	ExposureLimit decimal.Decimal
}

// DefaultConfig returns the stock allow-list and limit.
func DefaultConfig() Config {
	symbols := make([]string, len(DefaultSymbols))
	copy(symbols, DefaultSymbols)
	return Config{
		Symbols:       symbols,
		ExposureLimit: DefaultExposureLimit,
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithMetrics records every decision in m.
func WithMetrics(m *obs.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine evaluates orders: validation first, then the exposure ledger.
// It is safe for concurrent use.
type Engine struct {
	validator *Validator
	ledger    *Ledger
	metrics   *obs.Metrics
}

// NewEngine creates a risk engine with static limits.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	registry, err := schema.NewRegistry(cfg.Symbols...)
	if err != nil {
		return nil, err
	}
	ledger, err := NewLedger(registry, cfg.ExposureLimit)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		validator: NewValidator(registry),
		ledger:    ledger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// EvaluateOrder decides whether to accept an order.
func (e *Engine) EvaluateOrder(symbol string, qty, price decimal.Decimal, side schema.Side) schema.Decision {
	return e.Evaluate(schema.Order{
		Symbol: symbol,
		Side:   side,
		Qty:    qty,
		Price:  price,
	})
}

// Evaluate decides whether to accept order. Rejections are returned as
// decisions, never as errors, and never change the ledger.
func (e *Engine) Evaluate(order schema.Order) schema.Decision {
	start := time.Now()
	decision := e.evaluate(order)
	e.metrics.ObserveDecision(decision.Code, time.Since(start))
	return decision
}

func (e *Engine) evaluate(order schema.Order) schema.Decision {
	symbol := schema.NormalizeSymbol(order.Symbol)
	if res := e.validator.Validate(order); !res.OK() {
		// Unchanged exposure; zero for unknown or untouched symbols.
		exposure, _ := e.ledger.Exposure(symbol)
		return schema.Reject(order, res.Code, exposure, res.Message)
	}

	accepted, exposure, err := e.ledger.EvaluateExposure(symbol, order.Notional(), order.Side)
	if err != nil {
		logs.Errorf("risk: evaluate order failed, symbol: %s, clOrdID: %s, err: %+v", symbol, order.ClOrdID, err)
		return schema.Reject(order, schema.RejectReasonInternal, decimal.Zero,
			fmt.Sprintf("REJECTED: internal error evaluating %s", symbol))
	}

	// The limit check uses the tentative exposure while the message reports
	// the exposure before this order.
	if !accepted {
		return schema.Reject(order, schema.RejectReasonExposureLimit, exposure,
			fmt.Sprintf("REJECTED: %s exposure = %s", symbol, exposure.StringFixed(priceDecimals)))
	}

	return schema.Accept(order, exposure,
		fmt.Sprintf("ACCEPTED: %s new exposure = %s", symbol, exposure.StringFixed(priceDecimals)))
}

// Exposure returns the current exposure of symbol for diagnostics.
func (e *Engine) Exposure(symbol string) (decimal.Decimal, bool) {
	return e.ledger.Exposure(symbol)
}

// Snapshot returns the current ledger entries for diagnostics.
func (e *Engine) Snapshot() Snapshot {
	return e.ledger.Snapshot()
}

// Limit returns the configured absolute exposure limit.
func (e *Engine) Limit() decimal.Decimal {
	return e.ledger.Limit()
}
