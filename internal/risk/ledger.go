package risk

import (
	"sort"
	"sync"
	"time"

	"orderaccumulator/internal/schema"
	"orderaccumulator/pkg/exception"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

// Ledger keeps the signed net notional exposure per symbol.
//
// One slot is allocated per allow-listed symbol at construction and the slot
// map is never written again, so lookups need no lock. Each slot has its own
// mutex held across read, compute, limit check and commit: updates to one
// symbol are serialized while different symbols proceed in parallel.
type Ledger struct {
	limit   decimal.Decimal
	symbols []string
	slots   map[string]*slot
}

type slot struct {
	mu       sync.Mutex
	exposure decimal.Decimal
	// touched is set on the first accepted order.
	touched bool
}

// ExposureEntry is a single symbol exposure.
type ExposureEntry struct {
	Symbol   string
	Exposure decimal.Decimal
}

// Snapshot captures ledger exposures at a point in time.
type Snapshot struct {
	Timestamp int64
	Entries   []ExposureEntry
}

// NewLedger creates a ledger for the registry symbols with an absolute
// exposure limit.
func NewLedger(symbols *schema.Registry, limit decimal.Decimal) (*Ledger, error) {
	if symbols == nil {
		return nil, errors.Wrapf(exception.ErrNilInstance, "ledger: nil registry")
	}
	if !limit.IsPositive() {
		return nil, errors.Wrapf(exception.ErrInvalidExposureLimit, "limit: %s", limit)
	}
	names := symbols.Symbols()
	slots := make(map[string]*slot, len(names))
	for _, name := range names {
		slots[name] = &slot{}
	}
	return &Ledger{
		limit:   limit,
		symbols: names,
		slots:   slots,
	}, nil
}

// Limit returns the absolute exposure limit.
func (l *Ledger) Limit() decimal.Decimal {
	return l.limit
}

// EvaluateExposure applies orderValue to symbol when the resulting absolute
// exposure stays within the limit. A tentative exposure equal to the limit is
// accepted.
//
// The returned exposure is the committed one when accepted and the current,
// untouched one when rejected. An error means an invariant was violated; the
// ledger is left unchanged in that case too.
func (l *Ledger) EvaluateExposure(symbol string, orderValue decimal.Decimal, side schema.Side) (bool, decimal.Decimal, error) {
	s, ok := l.slots[schema.NormalizeSymbol(symbol)]
	if !ok {
		return false, decimal.Zero, errors.Wrapf(exception.ErrLedgerUnknownSymbol, "symbol: %s", symbol)
	}
	if orderValue.IsNegative() {
		return false, decimal.Zero, errors.Wrapf(exception.ErrLedgerNegativeNotional, "symbol: %s, value: %s", symbol, orderValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.exposure
	tentative, ok := applySide(current, side, orderValue)
	if !ok {
		return false, current, errors.Wrapf(exception.ErrLedgerUnknownSide, "symbol: %s, side: %s", symbol, side)
	}

	if tentative.Abs().GreaterThan(l.limit) {
		return false, current, nil
	}

	s.exposure = tentative
	s.touched = true
	return true, tentative, nil
}

// Exposure returns the current exposure of symbol for diagnostics. The bool
// is false when no order for symbol has been accepted yet.
func (l *Ledger) Exposure(symbol string) (decimal.Decimal, bool) {
	s, ok := l.slots[schema.NormalizeSymbol(symbol)]
	if !ok {
		return decimal.Zero, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exposure, s.touched
}

// Snapshot returns every symbol that has an entry, sorted by symbol.
func (l *Ledger) Snapshot() Snapshot {
	entries := lo.FilterMap(l.symbols, func(name string, _ int) (ExposureEntry, bool) {
		exposure, ok := l.Exposure(name)
		return ExposureEntry{Symbol: name, Exposure: exposure}, ok
	})
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Symbol < entries[j].Symbol
	})
	return Snapshot{
		Timestamp: time.Now().UTC().UnixNano(),
		Entries:   entries,
	}
}

func applySide(current decimal.Decimal, side schema.Side, value decimal.Decimal) (decimal.Decimal, bool) {
	switch side {
	case schema.SideBuy:
		return current.Add(value), true
	case schema.SideSell:
		return current.Sub(value), true
	default:
		return current, false
	}
}
