package risk

import (
	"fmt"
	"strings"

	"orderaccumulator/internal/schema"

	"github.com/shopspring/decimal"
)

const priceDecimals = 2

var (
	// maxQuantity and maxPrice are exclusive upper bounds.
	maxQuantity = decimal.NewFromInt(100_000)
	maxPrice    = decimal.NewFromInt(1_000)
)

// ValidationResult is the outcome of the stateless order checks.
type ValidationResult struct {
	Code    schema.RejectReason
	Message string
}

// OK reports whether every check passed.
func (r ValidationResult) OK() bool {
	return r.Code == schema.RejectReasonNone
}

// Validator applies the stateless order checks. It never touches the ledger.
type Validator struct {
	symbols *schema.Registry
}

// NewValidator creates a validator over a static symbol allow-list.
func NewValidator(symbols *schema.Registry) *Validator {
	return &Validator{symbols: symbols}
}

// Validate runs symbol, side, quantity and price checks in that order and
// stops at the first failure.
func (v *Validator) Validate(order schema.Order) ValidationResult {
	if strings.TrimSpace(order.Symbol) == "" || !v.symbols.Contains(order.Symbol) {
		return invalid(schema.RejectReasonInvalidSymbol,
			"REJECTED: invalid symbol '%s'", order.Symbol)
	}

	if order.Side != schema.SideBuy && order.Side != schema.SideSell {
		return invalid(schema.RejectReasonInvalidSide,
			"REJECTED: invalid side '%s'", order.Side)
	}

	if !order.Qty.IsPositive() || !order.Qty.LessThan(maxQuantity) || !order.Qty.IsInteger() {
		return invalid(schema.RejectReasonInvalidQuantity,
			"REJECTED: invalid quantity '%s', must be an integer between 1 and 99,999", order.Qty)
	}

	// Round must be a no-op, a price is never silently rounded.
	if !order.Price.IsPositive() || !order.Price.LessThan(maxPrice) || !order.Price.Round(priceDecimals).Equal(order.Price) {
		return invalid(schema.RejectReasonInvalidPrice,
			"REJECTED: invalid price '%s', must be > 0, < 1000 and a multiple of 0.01", order.Price)
	}

	return ValidationResult{Code: schema.RejectReasonNone}
}

func invalid(code schema.RejectReason, format string, args ...any) ValidationResult {
	return ValidationResult{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
