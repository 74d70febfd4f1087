package schema

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side describes order direction.
type Side uint16

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(s))
	}
}

// Order is a single inbound order as parsed by the gateway.
// It lives for one evaluation only.
type Order struct {
	ClOrdID string
	Symbol  string
	Side    Side
	Qty     decimal.Decimal
	Price   decimal.Decimal
}

// Notional returns price * qty in exact decimal arithmetic.
func (o Order) Notional() decimal.Decimal {
	return o.Price.Mul(o.Qty)
}

// ExecType mirrors the execution report ExecType values the core can produce.
type ExecType uint16

const (
	ExecTypeUnknown ExecType = iota
	ExecTypeNew
	ExecTypeRejected
)

// OrdStatus mirrors the execution report OrdStatus values the core can produce.
type OrdStatus uint16

const (
	OrdStatusUnknown OrdStatus = iota
	OrdStatusNew
	OrdStatusRejected
)

// RejectReason is a coarse reason code for a decision.
type RejectReason uint16

const (
	RejectReasonNone RejectReason = iota
	RejectReasonInvalidSymbol
	RejectReasonInvalidSide
	RejectReasonInvalidQuantity
	RejectReasonInvalidPrice
	RejectReasonExposureLimit
	RejectReasonInternal
)

func (r RejectReason) String() string {
	switch r {
	case RejectReasonNone:
		return "None"
	case RejectReasonInvalidSymbol:
		return "InvalidSymbol"
	case RejectReasonInvalidSide:
		return "InvalidSide"
	case RejectReasonInvalidQuantity:
		return "InvalidQuantity"
	case RejectReasonInvalidPrice:
		return "InvalidPrice"
	case RejectReasonExposureLimit:
		return "ExposureLimit"
	case RejectReasonInternal:
		return "Internal"
	default:
		return fmt.Sprintf("RejectReason(%d)", uint16(r))
	}
}

// RejectClass groups reject reasons into outcome classes.
type RejectClass uint16

const (
	RejectClassNone RejectClass = iota
	RejectClassValidation
	RejectClassLimit
	RejectClassInternal
)

// Class reports which outcome class the reason belongs to.
func (r RejectReason) Class() RejectClass {
	switch r {
	case RejectReasonNone:
		return RejectClassNone
	case RejectReasonInvalidSymbol, RejectReasonInvalidSide, RejectReasonInvalidQuantity, RejectReasonInvalidPrice:
		return RejectClassValidation
	case RejectReasonExposureLimit:
		return RejectClassLimit
	default:
		return RejectClassInternal
	}
}

// Decision is the result of evaluating one order. It carries everything the
// gateway needs to build the execution report.
type Decision struct {
	Accepted  bool
	Code      RejectReason
	ExecType  ExecType
	OrdStatus OrdStatus
	LeavesQty decimal.Decimal
	CumQty    decimal.Decimal
	AvgPx     decimal.Decimal
	// Symbol is the normalized, upper-case symbol.
	Symbol string
	// Exposure is the new exposure when accepted and the unchanged one when
	// rejected. It is zero for symbols without a ledger entry.
	Exposure decimal.Decimal
	Reason   string
}

// Accept builds an accepted decision for order.
func Accept(order Order, exposure decimal.Decimal, reason string) Decision {
	return Decision{
		Accepted:  true,
		Code:      RejectReasonNone,
		ExecType:  ExecTypeNew,
		OrdStatus: OrdStatusNew,
		LeavesQty: order.Qty,
		CumQty:    order.Qty,
		AvgPx:     order.Price,
		Symbol:    NormalizeSymbol(order.Symbol),
		Exposure:  exposure,
		Reason:    reason,
	}
}

// Reject builds a rejected decision for order.
func Reject(order Order, code RejectReason, exposure decimal.Decimal, reason string) Decision {
	return Decision{
		Accepted:  false,
		Code:      code,
		ExecType:  ExecTypeRejected,
		OrdStatus: OrdStatusRejected,
		LeavesQty: decimal.Zero,
		CumQty:    decimal.Zero,
		AvgPx:     decimal.Zero,
		Symbol:    NormalizeSymbol(order.Symbol),
		Exposure:  exposure,
		Reason:    reason,
	}
}
