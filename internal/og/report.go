package og

import (
	"orderaccumulator/internal/schema"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/quickfix"
	"github.com/shopspring/decimal"
)

const (
	qtyScale int32 = 0
	pxScale  int32 = 2
)

// inbound is a parsed NewOrderSingle. The wire side is kept as received so
// the report echoes it even when the core rejects it.
type inbound struct {
	Order schema.Order
	Side  enum.Side
}

func parseNewOrderSingle(msg newordersingle.NewOrderSingle) (inbound, quickfix.MessageRejectError) {
	clOrdID, err := msg.GetClOrdID()
	if err != nil {
		return inbound{}, err
	}
	symbol, err := msg.GetSymbol()
	if err != nil {
		return inbound{}, err
	}
	side, err := msg.GetSide()
	if err != nil {
		return inbound{}, err
	}
	qty, err := msg.GetOrderQty()
	if err != nil {
		return inbound{}, err
	}

	// A missing price is evaluated as zero and rejected by the core.
	price := decimal.Zero
	if msg.HasPrice() {
		if price, err = msg.GetPrice(); err != nil {
			return inbound{}, err
		}
	}

	return inbound{
		Order: schema.Order{
			ClOrdID: clOrdID,
			Symbol:  symbol,
			Side:    toSchemaSide(side),
			Qty:     qty,
			Price:   price,
		},
		Side: side,
	}, nil
}

func buildExecutionReport(in inbound, d schema.Decision, newID func() string) executionreport.ExecutionReport {
	report := executionreport.New(
		field.NewOrderID(newID()),
		field.NewExecID(newID()),
		field.NewExecType(toExecType(d.ExecType)),
		field.NewOrdStatus(toOrdStatus(d.OrdStatus)),
		field.NewSide(in.Side),
		field.NewLeavesQty(d.LeavesQty, qtyScale),
		field.NewCumQty(d.CumQty, qtyScale),
		field.NewAvgPx(d.AvgPx, pxScale),
	)
	report.SetClOrdID(in.Order.ClOrdID)
	report.SetSymbol(in.Order.Symbol)
	report.SetText(d.Reason)
	if !d.Accepted {
		report.SetOrdRejReason(toOrdRejReason(d.Code))
	}
	return report
}

func toSchemaSide(side enum.Side) schema.Side {
	switch side {
	case enum.Side_BUY:
		return schema.SideBuy
	case enum.Side_SELL:
		return schema.SideSell
	default:
		return schema.SideUnknown
	}
}

func toExecType(t schema.ExecType) enum.ExecType {
	if t == schema.ExecTypeNew {
		return enum.ExecType_NEW
	}
	return enum.ExecType_REJECTED
}

func toOrdStatus(s schema.OrdStatus) enum.OrdStatus {
	if s == schema.OrdStatusNew {
		return enum.OrdStatus_NEW
	}
	return enum.OrdStatus_REJECTED
}

func toOrdRejReason(code schema.RejectReason) enum.OrdRejReason {
	switch code {
	case schema.RejectReasonInvalidSymbol:
		return enum.OrdRejReason_UNKNOWN_SYMBOL
	case schema.RejectReasonInvalidQuantity:
		return enum.OrdRejReason_INCORRECT_QUANTITY
	case schema.RejectReasonExposureLimit:
		return enum.OrdRejReason_ORDER_EXCEEDS_LIMIT
	default:
		return enum.OrdRejReason_OTHER
	}
}
