package og

import (
	"errors"
	"time"

	"orderaccumulator/internal/bus"
	"orderaccumulator/internal/obs"
	"orderaccumulator/internal/schema"
	"orderaccumulator/pkg/exception"

	"github.com/google/uuid"
	"github.com/quickfixgo/fix44/newordersingle"
	"github.com/quickfixgo/quickfix"
	"github.com/yanun0323/logs"
)

// Evaluator is the risk core as seen from the gateway.
type Evaluator interface {
	Evaluate(order schema.Order) schema.Decision
}

// Sender delivers an application message to a session.
type Sender func(m quickfix.Messagable, sessionID quickfix.SessionID) error

// GatewayConfig controls the gateway behavior. Zero values fall back to
// quickfix.SendToTarget and random UUID identifiers.
type GatewayConfig struct {
	Sender  Sender
	NewID   func() string
	Journal *bus.Queue
	Metrics *obs.Metrics
}

// Gateway is the FIX 4.4 application in front of the risk core. Every
// NewOrderSingle is evaluated synchronously and answered with one
// ExecutionReport on the same session.
type Gateway struct {
	*quickfix.MessageRouter
	cfg       GatewayConfig
	evaluator Evaluator
}

var _ quickfix.Application = (*Gateway)(nil)

// NewGateway creates a gateway around evaluator.
func NewGateway(evaluator Evaluator, cfg GatewayConfig) (*Gateway, error) {
	if evaluator == nil {
		return nil, exception.ErrOrderNilEvaluator
	}
	if cfg.Sender == nil {
		cfg.Sender = quickfix.SendToTarget
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	g := &Gateway{
		MessageRouter: quickfix.NewMessageRouter(),
		cfg:           cfg,
		evaluator:     evaluator,
	}
	g.AddRoute(newordersingle.Route(g.OnNewOrderSingle))
	return g, nil
}

func (g *Gateway) OnCreate(quickfix.SessionID) {}

func (g *Gateway) OnLogon(sessionID quickfix.SessionID) {
	logs.Infof("og: logon %s", sessionID)
}

func (g *Gateway) OnLogout(sessionID quickfix.SessionID) {
	logs.Infof("og: logout %s", sessionID)
}

func (g *Gateway) ToAdmin(*quickfix.Message, quickfix.SessionID) {}

func (g *Gateway) ToApp(*quickfix.Message, quickfix.SessionID) error {
	return nil
}

func (g *Gateway) FromAdmin(*quickfix.Message, quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func (g *Gateway) FromApp(msg *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return g.Route(msg, sessionID)
}

// OnNewOrderSingle evaluates the order and answers with an execution report.
// Business rejections are reported in the execution report; only malformed
// messages produce a session-level reject.
func (g *Gateway) OnNewOrderSingle(msg newordersingle.NewOrderSingle, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	start := time.Now()

	in, rej := parseNewOrderSingle(msg)
	if rej != nil {
		return rej
	}

	decision := g.evaluator.Evaluate(in.Order)
	report := buildExecutionReport(in, decision, g.cfg.NewID)
	if err := g.cfg.Sender(report, sessionID); err != nil {
		logs.Errorf("og: send execution report failed, session: %s, clOrdID: %s, err: %+v",
			sessionID, in.Order.ClOrdID, err)
	}

	g.cfg.Metrics.ObserveOrderFlow(time.Since(start))
	g.publish(sessionID, in.Order, decision, start)
	return nil
}

func (g *Gateway) publish(sessionID quickfix.SessionID, order schema.Order, decision schema.Decision, recv time.Time) {
	if g.cfg.Journal == nil {
		return
	}
	err := g.cfg.Journal.TryPublish(bus.Event{
		Session:  sessionID.String(),
		Order:    order,
		Decision: decision,
		TsRecv:   recv.UTC().UnixNano(),
	})
	switch {
	case err == nil:
	case errors.Is(err, bus.ErrQueueFull):
		g.cfg.Metrics.IncJournalDrop()
	case errors.Is(err, bus.ErrQueueClosed):
		g.cfg.Metrics.IncJournalClosed()
	}
}

// LogDecision writes one journal event to the log: accepted orders at info,
// business rejections at warn and internal failures at error.
func LogDecision(e bus.Event) {
	d := e.Decision
	switch {
	case d.Accepted:
		logs.Infof("%s, session: %s, clOrdID: %s", d.Reason, e.Session, e.Order.ClOrdID)
	case d.Code.Class() == schema.RejectClassInternal:
		logs.Errorf("%s, session: %s, clOrdID: %s", d.Reason, e.Session, e.Order.ClOrdID)
	default:
		logs.Warnf("%s, code: %s, session: %s, clOrdID: %s", d.Reason, d.Code, e.Session, e.Order.ClOrdID)
	}
}
