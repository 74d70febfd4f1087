package obs

import (
	"fmt"
	"sync/atomic"
	"time"

	"orderaccumulator/internal/schema"
)

const maxRejectReason = int(schema.RejectReasonInternal)

// Metrics collects lightweight decision counters and latency stats.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	accepted           uint64
	rejected           uint64
	rejectReasonCounts [maxRejectReason + 1]uint64
	journalDrops       uint64
	journalClosed      uint64

	evalLatency      LatencyStats
	orderFlowLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Accepted           uint64
	Rejected           uint64
	RejectReasonCounts map[schema.RejectReason]uint64
	JournalDrops       uint64
	JournalClosed      uint64
	EvalLatency        LatencySnapshot
	OrderFlowLatency   LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveDecision counts one decision and records how long the core took.
func (m *Metrics) ObserveDecision(code schema.RejectReason, d time.Duration) {
	if m == nil {
		return
	}
	if code == schema.RejectReasonNone {
		atomic.AddUint64(&m.accepted, 1)
	} else {
		atomic.AddUint64(&m.rejected, 1)
		idx := int(code)
		if idx >= 0 && idx < len(m.rejectReasonCounts) {
			atomic.AddUint64(&m.rejectReasonCounts[idx], 1)
		}
	}
	m.evalLatency.Observe(d)
}

// IncJournalDrop records a decision dropped because the journal was full.
func (m *Metrics) IncJournalDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.journalDrops, 1)
}

// IncJournalClosed records a publish attempt on a closed journal.
func (m *Metrics) IncJournalClosed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.journalClosed, 1)
}

// ObserveOrderFlow measures gateway latency from message receipt to report sent.
func (m *Metrics) ObserveOrderFlow(d time.Duration) {
	if m == nil {
		return
	}
	m.orderFlowLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	reasons := make(map[schema.RejectReason]uint64)
	for i := range m.rejectReasonCounts {
		if v := atomic.LoadUint64(&m.rejectReasonCounts[i]); v > 0 {
			reasons[schema.RejectReason(i)] = v
		}
	}
	return Snapshot{
		Accepted:           atomic.LoadUint64(&m.accepted),
		Rejected:           atomic.LoadUint64(&m.rejected),
		RejectReasonCounts: reasons,
		JournalDrops:       atomic.LoadUint64(&m.journalDrops),
		JournalClosed:      atomic.LoadUint64(&m.journalClosed),
		EvalLatency:        m.evalLatency.Snapshot(),
		OrderFlowLatency:   m.orderFlowLatency.Snapshot(),
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"accepted=%d rejected=%d reasons=%v journal_drops=%d eval_avg=%s eval_max=%s flow_avg=%s flow_max=%s",
		s.Accepted, s.Rejected, s.RejectReasonCounts, s.JournalDrops,
		s.EvalLatency.Avg, s.EvalLatency.Max, s.OrderFlowLatency.Avg, s.OrderFlowLatency.Max,
	)
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		cur := atomic.LoadUint64(&l.min)
		if cur != 0 && nanos >= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, cur, nanos) {
			break
		}
	}

	for {
		cur := atomic.LoadUint64(&l.max)
		if nanos <= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, cur, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(atomic.LoadUint64(&l.sum) / count),
	}
}
