package obs

import (
	"sync/atomic"
	"time"

	"main/internal/risk"
)

const maxRiskReason = int(risk.ReasonTradeLoss)

// Metrics collects lightweight counters and latency stats for the trading
// loop. All methods are nil-safe so call sites never guard.
type Metrics struct {
	fetchErrors      uint64
	signals          uint64
	submissions      uint64
	submissionErrors uint64
	journalDrops     uint64

	rejectionCounts [maxRiskReason + 1]uint64

	cycleLatency  LatencyStats
	submitLatency LatencyStats
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
	FetchErrors      uint64
	Signals          uint64
	Submissions      uint64
	SubmissionErrors uint64
	JournalDrops     uint64
	RejectionCounts  map[risk.Reason]uint64
	CycleLatency     LatencySnapshot
	SubmitLatency    LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncFetchError records a failed market data fetch.
func (m *Metrics) IncFetchError() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.fetchErrors, 1)
}

// IncSignal records a strategy signal.
func (m *Metrics) IncSignal() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.signals, 1)
}

// IncSubmission records an accepted order submission.
func (m *Metrics) IncSubmission() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.submissions, 1)
}

// IncSubmissionError records a submission the venue refused.
func (m *Metrics) IncSubmissionError() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.submissionErrors, 1)
}

// IncRejection increments the counter for a risk rejection reason.
func (m *Metrics) IncRejection(reason risk.Reason) {
	if m == nil {
		return
	}
	idx := int(reason)
	if idx >= 0 && idx < len(m.rejectionCounts) {
		atomic.AddUint64(&m.rejectionCounts[idx], 1)
	}
}

// IncJournalDrop records a journal entry lost to a full queue.
func (m *Metrics) IncJournalDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.journalDrops, 1)
}

// ObserveCycle measures one full decision cycle.
func (m *Metrics) ObserveCycle(d time.Duration) {
	if m == nil {
		return
	}
	m.cycleLatency.Observe(d)
}

// ObserveSubmit measures one order submission round trip.
func (m *Metrics) ObserveSubmit(d time.Duration) {
	if m == nil {
		return
	}
	m.submitLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}

	rejections := make(map[risk.Reason]uint64)
	for i := range m.rejectionCounts {
		if v := atomic.LoadUint64(&m.rejectionCounts[i]); v > 0 {
			rejections[risk.Reason(i)] = v
		}
	}

	return Snapshot{
		FetchErrors:      atomic.LoadUint64(&m.fetchErrors),
		Signals:          atomic.LoadUint64(&m.signals),
		Submissions:      atomic.LoadUint64(&m.submissions),
		SubmissionErrors: atomic.LoadUint64(&m.submissionErrors),
		JournalDrops:     atomic.LoadUint64(&m.journalDrops),
		RejectionCounts:  rejections,
		CycleLatency:     m.cycleLatency.Snapshot(),
		SubmitLatency:    m.submitLatency.Snapshot(),
	}
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
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
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
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
