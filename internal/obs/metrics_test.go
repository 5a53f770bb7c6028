package obs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"main/internal/risk"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncFetchError()
	m.IncSignal()
	m.IncSignal()
	m.IncSubmission()
	m.IncRejection(risk.ReasonDailyLoss)
	m.IncRejection(risk.ReasonDailyLoss)
	m.IncRejection(risk.ReasonPositionLimit)
	m.IncJournalDrop()

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.FetchErrors)
	assert.Equal(t, uint64(2), snap.Signals)
	assert.Equal(t, uint64(1), snap.Submissions)
	assert.Equal(t, uint64(1), snap.JournalDrops)
	assert.Equal(t, uint64(2), snap.RejectionCounts[risk.ReasonDailyLoss])
	assert.Equal(t, uint64(1), snap.RejectionCounts[risk.ReasonPositionLimit])
}

func TestLatencyStats(t *testing.T) {
	var l LatencyStats
	l.Observe(10 * time.Millisecond)
	l.Observe(30 * time.Millisecond)
	l.Observe(20 * time.Millisecond)

	snap := l.Snapshot()
	assert.Equal(t, uint64(3), snap.Count)
	assert.Equal(t, 10*time.Millisecond, snap.Min)
	assert.Equal(t, 30*time.Millisecond, snap.Max)
	assert.Equal(t, 20*time.Millisecond, snap.Avg)
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics
	m.IncFetchError()
	m.IncRejection(risk.ReasonTradeLoss)
	m.ObserveCycle(time.Second)
	assert.Zero(t, m.Snapshot().FetchErrors)
}
