package server

import (
	"runtime"
	"sync"
	"time"
)

// Metrics collects formulad operational metrics.
type Metrics struct {
	mu              sync.Mutex
	Validations     int64            `json:"validations"`
	Outcomes        map[string]int64 `json:"outcomes"`
	Rejected        int64            `json:"rejected"`
	LiveConnections int64            `json:"live_connections"`
	StartedAt       time.Time        `json:"-"`
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		Outcomes:  make(map[string]int64),
		StartedAt: time.Now(),
	}
}

// RecordValidation counts a validation by its outcome, either "valid" or an
// error kind.
func (m *Metrics) RecordValidation(outcome string) {
	m.mu.Lock()
	m.Validations++
	m.Outcomes[outcome]++
	m.mu.Unlock()
}

// RecordRejected counts a formula refused for its size.
func (m *Metrics) RecordRejected() {
	m.mu.Lock()
	m.Rejected++
	m.mu.Unlock()
}

// RecordLiveOpen increments the open live connection gauge.
func (m *Metrics) RecordLiveOpen() {
	m.mu.Lock()
	m.LiveConnections++
	m.mu.Unlock()
}

// RecordLiveClose decrements the open live connection gauge.
func (m *Metrics) RecordLiveClose() {
	m.mu.Lock()
	if m.LiveConnections > 0 {
		m.LiveConnections--
	}
	m.mu.Unlock()
}

// MetricsSnapshot is a point-in-time metrics report.
type MetricsSnapshot struct {
	Validations     int64            `json:"validations"`
	Outcomes        map[string]int64 `json:"outcomes"`
	Rejected        int64            `json:"rejected"`
	LiveConnections int64            `json:"live_connections"`
	UptimeSeconds   int              `json:"uptime_seconds"`
	Goroutines      int              `json:"goroutines"`
	HeapAllocMB     float64          `json:"heap_alloc_mb"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	outcomes := make(map[string]int64, len(m.Outcomes))
	for k, v := range m.Outcomes {
		outcomes[k] = v
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return MetricsSnapshot{
		Validations:     m.Validations,
		Outcomes:        outcomes,
		Rejected:        m.Rejected,
		LiveConnections: m.LiveConnections,
		UptimeSeconds:   int(time.Since(m.StartedAt).Seconds()),
		Goroutines:      runtime.NumGoroutine(),
		HeapAllocMB:     float64(memStats.HeapAlloc) / (1024 * 1024),
	}
}
