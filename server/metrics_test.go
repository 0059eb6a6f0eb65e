package server

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsConcurrent(t *testing.T) {
	m := NewMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordValidation("valid")
			m.RecordValidation("DivisionByZero")
			m.RecordRejected()
		}()
	}
	wg.Wait()
	snap := m.Snapshot()
	assert.Equal(t, int64(100), snap.Validations)
	assert.Equal(t, map[string]int64{"valid": 50, "DivisionByZero": 50}, snap.Outcomes)
	assert.Equal(t, int64(50), snap.Rejected)
}

func TestMetricsSnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.RecordValidation("valid")
	snap := m.Snapshot()
	snap.Outcomes["valid"] = 100
	assert.Equal(t, int64(1), m.Snapshot().Outcomes["valid"])
}

func TestMetricsLiveGaugeFloor(t *testing.T) {
	m := NewMetrics()
	m.RecordLiveClose()
	assert.Equal(t, int64(0), m.Snapshot().LiveConnections)
	m.RecordLiveOpen()
	m.RecordLiveOpen()
	m.RecordLiveClose()
	assert.Equal(t, int64(1), m.Snapshot().LiveConnections)
}
