package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordAPICall(t *testing.T) {
	m := NewMetrics()

	m.RecordAPICall("create_ticket", "ok", 10*time.Millisecond)
	m.RecordAPICall("create_ticket", "ok", 12*time.Millisecond)
	m.RecordAPICall("create_ticket", "error", 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiCalls.WithLabelValues("create_ticket", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiCalls.WithLabelValues("create_ticket", "error")))
}

func TestMetrics_RecordRequestAndError(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/tickets/new", "POST", "VALIDATION_FAILED")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/tickets/new", "POST", "VALIDATION_FAILED")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "X")
		m.RecordAPICall("op", "ok", 0)
	})
	assert.Nil(t, m.Registry())
}
