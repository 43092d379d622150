package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDecision(t *testing.T) {
	m := NewWithRegisterer("club", prometheus.NewRegistry())

	m.RecordDecision("book_personal_session", OutcomeAccepted)
	m.RecordDecision("book_personal_session", OutcomeAccepted)
	m.RecordDecision("book_personal_session", OutcomeBusy)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("book_personal_session", OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("book_personal_session", OutcomeBusy)))
	assert.Zero(t, testutil.ToFloat64(m.LockTimeouts.WithLabelValues("book_personal_session")))
}

func TestRecordLockTimeout(t *testing.T) {
	m := NewWithRegisterer("club", prometheus.NewRegistry())

	m.RecordLockTimeout("register")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LockTimeouts.WithLabelValues("register")))
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewWithRegisterer("club", prometheus.NewRegistry())

	m.RecordHTTPRequest("POST", "/api/v1/personal-sessions", "201", 0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/personal-sessions", "201")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordDecision("register", OutcomeRejected)
		m.RecordHTTPRequest("GET", "/", "200", 0)
		m.RecordDBQuery("query", 0)
		m.RecordLockTimeout("register")
	})
}
