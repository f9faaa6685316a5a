package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CheckIn("ok")
	m.CheckIn("ok")
	m.CheckIn("geofence")
	m.RsvpChange("rsvp")
	m.Email("failed")
	m.CheckInDistance(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkIns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkIns.WithLabelValues("geofence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rsvps.WithLabelValues("rsvp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emails.WithLabelValues("failed")))
}

func TestEmailCounterExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Email("sent")
	m.Email("sent")

	expected := `
# HELP org_portal_emails_total Outbound emails by delivery status
# TYPE org_portal_emails_total counter
org_portal_emails_total{result="sent"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "org_portal_emails_total"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CheckIn("ok")
		m.CheckInDistance(1)
		m.RsvpChange("rsvp")
		m.Email("sent")
	})
}
