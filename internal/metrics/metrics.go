// Package metrics registers the Prometheus collectors for attendance and
// notification activity. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "org_portal"

type Metrics struct {
	checkIns      *prometheus.CounterVec
	checkInMeters prometheus.Histogram
	rsvps         *prometheus.CounterVec
	emails        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checkIns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkins_total",
				Help:      "Check-in attempts by result",
			},
			[]string{"result"},
		),
		checkInMeters: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "checkin_distance_meters",
				Help:      "Distance between reported and event coordinates on check-in",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 1000, 5000},
			},
		),
		rsvps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rsvp_changes_total",
				Help:      "Successful RSVP set mutations by action",
			},
			[]string{"action"},
		),
		emails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "emails_total",
				Help:      "Outbound emails by delivery status",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.checkIns, m.checkInMeters, m.rsvps, m.emails)
	return m
}

func (m *Metrics) CheckIn(result string) {
	if m == nil {
		return
	}
	m.checkIns.WithLabelValues(result).Inc()
}

func (m *Metrics) CheckInDistance(meters float64) {
	if m == nil {
		return
	}
	m.checkInMeters.Observe(meters)
}

func (m *Metrics) RsvpChange(action string) {
	if m == nil {
		return
	}
	m.rsvps.WithLabelValues(action).Inc()
}

func (m *Metrics) Email(result string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(result).Inc()
}
