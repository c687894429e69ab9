package observability

import (
	"context"
	"fmt"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "concierge"

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	ProviderCalls    *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	Bookings         prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of processed turns by source and target step",
			},
			[]string{"from", "to"},
		),
		ProviderCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_calls_total",
				Help:      "Travel provider calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		ProviderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_duration_seconds",
				Help:      "Duration of travel provider calls",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 5, 10},
			},
			[]string{"op"},
		),
		Bookings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Confirmed flight bookings",
		}),
	}

	for _, c := range []prometheus.Collector{m.Transitions, m.ProviderCalls, m.ProviderDuration, m.Bookings} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
			if e.To == domain.StepBooked && e.From == domain.StepSelecting {
				m.Bookings.Inc()
			}
		},
		OnProviderReturn: func(_ context.Context, e *domain.ProviderEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.ProviderCalls.WithLabelValues(e.Op, outcome).Inc()
			m.ProviderDuration.WithLabelValues(e.Op).Observe(e.Duration.Seconds())
		},
	}
}
