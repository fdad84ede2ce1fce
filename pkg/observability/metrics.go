package observability

import (
	"context"

	"github.com/aretw0/envguard/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the envguard collectors.
type Metrics struct {
	validations     *prometheus.CounterVec
	comparisons     *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	invalidKeys     *prometheus.CounterVec
	missingKeys     *prometheus.CounterVec
	differentValues *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envguard_validations_total",
				Help: "Total number of validations by schema and outcome",
			},
			[]string{"schema", "outcome"},
		),
		comparisons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envguard_comparisons_total",
				Help: "Total number of comparisons by schema and outcome",
			},
			[]string{"schema", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "envguard_operation_duration_seconds",
				Help:    "Duration of validate and compare calls",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"operation"},
		),
		invalidKeys: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envguard_invalid_keys_total",
				Help: "Keys reported invalid, by schema",
			},
			[]string{"schema"},
		),
		missingKeys: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envguard_missing_keys_total",
				Help: "Required keys reported missing, by schema",
			},
			[]string{"schema"},
		),
		differentValues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envguard_different_values_total",
				Help: "Keys whose values differed between compared environments, by schema",
			},
			[]string{"schema"},
		),
	}

	for _, c := range []prometheus.Collector{m.validations, m.comparisons, m.duration, m.invalidKeys, m.missingKeys, m.differentValues} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record every event.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnValidate: func(ctx context.Context, e *domain.ValidationEvent) {
			m.validations.WithLabelValues(e.Schema, string(e.Outcome)).Inc()
			m.duration.WithLabelValues("validate").Observe(e.Duration.Seconds())
			if e.Outcome == domain.OutcomeOK {
				m.invalidKeys.WithLabelValues(e.Schema).Add(float64(e.Invalid))
				m.missingKeys.WithLabelValues(e.Schema).Add(float64(e.Missing))
			}
		},
		OnCompare: func(ctx context.Context, e *domain.CompareEvent) {
			m.comparisons.WithLabelValues(e.Schema, string(e.Outcome)).Inc()
			m.duration.WithLabelValues("compare").Observe(e.Duration.Seconds())
			if e.Outcome == domain.OutcomeOK {
				m.differentValues.WithLabelValues(e.Schema).Add(float64(e.DifferentValues))
			}
		},
	}
}
