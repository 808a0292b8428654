// Package metrics exposes Prometheus counters for content generation,
// narration and quiz activity
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultCached  = "cached"
)

// Metrics holds the application collectors. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	AdventuresGenerated *prometheus.CounterVec
	GenerationDuration  *prometheus.HistogramVec
	ImageFallbacks      prometheus.Counter
	Narrations          *prometheus.CounterVec
	QuizCompletions     prometheus.Counter
	QuizPoints          prometheus.Counter
}

// New registers the collectors with a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWith(reg, reg)
}

// NewWith registers the collectors with reg and serves them from g
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		AdventuresGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storygeo_adventures_generated_total",
				Help: "Total number of adventure generation attempts",
			},
			[]string{"result"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storygeo_generation_duration_seconds",
				Help:    "Time spent generating an adventure including its images",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"result"},
		),
		ImageFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "storygeo_image_fallbacks_total",
				Help: "Illustrations replaced by a placeholder image",
			},
		),
		Narrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storygeo_narrations_total",
				Help: "Total number of narration requests",
			},
			[]string{"result"},
		),
		QuizCompletions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "storygeo_quiz_completions_total",
				Help: "Total number of finished quizzes",
			},
		),
		QuizPoints: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "storygeo_quiz_points_total",
				Help: "Points awarded across all quizzes",
			},
		),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveGeneration records one adventure generation attempt
func (m *Metrics) ObserveGeneration(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AdventuresGenerated.WithLabelValues(result).Inc()
	m.GenerationDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// ImageFallback records a placeholder substitution
func (m *Metrics) ImageFallback() {
	if m == nil {
		return
	}
	m.ImageFallbacks.Inc()
}

// Narration records one narration request
func (m *Metrics) Narration(result string) {
	if m == nil {
		return
	}
	m.Narrations.WithLabelValues(result).Inc()
}

// QuizCompleted records a finished quiz and its score
func (m *Metrics) QuizCompleted(score int) {
	if m == nil {
		return
	}
	m.QuizCompletions.Inc()
	if score > 0 {
		m.QuizPoints.Add(float64(score))
	}
}
