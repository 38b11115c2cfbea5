// Package metrics holds the engine's Prometheus collectors.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a set of engine collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	RoundsStarted *prometheus.CounterVec
	RoundSize     *prometheus.HistogramVec
	AnswersGraded *prometheus.CounterVec
	Placements    *prometheus.CounterVec
}

// New creates and registers the engine collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RoundsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adaptquiz_rounds_started_total",
				Help: "Placement and quiz rounds started",
			},
			[]string{"kind"},
		),
		RoundSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adaptquiz_round_questions",
				Help:    "Questions selected per round",
				Buckets: []float64{0, 1, 3, 5, 10, 20},
			},
			[]string{"kind"},
		),
		AnswersGraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adaptquiz_answers_graded_total",
				Help: "Answers graded, by question type and outcome",
			},
			[]string{"type", "correct"},
		),
		Placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adaptquiz_placements_completed_total",
				Help: "Placement rounds classified, by resulting level",
			},
			[]string{"level"},
		),
	}
	m.Registry.MustRegister(m.RoundsStarted, m.RoundSize, m.AnswersGraded, m.Placements)
	return m
}

// ObserveRound records a started round of n questions.
func (m *Metrics) ObserveRound(kind string, n int) {
	if m == nil {
		return
	}
	m.RoundsStarted.WithLabelValues(kind).Inc()
	m.RoundSize.WithLabelValues(kind).Observe(float64(n))
}

// ObserveAnswer records one graded answer.
func (m *Metrics) ObserveAnswer(questionType string, correct bool) {
	if m == nil {
		return
	}
	m.AnswersGraded.WithLabelValues(questionType, strconv.FormatBool(correct)).Inc()
}

// ObservePlacement records a completed placement.
func (m *Metrics) ObservePlacement(level string) {
	if m == nil {
		return
	}
	m.Placements.WithLabelValues(level).Inc()
}

// WriteTextfile writes the current values in the text exposition format,
// for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
