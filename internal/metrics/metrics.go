// Package metrics exposes Prometheus instruments for game activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the game instruments. A nil *Recorder records nothing.
type Recorder struct {
	registry  *prometheus.Registry
	turns     *prometheus.CounterVec
	fetches   *prometheus.CounterVec
	tools     *prometheus.CounterVec
	points    prometheus.Counter
	fetchTime prometheus.Histogram
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardquiz",
			Name:      "turns_total",
			Help:      "Turns committed, by outcome.",
		}, []string{"outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardquiz",
			Name:      "question_fetches_total",
			Help:      "Question provider calls, by result.",
		}, []string{"result"}),
		tools: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boardquiz",
			Name:      "tools_consumed_total",
			Help:      "Power tools consumed, by tool.",
		}, []string{"tool"}),
		points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boardquiz",
			Name:      "points_awarded_total",
			Help:      "Points awarded to acting teams.",
		}),
		fetchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "boardquiz",
			Name:      "question_fetch_seconds",
			Help:      "Question provider latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
	reg.MustRegister(r.turns, r.fetches, r.tools, r.points, r.fetchTime)
	return r
}

// Outcome labels.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeTimeout   = "timeout"
	OutcomeSkipped   = "skipped"
)

// Fetch result labels.
const (
	FetchOK     = "ok"
	FetchFailed = "failed"
	FetchStale  = "stale"
)

func (r *Recorder) TurnCommitted(outcome string, points int) {
	if r == nil {
		return
	}
	r.turns.WithLabelValues(outcome).Inc()
	if points > 0 {
		r.points.Add(float64(points))
	}
}

func (r *Recorder) ToolConsumed(tool string) {
	if r == nil {
		return
	}
	r.tools.WithLabelValues(tool).Inc()
}

func (r *Recorder) QuestionFetched(result string, seconds float64) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(result).Inc()
	r.fetchTime.Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the registry for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}
