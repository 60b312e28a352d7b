package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"route", "method"},
	)

	ProposalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proposals_generated_total",
			Help: "Total number of generated proposals by text source",
		},
		[]string{"source"},
	)
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "Proposal text generation duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		},
		[]string{"outcome"},
	)
	MatchScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "proposal_match_score",
			Help:    "Distribution of reported match scores",
			Buckets: []float64{60, 65, 70, 75, 80, 85, 90, 95, 98},
		},
	)
	SkillMatchHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "proposal_skill_match_percentage",
			Help:    "Distribution of required skill coverage",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			ProposalsTotal,
			AIRequestDuration,
			MatchScoreHistogram,
			SkillMatchHistogram,
		)
	})
}

// HTTPMiddleware records Prometheus metrics for each request.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}

		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ObserveProposal records the outcome of one generated proposal.
func ObserveProposal(source string, matchScore int, skillPercentage float64) {
	ProposalsTotal.WithLabelValues(source).Inc()
	MatchScoreHistogram.Observe(float64(matchScore))
	if skillPercentage >= 0 && skillPercentage <= 100 {
		SkillMatchHistogram.Observe(skillPercentage)
	}
}

// ObserveGeneration records how long the text generation call took.
func ObserveGeneration(outcome string, d time.Duration) {
	AIRequestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
