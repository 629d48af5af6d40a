package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors holds the Prometheus collectors of one service instance on a
// private registry.
type Collectors struct {
	Registry *prometheus.Registry

	generations  *prometheus.CounterVec
	genDuration  *prometheus.HistogramVec
	combinations prometheus.Counter
	logins       *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// NewCollectors creates and registers all collectors.
func NewCollectors() *Collectors {
	c := &Collectors{
		Registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "obyyo",
				Name:      "generations_total",
				Help:      "Generation requests by game and outcome.",
			},
			[]string{"game", "outcome"},
		),
		genDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "obyyo",
				Name:      "generation_duration_seconds",
				Help:      "Time spent producing combinations, including any simulated delay.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"game"},
		),
		combinations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "obyyo",
			Name:      "combinations_generated_total",
			Help:      "Combinations returned to callers.",
		}),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "obyyo",
				Name:      "logins_total",
				Help:      "Login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "obyyo",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "obyyo",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
			},
			[]string{"method", "route"},
		),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "obyyo",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}

	c.Registry.MustRegister(
		c.generations,
		c.genDuration,
		c.combinations,
		c.logins,
		c.httpRequests,
		c.httpDuration,
		c.httpInFlight,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return c
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})
}

// ObserveGeneration records one generation request.
func (c *Collectors) ObserveGeneration(game, outcome string, combos int, d time.Duration) {
	c.generations.WithLabelValues(game, outcome).Inc()
	if outcome == OutcomeOK {
		c.genDuration.WithLabelValues(game).Observe(d.Seconds())
		c.combinations.Add(float64(combos))
	}
}

// ObserveLogin records one login attempt.
func (c *Collectors) ObserveLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// InstrumentHandler records request counts and latency labelled by the
// matched chi route pattern rather than the raw path.
func (c *Collectors) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		c.httpInFlight.Inc()
		defer c.httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack passes through so websocket upgrades work behind the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// Flush passes through to the underlying writer when it supports flushing.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
