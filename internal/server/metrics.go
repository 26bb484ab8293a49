package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	buckets = []float64{.0001, .0005, .001, .005, .01, .05}
)

var _ prometheus.Collector = metrics{}

type metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	rejected  *prometheus.CounterVec
	dutyCycle *prometheus.GaugeVec
}

func newMetrics() *metrics {
	return &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledcontroller_api_requests_total",
				Help: "A counter for requests to the API.",
			},
			[]string{"code", "method"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledcontroller_api_request_duration_seconds",
				Help:    "A histogram of latencies for API requests.",
				Buckets: buckets,
			},
			[]string{"code", "method"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledcontroller_rejected_requests_total",
				Help: "Number of LED state requests that were not applied.",
			},
			[]string{"reason"},
		),
		dutyCycle: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ledcontroller_duty_cycle",
				Help: "Duty cycle last sent to the PWM controller.",
			},
			[]string{"colour"},
		),
	}
}

func (m metrics) Describe(ch chan<- *prometheus.Desc) {
	m.requests.Describe(ch)
	m.duration.Describe(ch)
	m.rejected.Describe(ch)
	m.dutyCycle.Describe(ch)
}

func (m metrics) Collect(ch chan<- prometheus.Metric) {
	m.requests.Collect(ch)
	m.duration.Collect(ch)
	m.rejected.Collect(ch)
	m.dutyCycle.Collect(ch)
}

func (m metrics) ServerMiddleware(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.requests,
		promhttp.InstrumentHandlerDuration(m.duration,
			next,
		),
	)
}
