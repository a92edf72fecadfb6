// Package metrics collects and exposes Prometheus metrics for the
// authorization flow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is the interface the flow engine records against.
type Collector interface {
	RecordLogin(success bool)
	RecordAuthorizeOutcome(outcome string)
	RecordCodeIssued()
	RecordTokenIssued()
	RecordTokenFailure(reason string)
}

// PromCollector implements Collector on top of a Prometheus registry.
type PromCollector struct {
	registry      *prometheus.Registry
	loginTotal    *prometheus.CounterVec
	authorizeOut  *prometheus.CounterVec
	codesIssued   prometheus.Counter
	tokensIssued  prometheus.Counter
	tokenFailures *prometheus.CounterVec
}

var _ Collector = (*PromCollector)(nil)

// NewCollector creates a collector with its own registry and registers
// all flow metrics on it.
func NewCollector() *PromCollector {
	c := &PromCollector{
		registry: prometheus.NewRegistry(),
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authserver_login_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		authorizeOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authserver_authorize_outcome_total",
			Help: "Authorize requests by outcome",
		}, []string{"outcome"}),
		codesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authserver_codes_issued_total",
			Help: "Authorization codes issued",
		}),
		tokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "authserver_tokens_issued_total",
			Help: "Access tokens issued",
		}),
		tokenFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authserver_token_failures_total",
			Help: "Token exchanges rejected, by reason",
		}, []string{"reason"}),
	}

	c.registry.MustRegister(
		c.loginTotal,
		c.authorizeOut,
		c.codesIssued,
		c.tokensIssued,
		c.tokenFailures,
	)

	return c
}

func (c *PromCollector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.loginTotal.WithLabelValues(result).Inc()
}

func (c *PromCollector) RecordAuthorizeOutcome(outcome string) {
	c.authorizeOut.WithLabelValues(outcome).Inc()
}

func (c *PromCollector) RecordCodeIssued() {
	c.codesIssued.Inc()
}

func (c *PromCollector) RecordTokenIssued() {
	c.tokensIssued.Inc()
}

func (c *PromCollector) RecordTokenFailure(reason string) {
	c.tokenFailures.WithLabelValues(reason).Inc()
}

// Handler exposes the registry for the /metrics endpoint.
func (c *PromCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Noop discards all metrics. Handy default for tests.
type Noop struct{}

var _ Collector = Noop{}

func (Noop) RecordLogin(bool)              {}
func (Noop) RecordAuthorizeOutcome(string) {}
func (Noop) RecordCodeIssued()             {}
func (Noop) RecordTokenIssued()            {}
func (Noop) RecordTokenFailure(string)     {}
