package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/assocmanager/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login results
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

type Metrics struct {
	registry    *prometheus.Registry
	namespace   string
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	httpInfl    *prometheus.GaugeVec
	tenantsOpen prometheus.Gauge
	loginCnt    *prometheus.CounterVec
	provisions  *prometheus.CounterVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	// Register basic HTTP metrics
	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	tenantsOpen := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: "tenant_databases_open", Help: "Tenant database handles opened since start, besides the default one"})
	loginCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "logins_total"}, []string{"tier", "result"})
	provisions := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "association_provisions_total"}, []string{"result"})
	r.MustRegister(tenantsOpen, loginCnt, provisions)

	return &Metrics{
		registry:    r,
		namespace:   ns,
		httpReqCnt:  httpReqCnt,
		httpDur:     httpDur,
		httpInfl:    httpInfl,
		tenantsOpen: tenantsOpen,
		loginCnt:    loginCnt,
		provisions:  provisions,
	}
}

// SetTenantsOpen records the number of cached tenant handles
func (m *Metrics) SetTenantsOpen(n int) {
	if m == nil {
		return
	}
	m.tenantsOpen.Set(float64(n))
}

// Login counts a login attempt of tier ("tenant" or "platform")
func (m *Metrics) Login(tier, result string) {
	if m == nil {
		return
	}
	m.loginCnt.WithLabelValues(tier, result).Inc()
}

// Provision counts an association provisioning attempt
func (m *Metrics) Provision(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.provisions.WithLabelValues(result).Inc()
}

// Middleware counts and times requests by method, route and status.
// A nil Metrics passes requests through.
func (m *Metrics) Middleware() gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := httpStatus(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

// Handler serves the registry in the Prometheus text format.
// A nil Metrics answers 404.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func httpStatus(code int) string { return strconv.Itoa(code) }
