package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests *prometheus.CounterVec
	upserts  prometheus.Counter
	insights *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shule_http_requests_total",
			Help: "HTTP requests by method, route & status code.",
		}, []string{"method", "route", "code"}),
		upserts: factory.NewCounter(prometheus.CounterOpts{
			Name: "shule_result_upserts_total",
			Help: "Exam results recorded.",
		}),
		insights: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shule_insight_requests_total",
			Help: "Insight requests by kind (student, class, school) & outcome (ok, demo, failed).",
		}, []string{"kind", "outcome"}),
	}
}

func (m *metrics) observeInsight(kind, outcome string) {
	m.insights.WithLabelValues(kind, outcome).Inc()
}

func (m *metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		err := next(ctx)
		code := ctx.Response().Status
		if err != nil {
			code = statusOf(err)
		}
		m.requests.WithLabelValues(ctx.Request().Method, ctx.Path(), strconv.Itoa(code)).Inc()
		return err
	}
}
