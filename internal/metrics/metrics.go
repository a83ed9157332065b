package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_http_requests_total",
		Help: "HTTP-запросы по маршруту и статусу.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auth_http_request_duration_seconds",
		Help:    "Длительность обработки HTTP-запроса.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthEvents: исход операций входа/регистрации/сброса: op, result (ok|fail).
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_flow_events_total",
		Help: "Операции авторизации по исходу.",
	}, []string{"op", "result"})

	Emails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_emails_total",
		Help: "Письма: queued, dropped, sent, failed.",
	}, []string{"kind", "status"})

	UnverifiedSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_unverified_users_swept_total",
		Help: "Удалено неподтверждённых пользователей с истёкшим кодом.",
	})
)

func AuthOK(op string)   { AuthEvents.WithLabelValues(op, "ok").Inc() }
func AuthFail(op string) { AuthEvents.WithLabelValues(op, "fail").Inc() }
