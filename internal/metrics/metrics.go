// Package metrics объявляет Prometheus-метрики кошелька.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics набор коллекторов. Нулевой указатель допустим: методы ничего не делают.
type Metrics struct {
	LedgerOperations *prometheus.CounterVec
	TopupsResolved   *prometheus.CounterVec
	Purchases        *prometheus.CounterVec
	AuditFailures    prometheus.Counter
	HTTPDuration     *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LedgerOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_ledger_operations_total",
			Help: "Balance operations by kind and result.",
		}, []string{"op", "result"}),
		TopupsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_topups_resolved_total",
			Help: "Resolved topup requests by decision.",
		}, []string{"decision"}),
		Purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_purchases_total",
			Help: "Subscription purchase attempts by result.",
		}, []string{"result"}),
		AuditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wallet_audit_failures_total",
			Help: "Activity log writes that failed.",
		}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(m.LedgerOperations, m.TopupsResolved, m.Purchases, m.AuditFailures, m.HTTPDuration)
	return m
}

// Result переводит ошибку в метку результата.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// LedgerOp учитывает операцию с балансом.
func (m *Metrics) LedgerOp(op string, err error) {
	if m == nil {
		return
	}
	m.LedgerOperations.WithLabelValues(op, Result(err)).Inc()
}

// TopupResolved учитывает решение по заявке.
func (m *Metrics) TopupResolved(decision string) {
	if m == nil {
		return
	}
	m.TopupsResolved.WithLabelValues(decision).Inc()
}

// Purchase учитывает попытку покупки; result — метка исхода.
func (m *Metrics) Purchase(result string) {
	if m == nil {
		return
	}
	m.Purchases.WithLabelValues(result).Inc()
}

// AuditFailed учитывает несохранённую запись журнала.
func (m *Metrics) AuditFailed() {
	if m == nil {
		return
	}
	m.AuditFailures.Inc()
}

// ObserveHTTP записывает длительность запроса.
func (m *Metrics) ObserveHTTP(method, route, code string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, code).Observe(seconds)
}
