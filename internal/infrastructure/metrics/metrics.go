package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// Book-keeping metrics
	TransactionsRecorded *prometheus.CounterVec
	TransactionAmount    *prometheus.HistogramVec
	BudgetsSaved         *prometheus.CounterVec
	Insights             *prometheus.CounterVec
	BackupsWritten       *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests         *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Auth and throttling
	LoginAttempts *prometheus.CounterVec
	RateLimitHits prometheus.Counter
	EventsDropped prometheus.Counter
}

// New registers all metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_transactions_recorded_total",
				Help: "Total number of transactions recorded",
			},
			[]string{"type"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "cashflow_transaction_amount_vnd",
				Help: "Recorded transaction amounts in VND",
				// 100k .. 100 tỷ
				Buckets: prometheus.ExponentialBuckets(100_000, 10, 7),
			},
			[]string{"type"},
		),
		BudgetsSaved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_budgets_saved_total",
				Help: "Total number of monthly budgets saved",
			},
			[]string{"status"},
		),
		Insights: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_insights_total",
				Help: "AI insight requests by outcome",
			},
			[]string{"outcome"},
		),
		BackupsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_backups_total",
				Help: "Scheduled backups by result",
			},
			[]string{"result"},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashflow_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cashflow_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashflow_login_attempts_total",
				Help: "Login attempts by result",
			},
			[]string{"result"},
		),
		RateLimitHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cashflow_rate_limit_hits_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
		EventsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cashflow_events_dropped_total",
				Help: "Domain events that could not be published",
			},
		),
	}
}

func (m *Metrics) RecordTransaction(txType string, amount int64) {
	m.TransactionsRecorded.WithLabelValues(txType).Inc()
	m.TransactionAmount.WithLabelValues(txType).Observe(float64(amount))
}

func (m *Metrics) RecordBudgetSaved(status string) {
	m.BudgetsSaved.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordInsight(outcome string) {
	m.Insights.WithLabelValues(outcome).Inc()
}

// RecordBackup counts a scheduled backup run.
func (m *Metrics) RecordBackup(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.BackupsWritten.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordLogin(ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}
