// Package metrics содержит Prometheus метрики сервиса дашборда.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики опроса бэкенда и HTTP API
// ============================================================
//
// Что отслеживаем:
// - латентность и ошибки каждого эндпоинта бэкенда
// - длительность и итог циклов обновления
// - пропущенные тики и присоединённые ручные обновления
// - ключевые цифры дашборда (для алертов в Grafana)

const namespace = "riskdash"

// Значения label "result"
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// Значения label "trigger"
const (
	TriggerTimer  = "timer"
	TriggerManual = "manual"
	TriggerStart  = "start"
)

// ============ Метрики бэкенда ============

// FetchLatency - время запроса к эндпоинту бэкенда
var FetchLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "fetch_latency_ms",
		Help:      "Backend endpoint request latency in milliseconds",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 15000},
	},
	[]string{"endpoint"},
)

// FetchTotal - количество запросов к бэкенду по результату
var FetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "fetch_total",
		Help:      "Total number of backend requests",
	},
	[]string{"endpoint", "result"}, // result: success, failed
)

// FetchFailures - ошибки запросов по виду
var FetchFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "fetch_failures_total",
		Help:      "Backend request failures by kind",
	},
	[]string{"endpoint", "kind"}, // kind: transport, envelope, decode
)

// BackendConnectivity - статус связи с бэкендом (1=connected, 0=disconnected)
var BackendConnectivity = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "backend",
		Name:      "connected",
		Help:      "Backend connectivity after the last cycle (1=connected, 0=disconnected)",
	},
)

// ============ Метрики циклов обновления ============

// CycleDuration - длительность цикла обновления
var CycleDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "cycle_duration_ms",
		Help:      "Refresh cycle duration in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000},
	},
)

// CyclesTotal - завершённые циклы по источнику и итоговому состоянию связи
var CyclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "cycles_total",
		Help:      "Completed refresh cycles",
	},
	[]string{"trigger", "connectivity"},
)

// CyclesSkipped - тики таймера, пришедшие во время активного цикла
var CyclesSkipped = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "ticks_skipped_total",
		Help:      "Timer ticks skipped because a cycle was in flight",
	},
)

// CyclesJoined - ручные обновления, присоединившиеся к активному циклу
var CyclesJoined = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "manual_joined_total",
		Help:      "Manual refresh requests that joined an in-flight cycle",
	},
)

// ManualThrottled - ручные обновления, отклонённые лимитером
var ManualThrottled = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "manual_throttled_total",
		Help:      "Manual refresh requests rejected by the rate limiter",
	},
)

// AutoRefreshEnabled - включено ли автообновление
var AutoRefreshEnabled = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "auto_enabled",
		Help:      "Auto-refresh state (1=enabled, 0=disabled)",
	},
)

// LastUpdate - unix-время последнего завершённого цикла
var LastUpdate = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "last_update_timestamp_seconds",
		Help:      "Unix time of the last completed refresh cycle",
	},
)

// ============ Метрики дашборда ============

// NetPnl - суммарный NOP PNL
var NetPnl = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "net_pnl",
		Help:      "Total net P&L across all symbols",
	},
)

// OpenPositions - количество открытых позиций
var OpenPositions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "open_positions",
		Help:      "Total number of open positions",
	},
)

// RiskClients - количество клиентов по уровням риска
var RiskClients = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "risk_clients",
		Help:      "Number of clients per risk level",
	},
	[]string{"level"},
)

// ============ Метрики HTTP API ============

// HTTPRequests - количество запросов к API
var HTTPRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served",
	},
	[]string{"method", "route", "status"},
)

// HTTPDuration - длительность обработки запросов
var HTTPDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 500, 1000, 15000},
	},
	[]string{"method", "route"},
)

// ============ Вспомогательные функции ============

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordFetch записывает результат запроса к эндпоинту.
// kind пустой для успешного запроса.
func RecordFetch(endpoint string, latency time.Duration, kind string) {
	FetchLatency.WithLabelValues(endpoint).Observe(millis(latency))
	if kind == "" {
		FetchTotal.WithLabelValues(endpoint, ResultSuccess).Inc()
		return
	}
	FetchTotal.WithLabelValues(endpoint, ResultFailed).Inc()
	FetchFailures.WithLabelValues(endpoint, kind).Inc()
}

// RecordCycle записывает завершённый цикл
func RecordCycle(trigger string, connected bool, elapsed time.Duration, finishedAt time.Time) {
	state := "disconnected"
	if connected {
		state = "connected"
		BackendConnectivity.Set(1)
	} else {
		BackendConnectivity.Set(0)
	}
	CyclesTotal.WithLabelValues(trigger, state).Inc()
	CycleDuration.Observe(millis(elapsed))
	LastUpdate.Set(float64(finishedAt.Unix()))
}

// RecordSkippedTick записывает тик, пропущенный из-за активного цикла
func RecordSkippedTick() {
	CyclesSkipped.Inc()
}

// RecordJoinedRefresh записывает ручное обновление, присоединившееся к циклу
func RecordJoinedRefresh() {
	CyclesJoined.Inc()
}

// RecordThrottled записывает отклонённое ручное обновление
func RecordThrottled() {
	ManualThrottled.Inc()
}

// SetAutoRefresh обновляет состояние автообновления
func SetAutoRefresh(enabled bool) {
	if enabled {
		AutoRefreshEnabled.Set(1)
	} else {
		AutoRefreshEnabled.Set(0)
	}
}

// UpdateDashboard обновляет ключевые цифры дашборда
func UpdateDashboard(netPnl float64, openPositions int, riskCounts map[string]int) {
	NetPnl.Set(netPnl)
	OpenPositions.Set(float64(openPositions))
	for level, count := range riskCounts {
		RiskClients.WithLabelValues(level).Set(float64(count))
	}
}

// RecordHTTPRequest записывает обработанный HTTP запрос
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(millis(elapsed))
}

// statusClass сворачивает код ответа в класс (2xx, 4xx, ...) для ограничения кардинальности
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
