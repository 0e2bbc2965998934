package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"riskdash/internal/models"
	"riskdash/internal/service"
)

// maxBodyBytes - ограничение тела PUT /auto-refresh
const maxBodyBytes = 1 << 10

// RetryAdvisor подсказывает, когда повторить отклонённое обновление (реализация: ratelimit.Limiter)
type RetryAdvisor interface {
	RetryAfter() time.Duration
}

// RefreshHandler управляет обновлением данных.
//
// Endpoints:
// - POST /api/v1/refresh - ручное обновление (присоединяется к активному циклу)
// - PUT /api/v1/auto-refresh - включить/выключить автообновление
type RefreshHandler struct {
	refreshService   service.RefreshServiceInterface
	dashboardService service.DashboardServiceInterface
	retry            RetryAdvisor
}

// NewRefreshHandler создает новый RefreshHandler. retry может быть nil.
func NewRefreshHandler(refreshService service.RefreshServiceInterface, dashboardService service.DashboardServiceInterface, retry RetryAdvisor) *RefreshHandler {
	return &RefreshHandler{
		refreshService:   refreshService,
		dashboardService: dashboardService,
		retry:            retry,
	}
}

// RefreshResponse - итог ручного обновления
type RefreshResponse struct {
	Cycle  service.CycleSummary `json:"cycle"`
	Status models.Status        `json:"status"`
}

// AutoRefreshRequest - тело PUT /api/v1/auto-refresh
type AutoRefreshRequest struct {
	Enabled *bool `json:"enabled"`
}

// Refresh выполняет цикл обновления и возвращает его итог.
//
// POST /api/v1/refresh
//
// Response 200 OK:
//
//	{
//	  "cycle": {"cycle": 12, "trigger": "manual", "connectivity": "connected",
//	            "succeeded": 4, "failed": 1, "failed_endpoints": ["risk_monitor"], ...},
//	  "status": {"connectivity": "connected", "loading": false, ...}
//	}
//
// Неуспешные эндпоинты не делают ответ ошибкой: их видно в failed_endpoints.
//
// Response 429 Too Many Requests (+ Retry-After):
//
//	{"error": "manual refresh rate limit exceeded", "code": "THROTTLED"}
//
// Response 503 Service Unavailable: сервис остановлен
// Response 504 Gateway Timeout: клиент перестал ждать
func (h *RefreshHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refreshService == nil || h.dashboardService == nil {
		writeNotInitialized(w, "refresh")
		return
	}

	result, err := h.refreshService.Refresh(r.Context())
	if err != nil {
		h.writeRefreshError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RefreshResponse{
		Cycle:  result.Summary(),
		Status: h.dashboardService.Status(),
	})
}

func (h *RefreshHandler) writeRefreshError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRefreshThrottled):
		w.Header().Set("Retry-After", h.retryAfterSeconds())
		writeError(w, http.StatusTooManyRequests, CodeThrottled, err.Error(), "")
	case errors.Is(err, service.ErrRefresherStopped):
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, err.Error(), "")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusGatewayTimeout, CodeTimeout, "refresh did not finish in time", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, CodeInternal, "refresh failed", err.Error())
	}
}

// retryAfterSeconds округляет вверх; минимум 1 секунда
func (h *RefreshHandler) retryAfterSeconds() string {
	secs := 1
	if h.retry != nil {
		if d := h.retry.RetryAfter(); d > 0 {
			secs = int(math.Ceil(d.Seconds()))
		}
	}
	return strconv.Itoa(secs)
}

// SetAutoRefresh включает или выключает автообновление.
//
// PUT /api/v1/auto-refresh
//
// Request body:
//
//	{"enabled": false}
//
// Response 200 OK: статус после изменения
//
//	{"connectivity": "connected", "loading": false, "auto_refresh": false, ...}
//
// Response 400 Bad Request: тело не JSON или нет поля enabled
func (h *RefreshHandler) SetAutoRefresh(w http.ResponseWriter, r *http.Request) {
	if h.refreshService == nil {
		writeNotInitialized(w, "refresh")
		return
	}

	var req AutoRefreshRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidBody, "invalid request body", err.Error())
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, CodeInvalidBody, "field 'enabled' is required", "")
		return
	}

	status := h.refreshService.SetAutoRefresh(*req.Enabled)
	writeJSON(w, http.StatusOK, status)
}
