package handlers

import (
	"net/http"

	"riskdash/internal/service"
)

// DashboardHandler отдаёт представления дашборда.
//
// Endpoints:
// - GET /api/v1/dashboard - все панели из одного снимка
// - GET /api/v1/snapshot - сырое состояние
// - GET /api/v1/status - связь, время обновления, автообновление
// - GET /api/v1/kpis, /nop, /risk, /top-clients, /position-matrix, /deposits - отдельные панели
//
// Все ответы строятся из снимка в памяти; обращений к бэкенду нет.
// Пустые списки отдаются как [], а не null.
type DashboardHandler struct {
	dashboardService service.DashboardServiceInterface
}

// NewDashboardHandler создает новый DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// serve отвечает 500, если сервис не инициализирован, иначе 200 с build()
func (h *DashboardHandler) serve(w http.ResponseWriter, build func(service.DashboardServiceInterface) interface{}) {
	if h.dashboardService == nil {
		writeNotInitialized(w, "dashboard")
		return
	}
	writeJSON(w, http.StatusOK, build(h.dashboardService))
}

// GetDashboard возвращает полное представление.
//
// GET /api/v1/dashboard
//
// Response 200 OK:
//
//	{
//	  "header": {"badge": {"state": "connected", "label": "Live", ...}, "last_update": "14:05:09", "auto_refresh_label": "Live", ...},
//	  "kpis": [{"key": "net_pnl", "variant": "profit", ...}],
//	  "nop": {"rows": [...], "total_symbols": 2},
//	  "risk": {"available": true, "alerts": 1, "buckets": [...]},
//	  "deposits": {...},
//	  "top_clients": {"winners": [...], "losers": [...]},
//	  "matrix": {"symbols": [...], "rows": [...]}
//	}
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.View() })
}

// GetSnapshot возвращает сырое состояние.
//
// GET /api/v1/snapshot
func (h *DashboardHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.Snapshot() })
}

// GetStatus возвращает состояние обновления.
//
// GET /api/v1/status
//
// Response 200 OK:
//
//	{"connectivity": "connected", "loading": false, "auto_refresh": true, "last_update": "...", "cycles": 42}
func (h *DashboardHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.Status() })
}

// GetKPIs - GET /api/v1/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.KPIs() })
}

// GetNOP - GET /api/v1/nop
func (h *DashboardHandler) GetNOP(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.NOPTable() })
}

// GetRisk - GET /api/v1/risk
func (h *DashboardHandler) GetRisk(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.RiskOverview() })
}

// GetTopClients - GET /api/v1/top-clients
func (h *DashboardHandler) GetTopClients(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.TopClients() })
}

// GetPositionMatrix - GET /api/v1/position-matrix
func (h *DashboardHandler) GetPositionMatrix(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.PositionMatrix() })
}

// GetDeposits - GET /api/v1/deposits
func (h *DashboardHandler) GetDeposits(w http.ResponseWriter, r *http.Request) {
	h.serve(w, func(s service.DashboardServiceInterface) interface{} { return s.Deposits() })
}
