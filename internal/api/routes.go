package api

import (
	"net/http"
	"net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"riskdash/internal/api/handlers"
	"riskdash/internal/api/middleware"
	"riskdash/internal/service"
	"riskdash/pkg/utils"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	DashboardService service.DashboardServiceInterface
	RefreshService   service.RefreshServiceInterface
	RetryAdvisor     handlers.RetryAdvisor

	Logger      *utils.Logger
	CORSOrigins []string

	// EnablePprof монтирует /debug/pprof за DebugAuth
	EnablePprof bool
	Debug       middleware.DebugAuthConfig
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── GET /dashboard - все панели
//	├── GET /snapshot - сырое состояние
//	├── GET /status - связь и автообновление
//	├── GET /kpis - KPI карточки
//	├── GET /nop - таблица NOP
//	├── GET /risk - Risk Monitor
//	├── GET /top-clients - winners/losers
//	├── GET /position-matrix - матрица позиций
//	├── GET /deposits - движение средств
//	├── POST /refresh - ручное обновление (429 при превышении лимита)
//	└── PUT /auto-refresh - {"enabled": bool}
//
// /metrics - Prometheus
// /health - liveness
// /debug/pprof/ - профилирование (опционально, за DebugAuth)
//
// Middleware применяется в следующем порядке:
// 1. Recovery
// 2. Logging (+ метрики HTTP)
// 3. CORS
func SetupRoutes(deps *Dependencies) *mux.Router {
	if deps == nil {
		deps = &Dependencies{}
	}

	router := mux.NewRouter()

	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.Logging(deps.Logger))
	router.Use(middleware.CORS(deps.CORSOrigins))

	var dashboardHandler *handlers.DashboardHandler
	if deps.DashboardService != nil {
		dashboardHandler = handlers.NewDashboardHandler(deps.DashboardService)
	}

	var refreshHandler *handlers.RefreshHandler
	if deps.RefreshService != nil && deps.DashboardService != nil {
		refreshHandler = handlers.NewRefreshHandler(deps.RefreshService, deps.DashboardService, deps.RetryAdvisor)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	if dashboardHandler != nil {
		api.HandleFunc("/dashboard", dashboardHandler.GetDashboard).Methods("GET")
		api.HandleFunc("/snapshot", dashboardHandler.GetSnapshot).Methods("GET")
		api.HandleFunc("/status", dashboardHandler.GetStatus).Methods("GET")
		api.HandleFunc("/kpis", dashboardHandler.GetKPIs).Methods("GET")
		api.HandleFunc("/nop", dashboardHandler.GetNOP).Methods("GET")
		api.HandleFunc("/risk", dashboardHandler.GetRisk).Methods("GET")
		api.HandleFunc("/top-clients", dashboardHandler.GetTopClients).Methods("GET")
		api.HandleFunc("/position-matrix", dashboardHandler.GetPositionMatrix).Methods("GET")
		api.HandleFunc("/deposits", dashboardHandler.GetDeposits).Methods("GET")
	}

	if refreshHandler != nil {
		api.HandleFunc("/refresh", refreshHandler.Refresh).Methods("POST", "OPTIONS")
		api.HandleFunc("/auto-refresh", refreshHandler.SetAutoRefresh).Methods("PUT", "OPTIONS")
	}

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	if deps.EnablePprof {
		debug := router.PathPrefix("/debug/pprof").Subrouter()
		debug.Use(middleware.DebugAuth(deps.Debug))
		debug.HandleFunc("/cmdline", pprof.Cmdline)
		debug.HandleFunc("/profile", pprof.Profile)
		debug.HandleFunc("/symbol", pprof.Symbol)
		debug.HandleFunc("/trace", pprof.Trace)
		debug.PathPrefix("/").HandlerFunc(pprof.Index)
	}

	return router
}
