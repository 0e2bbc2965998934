package service

import (
	"context"
	"time"

	"riskdash/internal/dashboard"
	"riskdash/internal/models"
)

// DataSource определяет интерфейс клиента бэкенда (реализация: backend.Client).
// Каждый вызов - один независимый запрос; ошибки не повторяются.
type DataSource interface {
	FetchNOPSummary(ctx context.Context) (*models.NOPSummary, error)
	FetchDepositSummary(ctx context.Context) (*models.DepositSummary, error)
	FetchClientMonitor(ctx context.Context, limit int) ([]models.ClientPnL, error)
	FetchRiskMonitor(ctx context.Context, days, minTrades int) (*models.RiskMonitor, error)
	FetchPositionMatrix(ctx context.Context) (*models.PositionMatrix, error)
}

// RefreshLimiter ограничивает частоту ручных обновлений (реализация: ratelimit.Limiter)
type RefreshLimiter interface {
	Allow() bool
}

// SnapshotSource отдаёт текущий снимок состояния дашборда
type SnapshotSource interface {
	Snapshot() models.Snapshot
}

// DashboardServiceInterface определяет интерфейс для DashboardService
type DashboardServiceInterface interface {
	Snapshot() models.Snapshot
	Status() models.Status
	View() dashboard.View
	KPIs() []dashboard.KPICard
	NOPTable() dashboard.NOPTable
	RiskOverview() dashboard.RiskOverview
	TopClients() dashboard.TopClients
	PositionMatrix() dashboard.MatrixView
	Deposits() dashboard.DepositPanel
}

// RefreshServiceInterface определяет интерфейс для RefreshService
type RefreshServiceInterface interface {
	Refresh(ctx context.Context) (*CycleResult, error)
	SetAutoRefresh(enabled bool) models.Status
	Interval() time.Duration
	Running() bool
}

// Проверка реализации интерфейсов на этапе компиляции
var (
	_ DashboardServiceInterface = (*DashboardService)(nil)
	_ RefreshServiceInterface   = (*RefreshService)(nil)
	_ SnapshotSource            = (*DashboardState)(nil)
)
