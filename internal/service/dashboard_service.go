package service

import (
	"riskdash/internal/dashboard"
	"riskdash/internal/models"
)

// DashboardService строит представления дашборда из текущего снимка.
//
// Функции:
// - Snapshot / Status: сырое состояние
// - View: полное представление (все панели из одного снимка)
// - KPIs, NOPTable, RiskOverview, TopClients, PositionMatrix, Deposits: отдельные панели
//
// Каждый вызов читает снимок один раз, поэтому панели внутри одного ответа согласованы.
type DashboardService struct {
	source SnapshotSource
}

// NewDashboardService создаёт сервис представлений
func NewDashboardService(source SnapshotSource) *DashboardService {
	return &DashboardService{source: source}
}

// Snapshot возвращает копию состояния
func (s *DashboardService) Snapshot() models.Snapshot {
	return s.source.Snapshot()
}

// Status возвращает состояние обновления
func (s *DashboardService) Status() models.Status {
	snap := s.source.Snapshot()
	return snap.Status()
}

// View возвращает полное представление
func (s *DashboardService) View() dashboard.View {
	snap := s.source.Snapshot()
	return dashboard.Build(&snap)
}

// KPIs возвращает KPI карточки
func (s *DashboardService) KPIs() []dashboard.KPICard {
	snap := s.source.Snapshot()
	return dashboard.BuildKPICards(dashboard.KPIInputFromSnapshot(&snap))
}

// NOPTable возвращает таблицу NOP
func (s *DashboardService) NOPTable() dashboard.NOPTable {
	snap := s.source.Snapshot()
	return dashboard.BuildNOPTable(snap.NOPSymbols, snap.NOPTotals)
}

// RiskOverview возвращает панель риска
func (s *DashboardService) RiskOverview() dashboard.RiskOverview {
	snap := s.source.Snapshot()
	return dashboard.BuildRiskOverview(snap.RiskSummary, snap.RiskClients)
}

// TopClients возвращает winners/losers
func (s *DashboardService) TopClients() dashboard.TopClients {
	snap := s.source.Snapshot()
	return dashboard.BuildTopClients(snap.Clients)
}

// PositionMatrix возвращает матрицу позиций
func (s *DashboardService) PositionMatrix() dashboard.MatrixView {
	snap := s.source.Snapshot()
	return dashboard.BuildPositionMatrix(snap.MatrixClients, snap.MatrixSymbols)
}

// Deposits возвращает панель движения средств
func (s *DashboardService) Deposits() dashboard.DepositPanel {
	snap := s.source.Snapshot()
	return dashboard.BuildDepositPanel(snap.Deposits)
}
