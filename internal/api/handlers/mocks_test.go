package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"riskdash/internal/dashboard"
	"riskdash/internal/models"
	"riskdash/internal/service"
)

var ErrMockBackend = errors.New("mock backend error")

// ============ Mock Dashboard Service ============

// MockDashboardService строит панели из заданного снимка настоящими функциями dashboard
type MockDashboardService struct {
	mu   sync.RWMutex
	snap models.Snapshot
}

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{snap: sampleSnapshot()}
}

func (m *MockDashboardService) SetSnapshot(snap models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
}

func (m *MockDashboardService) Snapshot() models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

func (m *MockDashboardService) Status() models.Status {
	snap := m.Snapshot()
	return snap.Status()
}

func (m *MockDashboardService) View() dashboard.View {
	snap := m.Snapshot()
	return dashboard.Build(&snap)
}

func (m *MockDashboardService) KPIs() []dashboard.KPICard {
	snap := m.Snapshot()
	return dashboard.BuildKPICards(dashboard.KPIInputFromSnapshot(&snap))
}

func (m *MockDashboardService) NOPTable() dashboard.NOPTable {
	snap := m.Snapshot()
	return dashboard.BuildNOPTable(snap.NOPSymbols, snap.NOPTotals)
}

func (m *MockDashboardService) RiskOverview() dashboard.RiskOverview {
	snap := m.Snapshot()
	return dashboard.BuildRiskOverview(snap.RiskSummary, snap.RiskClients)
}

func (m *MockDashboardService) TopClients() dashboard.TopClients {
	snap := m.Snapshot()
	return dashboard.BuildTopClients(snap.Clients)
}

func (m *MockDashboardService) PositionMatrix() dashboard.MatrixView {
	snap := m.Snapshot()
	return dashboard.BuildPositionMatrix(snap.MatrixClients, snap.MatrixSymbols)
}

func (m *MockDashboardService) Deposits() dashboard.DepositPanel {
	snap := m.Snapshot()
	return dashboard.BuildDepositPanel(snap.Deposits)
}

// ============ Mock Refresh Service ============

type MockRefreshService struct {
	mu          sync.Mutex
	result      *service.CycleResult
	err         error
	block       bool
	autoRefresh bool
	refreshes   int
	toggles     []bool
}

func NewMockRefreshService() *MockRefreshService {
	return &MockRefreshService{autoRefresh: true}
}

func (m *MockRefreshService) SetResult(result *service.CycleResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = result
}

func (m *MockRefreshService) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetBlocking заставляет Refresh ждать отмены ctx
func (m *MockRefreshService) SetBlocking(block bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.block = block
}

func (m *MockRefreshService) Refresh(ctx context.Context) (*service.CycleResult, error) {
	m.mu.Lock()
	m.refreshes++
	block, result, err := m.block, m.result, m.err
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return result, err
}

func (m *MockRefreshService) SetAutoRefresh(enabled bool) models.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoRefresh = enabled
	m.toggles = append(m.toggles, enabled)
	return models.Status{
		Connectivity: models.ConnectivityConnected,
		AutoRefresh:  enabled,
	}
}

func (m *MockRefreshService) Interval() time.Duration { return 5 * time.Second }

func (m *MockRefreshService) Running() bool { return true }

func (m *MockRefreshService) Refreshes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}

func (m *MockRefreshService) Toggles() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.toggles...)
}

// ============ Mock RetryAdvisor ============

type MockRetryAdvisor struct {
	after time.Duration
}

func (m MockRetryAdvisor) RetryAfter() time.Duration { return m.after }

// ============ Фикстуры ============

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		NOPSymbols: []models.NOPSymbol{
			{Symbol: "EURUSD", NetLot: 2.5, NetPnl: 1200, PositionCount: 14},
			{Symbol: "XAUUSD", NetLot: -1, NetPnl: -300, PositionCount: 3},
		},
		NOPTotals: models.NOPTotals{TotalNetPnl: 900, TotalPositions: 17, SymbolCount: 2},
		Deposits: models.DepositSummary{
			TotalDeposits: 50000, TotalWithdrawals: 20000, NetFlow: 30000,
			DepositCount: 12, WithdrawalCount: 4,
		},
		Clients: []models.ClientPnL{
			{Login: 1001, Name: "Alice", Pnl: 2500},
			{Login: 1002, Name: "Bob", Pnl: -700},
		},
		RiskSummary: &models.RiskSummary{
			TotalClients:     4,
			RiskDistribution: models.RiskDistribution{models.RiskHigh: 1, models.RiskNormal: 3},
		},
		RiskClients: []models.RiskClient{{Login: 1002, RiskLevel: models.RiskHigh, TotalScore: 80}},
		MatrixClients: []models.PositionMatrixClient{
			{Login: 1001, Positions: map[string]models.MatrixPosition{"EURUSD": {NetLot: 1, Pnl: 10}}},
		},
		MatrixSymbols: []string{"EURUSD"},
		Connectivity:  models.ConnectivityConnected,
		AutoRefresh:   true,
		LastUpdate:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Cycles:        3,
	}
}

func emptySnapshot() models.Snapshot {
	return models.Snapshot{
		NOPSymbols:    []models.NOPSymbol{},
		Clients:       []models.ClientPnL{},
		RiskClients:   []models.RiskClient{},
		MatrixClients: []models.PositionMatrixClient{},
		MatrixSymbols: []string{},
		Connectivity:  models.ConnectivityChecking,
		Loading:       true,
		AutoRefresh:   true,
	}
}
