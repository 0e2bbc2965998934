package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"riskdash/internal/backend"
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// ============ Mock DataSource ============

type MockDataSource struct {
	mu sync.Mutex

	nop      *models.NOPSummary
	deposits *models.DepositSummary
	clients  []models.ClientPnL
	risk     *models.RiskMonitor
	matrix   *models.PositionMatrix

	errs  map[backend.Endpoint]error
	calls map[backend.Endpoint]int

	lastLimit     int
	lastDays      int
	lastMinTrades int

	// gate, если задан, блокирует каждый запрос до закрытия канала или отмены ctx
	gate chan struct{}
}

func NewMockDataSource() *MockDataSource {
	return &MockDataSource{
		nop:      sampleNOP(),
		deposits: sampleDeposits(),
		clients:  sampleClients(),
		risk:     sampleRisk(),
		matrix:   sampleMatrix(),
		errs:     make(map[backend.Endpoint]error),
		calls:    make(map[backend.Endpoint]int),
	}
}

func (m *MockDataSource) SetError(ep backend.Endpoint, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[ep] = err
}

func (m *MockDataSource) FailAll(err error) {
	for _, ep := range backend.AllEndpoints {
		m.SetError(ep, err)
	}
}

func (m *MockDataSource) ClearErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = make(map[backend.Endpoint]error)
}

// Update меняет данные ответов под lock'ом
func (m *MockDataSource) Update(fn func(m *MockDataSource)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m)
}

func (m *MockDataSource) SetGate(gate chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = gate
}

func (m *MockDataSource) Calls(ep backend.Endpoint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[ep]
}

// enter учитывает вызов, ждёт gate и возвращает настроенную ошибку
func (m *MockDataSource) enter(ctx context.Context, ep backend.Endpoint) error {
	m.mu.Lock()
	m.calls[ep]++
	gate := m.gate
	err := m.errs[ep]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return &backend.FetchError{Endpoint: ep, Kind: backend.KindTransport, Err: ctx.Err()}
		}
	}
	return err
}

func (m *MockDataSource) FetchNOPSummary(ctx context.Context) (*models.NOPSummary, error) {
	if err := m.enter(ctx, backend.EndpointNOPSummary); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nop, nil
}

func (m *MockDataSource) FetchDepositSummary(ctx context.Context) (*models.DepositSummary, error) {
	if err := m.enter(ctx, backend.EndpointDeposits); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deposits, nil
}

func (m *MockDataSource) FetchClientMonitor(ctx context.Context, limit int) ([]models.ClientPnL, error) {
	m.mu.Lock()
	m.lastLimit = limit
	m.mu.Unlock()
	if err := m.enter(ctx, backend.EndpointClientMonitor); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clients, nil
}

func (m *MockDataSource) FetchRiskMonitor(ctx context.Context, days, minTrades int) (*models.RiskMonitor, error) {
	m.mu.Lock()
	m.lastDays, m.lastMinTrades = days, minTrades
	m.mu.Unlock()
	if err := m.enter(ctx, backend.EndpointRiskMonitor); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.risk, nil
}

func (m *MockDataSource) FetchPositionMatrix(ctx context.Context) (*models.PositionMatrix, error) {
	if err := m.enter(ctx, backend.EndpointPositionMatrix); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matrix, nil
}

// ============ Mock Limiter ============

type MockLimiter struct {
	mu    sync.Mutex
	allow bool
	calls int
}

func (l *MockLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.allow
}

// ============ Фикстуры ============

var errBackendDown = errors.New("connection refused")

func sampleNOP() *models.NOPSummary {
	return &models.NOPSummary{
		Symbols: []models.NOPSymbol{
			{Symbol: "EURUSD", NetLot: 2.5, NetPnl: 1200, PositionCount: 14},
			{Symbol: "XAUUSD", NetLot: -1, NetPnl: -300, PositionCount: 3},
		},
		Totals: models.NOPTotals{TotalNetPnl: 900, TotalPositions: 17, SymbolCount: 2},
	}
}

func sampleDeposits() *models.DepositSummary {
	return &models.DepositSummary{
		TotalDeposits:    50000,
		TotalWithdrawals: 20000,
		NetFlow:          30000,
		DepositCount:     12,
		WithdrawalCount:  4,
	}
}

func sampleClients() []models.ClientPnL {
	return []models.ClientPnL{
		{Login: 1001, Name: "Alice", Pnl: 2500},
		{Login: 1002, Name: "Bob", Pnl: -700},
	}
}

func sampleRisk() *models.RiskMonitor {
	return &models.RiskMonitor{
		Clients: []models.RiskClient{{Login: 1002, RiskLevel: models.RiskHigh, TotalScore: 80}},
		Summary: models.RiskSummary{
			TotalClients:     4,
			RiskDistribution: models.RiskDistribution{models.RiskHigh: 1, models.RiskNormal: 3},
		},
	}
}

func sampleMatrix() *models.PositionMatrix {
	return &models.PositionMatrix{
		Clients: []models.PositionMatrixClient{
			{Login: 1001, Positions: map[string]models.MatrixPosition{"EURUSD": {NetLot: 1, Pnl: 10}}},
		},
		Symbols: []string{"EURUSD"},
	}
}

// ============ Helpers ============

func testLogger() *utils.Logger {
	return utils.InitLogger(utils.LogConfig{Level: "error"})
}

func testRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Interval:           DefaultRefreshInterval,
		ClientMonitorLimit: DefaultClientMonitorLimit,
		RiskDays:           DefaultRiskDays,
		RiskMinTrades:      DefaultRiskMinTrades,
	}
}

// newTestRefresher создаёт сервис без запуска таймера; автообновление выключено
func newTestRefresher(t *testing.T, source DataSource, cfg RefreshConfig, limiter RefreshLimiter) (*RefreshService, *DashboardState) {
	t.Helper()
	state := NewDashboardState(false)
	svc, err := NewRefreshService(source, state, cfg, limiter, testLogger())
	if err != nil {
		t.Fatalf("NewRefreshService: %v", err)
	}
	return svc, state
}

// activate помечает сервис запущенным без фонового цикла - для детерминированных тестов runCycle
func activate(t *testing.T, svc *RefreshService) {
	t.Helper()
	svc.mu.Lock()
	svc.started = true
	svc.ctx, svc.cancel = context.WithCancel(context.Background())
	svc.mu.Unlock()
	t.Cleanup(svc.Stop)
}

// waitFor ждёт выполнения условия или падает по таймауту
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("таймаут ожидания: %s", msg)
}
