package service

import (
	"sync"
	"time"

	"riskdash/internal/backend"
	"riskdash/internal/models"
)

// CycleResult - результат одного цикла опроса бэкенда.
//
// Errors содержит запись для каждого опрошенного эндпоинта: nil - успех.
// Поле данных эндпоинта заполнено только при успехе.
type CycleResult struct {
	Cycle      uint64
	Trigger    string
	StartedAt  time.Time
	FinishedAt time.Time

	NOP      *models.NOPSummary
	Deposits *models.DepositSummary
	Clients  []models.ClientPnL
	Risk     *models.RiskMonitor
	Matrix   *models.PositionMatrix

	Errors map[backend.Endpoint]error
}

func newCycleResult() *CycleResult {
	return &CycleResult{Errors: make(map[backend.Endpoint]error, len(backend.AllEndpoints))}
}

// OK возвращает true, если эндпоинт опрошен успешно
func (r *CycleResult) OK(endpoint backend.Endpoint) bool {
	err, attempted := r.Errors[endpoint]
	return attempted && err == nil
}

// Succeeded возвращает число успешных эндпоинтов
func (r *CycleResult) Succeeded() int {
	n := 0
	for _, err := range r.Errors {
		if err == nil {
			n++
		}
	}
	return n
}

// Failed возвращает число неуспешных эндпоинтов
func (r *CycleResult) Failed() int {
	return len(r.Errors) - r.Succeeded()
}

// Connectivity: connected, если хотя бы один эндпоинт ответил успешно
func (r *CycleResult) Connectivity() models.Connectivity {
	if r.Succeeded() > 0 {
		return models.ConnectivityConnected
	}
	return models.ConnectivityDisconnected
}

// FailedEndpoints возвращает неуспешные эндпоинты в порядке опроса
func (r *CycleResult) FailedEndpoints() []string {
	out := make([]string, 0)
	for _, ep := range backend.AllEndpoints {
		if err, ok := r.Errors[ep]; ok && err != nil {
			out = append(out, ep.String())
		}
	}
	return out
}

// CycleSummary - краткий итог цикла для API и логов
type CycleSummary struct {
	Cycle           uint64              `json:"cycle"`
	Trigger         string              `json:"trigger"`
	Connectivity    models.Connectivity `json:"connectivity"`
	Succeeded       int                 `json:"succeeded"`
	Failed          int                 `json:"failed"`
	FailedEndpoints []string            `json:"failed_endpoints"`
	ElapsedMs       int64               `json:"elapsed_ms"`
	FinishedAt      time.Time           `json:"finished_at"`
}

// Summary возвращает краткий итог цикла
func (r *CycleResult) Summary() CycleSummary {
	return CycleSummary{
		Cycle:           r.Cycle,
		Trigger:         r.Trigger,
		Connectivity:    r.Connectivity(),
		Succeeded:       r.Succeeded(),
		Failed:          r.Failed(),
		FailedEndpoints: r.FailedEndpoints(),
		ElapsedMs:       r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
		FinishedAt:      r.FinishedAt,
	}
}

// ============================================================
// Состояние дашборда (reducer)
// ============================================================

// action - переход состояния; применяется под lock'ом целиком
type action interface {
	reduce(s *models.Snapshot)
}

type cycleStarted struct{}

func (cycleStarted) reduce(s *models.Snapshot) {
	s.Connectivity = models.ConnectivityChecking
}

// cycleAborted возвращает связь, выставленную до прерванного цикла
type cycleAborted struct {
	restore models.Connectivity
}

func (a cycleAborted) reduce(s *models.Snapshot) {
	if s.Connectivity == models.ConnectivityChecking {
		s.Connectivity = a.restore
	}
}

type cycleCommitted struct {
	result *CycleResult
}

// reduce заменяет срезы успешных эндпоинтов целиком, срезы неуспешных не трогает
func (a cycleCommitted) reduce(s *models.Snapshot) {
	r := a.result

	if r.OK(backend.EndpointNOPSummary) && r.NOP != nil {
		s.NOPSymbols = nonNil(r.NOP.Symbols)
		s.NOPTotals = r.NOP.Totals
	}
	if r.OK(backend.EndpointDeposits) && r.Deposits != nil {
		s.Deposits = *r.Deposits
	}
	if r.OK(backend.EndpointClientMonitor) {
		s.Clients = nonNil(r.Clients)
	}
	if r.OK(backend.EndpointRiskMonitor) && r.Risk != nil {
		summary := r.Risk.Summary
		if summary.RiskDistribution == nil {
			summary.RiskDistribution = models.RiskDistribution{}
		}
		s.RiskSummary = &summary
		s.RiskClients = nonNil(r.Risk.Clients)
	}
	if r.OK(backend.EndpointPositionMatrix) && r.Matrix != nil {
		s.MatrixClients = nonNil(r.Matrix.Clients)
		s.MatrixSymbols = nonNil(r.Matrix.Symbols)
	}

	s.Connectivity = r.Connectivity()
	s.LastUpdate = r.FinishedAt
	s.Loading = false
	s.Cycles++
}

type autoRefreshChanged struct {
	enabled bool
}

func (a autoRefreshChanged) reduce(s *models.Snapshot) {
	s.AutoRefresh = a.enabled
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// DashboardState - единственный владелец данных дашборда.
//
// Все изменения проходят через dispatch; читатели получают копию снимка.
// Срезы внутри снимка заменяются целиком и никогда не меняются на месте,
// поэтому копия структуры безопасна для чтения без lock'а.
type DashboardState struct {
	mu   sync.RWMutex
	snap models.Snapshot
}

// NewDashboardState создаёт состояние первой загрузки: данные пустые, loading, checking
func NewDashboardState(autoRefresh bool) *DashboardState {
	return &DashboardState{
		snap: models.Snapshot{
			NOPSymbols:    []models.NOPSymbol{},
			Clients:       []models.ClientPnL{},
			RiskClients:   []models.RiskClient{},
			MatrixClients: []models.PositionMatrixClient{},
			MatrixSymbols: []string{},
			Connectivity:  models.ConnectivityChecking,
			Loading:       true,
			AutoRefresh:   autoRefresh,
		},
	}
}

func (st *DashboardState) dispatch(a action) models.Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	a.reduce(&st.snap)
	return st.snap
}

// BeginCycle переводит связь в checking
func (st *DashboardState) BeginCycle() models.Snapshot {
	return st.dispatch(cycleStarted{})
}

// AbortCycle отменяет BeginCycle прерванного цикла; данные и loading не меняются
func (st *DashboardState) AbortCycle(prev models.Connectivity) models.Snapshot {
	return st.dispatch(cycleAborted{restore: prev})
}

// CommitCycle применяет результат цикла одним переходом
func (st *DashboardState) CommitCycle(result *CycleResult) models.Snapshot {
	return st.dispatch(cycleCommitted{result: result})
}

// SetAutoRefresh меняет флаг автообновления
func (st *DashboardState) SetAutoRefresh(enabled bool) models.Snapshot {
	return st.dispatch(autoRefreshChanged{enabled: enabled})
}

// Snapshot возвращает копию текущего состояния
func (st *DashboardState) Snapshot() models.Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap
}

// AutoRefresh возвращает флаг автообновления
func (st *DashboardState) AutoRefresh() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap.AutoRefresh
}
