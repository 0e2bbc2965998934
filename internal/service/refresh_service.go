package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"riskdash/internal/backend"
	"riskdash/internal/metrics"
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// Ошибки сервиса обновления
var (
	ErrRefreshThrottled   = errors.New("manual refresh rate limit exceeded")
	ErrRefresherStopped   = errors.New("refresher is not running")
	ErrRefresherStarted   = errors.New("refresher already started")
	ErrInvalidRefreshConf = errors.New("refresh interval must be positive")
)

// cycleKey - ключ singleflight: в любой момент выполняется не больше одного цикла
const cycleKey = "cycle"

// Значения по умолчанию
const (
	DefaultRefreshInterval    = 5 * time.Second
	DefaultClientMonitorLimit = 40
	DefaultRiskDays           = 7
	DefaultRiskMinTrades      = 10
)

// RefreshConfig - параметры цикла обновления.
// Флаг автообновления хранится в DashboardState.
type RefreshConfig struct {
	Interval           time.Duration
	ClientMonitorLimit int
	RiskDays           int
	RiskMinTrades      int
}

// RefreshService опрашивает бэкенд и фиксирует результаты в DashboardState.
//
// Цикл:
// - связь переходит в checking
// - пять запросов выполняются параллельно и независимо (errgroup без общей отмены)
// - после завершения всех: connected, если успешен хотя бы один, иначе disconnected
// - успешные срезы заменяются, неуспешные остаются прежними
//
// Циклы не перекрываются: тик таймера во время активного цикла пропускается,
// ручное обновление во время активного цикла присоединяется к нему.
type RefreshService struct {
	source  DataSource
	state   *DashboardState
	limiter RefreshLimiter
	cfg     RefreshConfig
	log     *utils.Logger
	now     func() time.Time

	group    singleflight.Group
	inflight atomic.Bool
	seq      atomic.Uint64
	kick     chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	loopWG  sync.WaitGroup
	cycles  sync.WaitGroup
}

// NewRefreshService создаёт сервис обновления.
// limiter может быть nil - тогда ручные обновления не ограничиваются.
func NewRefreshService(source DataSource, state *DashboardState, cfg RefreshConfig, limiter RefreshLimiter, log *utils.Logger) (*RefreshService, error) {
	if cfg.Interval <= 0 {
		return nil, ErrInvalidRefreshConf
	}
	if cfg.ClientMonitorLimit <= 0 {
		cfg.ClientMonitorLimit = DefaultClientMonitorLimit
	}
	if cfg.RiskDays <= 0 {
		cfg.RiskDays = DefaultRiskDays
	}
	if cfg.RiskMinTrades < 0 {
		cfg.RiskMinTrades = DefaultRiskMinTrades
	}
	if log == nil {
		log = utils.L()
	}

	return &RefreshService{
		source:  source,
		state:   state,
		limiter: limiter,
		cfg:     cfg,
		log:     log.WithComponent("refresher"),
		now:     time.Now,
		kick:    make(chan struct{}, 1),
	}, nil
}

// Start запускает первый цикл и таймер автообновления.
// Первый цикл выполняется в фоне; Start не ждёт его завершения.
func (s *RefreshService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrRefresherStarted
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	metrics.SetAutoRefresh(s.state.AutoRefresh())

	s.loopWG.Add(1)
	go s.loop()

	s.log.Info("refresher started",
		utils.Duration("interval", s.cfg.Interval),
		utils.Bool("auto_refresh", s.state.AutoRefresh()))
	return nil
}

// Stop останавливает таймер, отменяет активный цикл и ждёт завершения горутин
func (s *RefreshService) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.cancel()
	s.mu.Unlock()

	s.loopWG.Wait()
	s.cycles.Wait()
	s.log.Info("refresher stopped")
}

// Running возвращает true между Start и Stop
func (s *RefreshService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.stopped
}

// Refresh выполняет ручное обновление и возвращает результат цикла.
//
// Если цикл уже идёт, вызов присоединяется к нему. Отмена ctx прекращает
// ожидание, но не сам цикл.
func (s *RefreshService) Refresh(ctx context.Context) (*CycleResult, error) {
	if !s.Running() {
		return nil, ErrRefresherStopped
	}
	if s.limiter != nil && !s.limiter.Allow() {
		metrics.RecordThrottled()
		return nil, ErrRefreshThrottled
	}

	if s.inflight.Load() {
		metrics.RecordJoinedRefresh()
		s.log.Debug("manual refresh joined in-flight cycle")
	}

	ch := s.group.DoChan(cycleKey, func() (interface{}, error) {
		return s.runCycle(metrics.TriggerManual)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*CycleResult), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetAutoRefresh включает или выключает таймер.
// Выключение отменяет ожидающий тик; включение взводит таймер на полный интервал.
func (s *RefreshService) SetAutoRefresh(enabled bool) models.Status {
	snap := s.state.SetAutoRefresh(enabled)
	metrics.SetAutoRefresh(enabled)

	select {
	case s.kick <- struct{}{}:
	default:
	}

	s.log.Info("auto-refresh changed", utils.Bool("enabled", enabled))
	return snap.Status()
}

// Interval возвращает интервал автообновления
func (s *RefreshService) Interval() time.Duration {
	return s.cfg.Interval
}

// loop владеет таймером: первый цикл, затем тики пока включено автообновление
func (s *RefreshService) loop() {
	defer s.loopWG.Done()

	s.runShared(metrics.TriggerStart)

	var (
		ticker *time.Ticker
		tickC  <-chan time.Time
	)
	arm := func(enabled bool) {
		switch {
		case enabled && ticker == nil:
			ticker = time.NewTicker(s.cfg.Interval)
			tickC = ticker.C
		case !enabled && ticker != nil:
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	arm(s.state.AutoRefresh())

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.kick:
			arm(s.state.AutoRefresh())
		case <-tickC:
			if s.inflight.Load() {
				metrics.RecordSkippedTick()
				s.log.Debug("tick skipped: cycle in flight")
				continue
			}
			s.loopWG.Add(1)
			go func() {
				defer s.loopWG.Done()
				s.runShared(metrics.TriggerTimer)
			}()
		}
	}
}

// runShared выполняет цикл через singleflight и логирует ошибку остановки
func (s *RefreshService) runShared(trigger string) {
	_, err, _ := s.group.Do(cycleKey, func() (interface{}, error) {
		return s.runCycle(trigger)
	})
	if err != nil && !errors.Is(err, ErrRefresherStopped) {
		s.log.Warn("refresh cycle failed", utils.String("trigger", trigger), utils.Err(err))
	}
}

// beginCycle регистрирует цикл, если сервис работает
func (s *RefreshService) beginCycle() (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped {
		return nil, false
	}
	s.cycles.Add(1)
	return s.ctx, true
}

// runCycle выполняет один цикл опроса и фиксирует результат
func (s *RefreshService) runCycle(trigger string) (*CycleResult, error) {
	ctx, ok := s.beginCycle()
	if !ok {
		return nil, ErrRefresherStopped
	}
	defer s.cycles.Done()

	s.inflight.Store(true)
	defer s.inflight.Store(false)

	cycle := s.seq.Add(1)
	log := s.log.WithCycle(cycle)

	start := s.now()
	prev := s.state.Snapshot().Connectivity
	s.state.BeginCycle()

	result := s.fetchAll(ctx)
	result.Cycle = cycle
	result.Trigger = trigger
	result.StartedAt = start
	result.FinishedAt = s.now()

	// Остановка во время цикла: результат не фиксируем, связь возвращается к состоянию до цикла
	if ctx.Err() != nil {
		s.state.AbortCycle(prev)
		log.Debug("cycle aborted by shutdown", utils.Connectivity(string(prev)))
		return nil, ErrRefresherStopped
	}

	snap := s.state.CommitCycle(result)
	elapsed := result.FinishedAt.Sub(start)

	for _, ep := range backend.AllEndpoints {
		if err := result.Errors[ep]; err != nil {
			log.Warn("endpoint fetch failed",
				utils.Endpoint(ep.String()),
				utils.String("kind", string(backend.KindOf(err))),
				utils.Err(err))
		}
	}

	metrics.RecordCycle(trigger, snap.Connectivity == models.ConnectivityConnected, elapsed, result.FinishedAt)
	metrics.UpdateDashboard(snap.NOPTotals.TotalNetPnl, snap.NOPTotals.TotalPositions, riskCounts(snap.RiskSummary))

	log.Debug("refresh cycle completed",
		utils.String("trigger", trigger),
		utils.Connectivity(string(snap.Connectivity)),
		utils.Succeeded(result.Succeeded()),
		utils.Failed(result.Failed()),
		utils.Elapsed(elapsed))

	return result, nil
}

// fetchAll выполняет пять запросов параллельно и ждёт все.
// Горутины всегда возвращают nil: ошибка одного запроса не отменяет остальные.
func (s *RefreshService) fetchAll(ctx context.Context) *CycleResult {
	result := newCycleResult()

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	record := func(ep backend.Endpoint, apply func(), err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			apply()
		}
		result.Errors[ep] = err
	}

	g.Go(func() error {
		nop, err := s.source.FetchNOPSummary(ctx)
		record(backend.EndpointNOPSummary, func() { result.NOP = nop }, err)
		return nil
	})
	g.Go(func() error {
		deposits, err := s.source.FetchDepositSummary(ctx)
		record(backend.EndpointDeposits, func() { result.Deposits = deposits }, err)
		return nil
	})
	g.Go(func() error {
		clients, err := s.source.FetchClientMonitor(ctx, s.cfg.ClientMonitorLimit)
		record(backend.EndpointClientMonitor, func() { result.Clients = clients }, err)
		return nil
	})
	g.Go(func() error {
		risk, err := s.source.FetchRiskMonitor(ctx, s.cfg.RiskDays, s.cfg.RiskMinTrades)
		record(backend.EndpointRiskMonitor, func() { result.Risk = risk }, err)
		return nil
	})
	g.Go(func() error {
		matrix, err := s.source.FetchPositionMatrix(ctx)
		record(backend.EndpointPositionMatrix, func() { result.Matrix = matrix }, err)
		return nil
	})

	_ = g.Wait()
	return result
}

func riskCounts(summary *models.RiskSummary) map[string]int {
	out := make(map[string]int, len(models.AllRiskLevels))
	for _, level := range models.AllRiskLevels {
		out[string(level)] = 0
		if summary != nil {
			out[string(level)] = summary.RiskDistribution.Count(level)
		}
	}
	return out
}
