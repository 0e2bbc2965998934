package models

import "time"

// Connectivity - состояние связи с бэкендом
type Connectivity string

// Состояния связи (state machine цикла обновления)
const (
	ConnectivityChecking     Connectivity = "checking"     // цикл в процессе
	ConnectivityConnected    Connectivity = "connected"    // хотя бы один запрос цикла успешен
	ConnectivityDisconnected Connectivity = "disconnected" // все запросы цикла неуспешны
)

// Snapshot - неизменяемая копия состояния дашборда.
//
// Каждый срез заменяется целиком при успешной загрузке соответствующего
// эндпоинта и не трогается при ошибке (остаётся последнее валидное значение).
type Snapshot struct {
	NOPSymbols    []NOPSymbol            `json:"nop_symbols"`
	NOPTotals     NOPTotals              `json:"nop_totals"`
	Deposits      DepositSummary         `json:"deposits"`
	Clients       []ClientPnL            `json:"clients"`
	RiskSummary   *RiskSummary           `json:"risk_summary"` // nil до первой успешной загрузки
	RiskClients   []RiskClient           `json:"risk_clients"`
	MatrixClients []PositionMatrixClient `json:"matrix_clients"`
	MatrixSymbols []string               `json:"matrix_symbols"`
	Connectivity  Connectivity           `json:"connectivity"`
	Loading       bool                   `json:"loading"` // true до завершения первого цикла
	AutoRefresh   bool                   `json:"auto_refresh"`
	LastUpdate    time.Time              `json:"last_update"`
	Cycles        uint64                 `json:"cycles"` // количество завершённых циклов
}

// Status - краткое состояние обновления для заголовка дашборда
type Status struct {
	Connectivity Connectivity `json:"connectivity"`
	Loading      bool         `json:"loading"`
	AutoRefresh  bool         `json:"auto_refresh"`
	LastUpdate   time.Time    `json:"last_update"`
	Cycles       uint64       `json:"cycles"`
}

// Status возвращает краткое состояние из снимка
func (s *Snapshot) Status() Status {
	return Status{
		Connectivity: s.Connectivity,
		Loading:      s.Loading,
		AutoRefresh:  s.AutoRefresh,
		LastUpdate:   s.LastUpdate,
		Cycles:       s.Cycles,
	}
}
