package models

// DepositSummary - снимок движения средств клиентов
type DepositSummary struct {
	TotalDeposits    float64 `json:"total_deposits"`
	TotalWithdrawals float64 `json:"total_withdrawals"`
	NetFlow          float64 `json:"net_flow"`
	DepositCount     int     `json:"deposit_count"`
	WithdrawalCount  int     `json:"withdrawal_count"`
}

// ClientPnL - результат одного клиента из мониторинга клиентов
type ClientPnL struct {
	Login      int64   `json:"login"`
	Name       string  `json:"name"`
	Group      string  `json:"group"`
	Pnl        float64 `json:"pnl"`
	PnlPercent float64 `json:"pnl_percent"`
	Balance    float64 `json:"balance"`
	Equity     float64 `json:"equity"`
}

// RiskClient - клиент с оценкой риска от модели бэкенда
type RiskClient struct {
	Login      int64     `json:"login"`
	Name       string    `json:"name"`
	Group      string    `json:"group"`
	RiskLevel  RiskLevel `json:"risk_level"`
	TotalScore float64   `json:"total_score"`
	TradeCount int       `json:"trade_count"`
}

// RiskMonitor - ответ эндпоинта /api/risk-monitor/clients
type RiskMonitor struct {
	Clients []RiskClient `json:"clients"`
	Summary RiskSummary  `json:"summary"`
}
