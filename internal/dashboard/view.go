package dashboard

import (
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// Badge - индикатор связи с бэкендом
type Badge struct {
	State models.Connectivity `json:"state"`
	Label string              `json:"label"`
	Color string              `json:"color"`
	Pulse bool                `json:"pulse"`
}

var connectivityBadges = map[models.Connectivity]Badge{
	models.ConnectivityConnected:    {State: models.ConnectivityConnected, Label: "Live", Color: "bg-profit", Pulse: true},
	models.ConnectivityChecking:     {State: models.ConnectivityChecking, Label: "Connecting...", Color: "bg-warning", Pulse: true},
	models.ConnectivityDisconnected: {State: models.ConnectivityDisconnected, Label: "Offline", Color: "bg-loss"},
}

// ConnectivityBadge возвращает индикатор для состояния связи.
// Неизвестное состояние показывается как Offline.
func ConnectivityBadge(c models.Connectivity) Badge {
	if b, ok := connectivityBadges[c]; ok {
		return b
	}
	return connectivityBadges[models.ConnectivityDisconnected]
}

// Header - заголовок дашборда
type Header struct {
	Badge            Badge  `json:"badge"`
	LastUpdate       string `json:"last_update"` // 15:04:05 или --:--:--
	AutoRefresh      bool   `json:"auto_refresh"`
	AutoRefreshLabel string `json:"auto_refresh_label"`
	Loading          bool   `json:"loading"`
}

// BuildHeader строит заголовок из снимка
func BuildHeader(s *models.Snapshot) Header {
	label := "Paused"
	if s.AutoRefresh {
		label = "Live"
	}
	return Header{
		Badge:            ConnectivityBadge(s.Connectivity),
		LastUpdate:       utils.FormatClock(s.LastUpdate),
		AutoRefresh:      s.AutoRefresh,
		AutoRefreshLabel: label,
		Loading:          s.Loading,
	}
}

// View - полное представление дашборда
type View struct {
	Header     Header       `json:"header"`
	KPIs       []KPICard    `json:"kpis"`
	NOP        NOPTable     `json:"nop"`
	Risk       RiskOverview `json:"risk"`
	Deposits   DepositPanel `json:"deposits"`
	TopClients TopClients   `json:"top_clients"`
	Matrix     MatrixView   `json:"matrix"`
}

// Build строит полное представление из снимка
func Build(s *models.Snapshot) View {
	return View{
		Header:     BuildHeader(s),
		KPIs:       BuildKPICards(KPIInputFromSnapshot(s)),
		NOP:        BuildNOPTable(s.NOPSymbols, s.NOPTotals),
		Risk:       BuildRiskOverview(s.RiskSummary, s.RiskClients),
		Deposits:   BuildDepositPanel(s.Deposits),
		TopClients: BuildTopClients(s.Clients),
		Matrix:     BuildPositionMatrix(s.MatrixClients, s.MatrixSymbols),
	}
}
