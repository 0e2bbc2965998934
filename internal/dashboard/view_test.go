package dashboard

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"riskdash/internal/models"
)

func TestBuildKPICards(t *testing.T) {
	cards := BuildKPICards(KPIInput{
		NetPnl:        -2500,
		Deposits:      1_500_000,
		Withdrawals:   2300,
		NetFlow:       42,
		RiskAlerts:    6,
		OpenPositions: 12345,
	})

	want := []struct {
		key     string
		label   string
		display string
		variant Variant
		icon    string
	}{
		{KPINetPnl, "Net P&L", "-$2.5K", VariantLoss, "trending-down"},
		{KPIDeposits, "Total Deposits", "$1.5M", VariantProfit, "arrow-up-circle"},
		{KPIWithdrawals, "Total Withdrawals", "$2.3K", VariantLoss, "arrow-down-circle"},
		{KPINetFlow, "Net Flow", "$42", VariantProfit, "activity"},
		{KPIRiskAlerts, "Risk Alerts", "6", VariantLoss, "alert-triangle"},
		{KPIOpenPositions, "Open Positions", "12,345", VariantNeutral, "activity"},
	}

	if len(cards) != len(want) {
		t.Fatalf("ожидалось %d карточек, получено %d", len(want), len(cards))
	}
	for i, w := range want {
		c := cards[i]
		if c.Key != w.key || c.Label != w.label || c.Display != w.display || c.Variant != w.variant || c.Icon != w.icon {
			t.Errorf("карточка %d: got %+v, want %+v", i, c, w)
		}
		if c.Style != StyleOf(w.variant) {
			t.Errorf("карточка %s: неверный стиль %+v", c.Key, c.Style)
		}
	}
}

func TestAlertsVariant(t *testing.T) {
	tests := []struct {
		alerts int
		want   Variant
	}{
		{0, VariantNeutral},
		{1, VariantWarning},
		{5, VariantWarning},
		{6, VariantLoss},
		{40, VariantLoss},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.alerts), func(t *testing.T) {
			if got := AlertsVariant(tt.alerts); got != tt.want {
				t.Errorf("AlertsVariant(%d) = %q, want %q", tt.alerts, got, tt.want)
			}
		})
	}
}

func TestSignVariant(t *testing.T) {
	if SignVariant(0) != VariantProfit {
		t.Error("ноль должен давать profit")
	}
	if SignVariant(-0.01) != VariantLoss {
		t.Error("отрицательное значение должно давать loss")
	}
}

func TestStyleOf_Unknown(t *testing.T) {
	if got := StyleOf("unknown"); got != StyleOf(VariantNeutral) {
		t.Errorf("StyleOf(unknown) = %+v, want neutral", got)
	}
}

func TestRiskMeta_Unknown(t *testing.T) {
	meta := RiskMeta("CRITICAL")
	if meta.Label != "CRITICAL" || meta.Variant != VariantNeutral {
		t.Errorf("неверное оформление неизвестного уровня: %+v", meta)
	}
}

func TestBuildNOPTable(t *testing.T) {
	symbols := make([]models.NOPSymbol, 0, 20)
	for i := 0; i < 20; i++ {
		symbols = append(symbols, models.NOPSymbol{Symbol: fmt.Sprintf("SYM%d", i), NetLot: 1.5, NetPnl: -2.25, PositionCount: i})
	}
	totals := models.NOPTotals{TotalNetPnl: -45, TotalPositions: 190, SymbolCount: 20}

	table := BuildNOPTable(symbols, totals)
	if len(table.Rows) != NOPTableLimit {
		t.Fatalf("ожидалось %d строк, получено %d", NOPTableLimit, len(table.Rows))
	}
	if table.TotalSymbols != 20 {
		t.Errorf("TotalSymbols = %d, want 20", table.TotalSymbols)
	}

	row := table.Rows[0]
	if row.NetLotLabel != "+1.50" || row.LotColor != "text-profit" {
		t.Errorf("неверный лот: %+v", row)
	}
	if row.NetPnlLabel != "-2.25" || row.PnlColor != "text-loss" {
		t.Errorf("неверный PNL: %+v", row)
	}
	if table.TotalPnlLabel != "-$45.00" {
		t.Errorf("TotalPnlLabel = %q, want -$45.00", table.TotalPnlLabel)
	}
}

func TestBuildNOPTable_Empty(t *testing.T) {
	table := BuildNOPTable(nil, models.NOPTotals{})
	if table.Rows == nil || len(table.Rows) != 0 {
		t.Errorf("ожидался пустой срез, получено %#v", table.Rows)
	}
}

func TestBuildDepositPanel(t *testing.T) {
	tests := []struct {
		name      string
		summary   models.DepositSummary
		wantFlow  string
		wantColor string
	}{
		{
			name:      "positive flow",
			summary:   models.DepositSummary{TotalDeposits: 1000, TotalWithdrawals: 500, NetFlow: 500, DepositCount: 1200, WithdrawalCount: 3},
			wantFlow:  "+$500.00",
			wantColor: "text-profit",
		},
		{
			name:      "negative flow",
			summary:   models.DepositSummary{TotalDeposits: 100, TotalWithdrawals: 300, NetFlow: -200},
			wantFlow:  "-$200.00",
			wantColor: "text-loss",
		},
		{
			name:      "zero",
			summary:   models.DepositSummary{},
			wantFlow:  "$0.00",
			wantColor: "text-profit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := BuildDepositPanel(tt.summary)
			if panel.NetFlowLabel != tt.wantFlow {
				t.Errorf("NetFlowLabel = %q, want %q", panel.NetFlowLabel, tt.wantFlow)
			}
			if panel.NetFlowColor != tt.wantColor {
				t.Errorf("NetFlowColor = %q, want %q", panel.NetFlowColor, tt.wantColor)
			}
		})
	}

	panel := BuildDepositPanel(tests[0].summary)
	if panel.DepositsLabel != "$1,000.00" || panel.CountsLabel != "1,200 in / 3 out" {
		t.Errorf("неверная панель: %+v", panel)
	}
}

func TestConnectivityBadge(t *testing.T) {
	tests := []struct {
		state models.Connectivity
		label string
	}{
		{models.ConnectivityConnected, "Live"},
		{models.ConnectivityChecking, "Connecting..."},
		{models.ConnectivityDisconnected, "Offline"},
		{"", "Offline"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := ConnectivityBadge(tt.state).Label; got != tt.label {
				t.Errorf("label = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestBuildHeader(t *testing.T) {
	header := BuildHeader(&models.Snapshot{Connectivity: models.ConnectivityChecking, Loading: true})
	if header.LastUpdate != "--:--:--" {
		t.Errorf("LastUpdate = %q, want --:--:--", header.LastUpdate)
	}
	if header.AutoRefreshLabel != "Paused" || !header.Loading {
		t.Errorf("неверный заголовок: %+v", header)
	}

	header = BuildHeader(&models.Snapshot{
		Connectivity: models.ConnectivityConnected,
		AutoRefresh:  true,
		LastUpdate:   time.Date(2024, 3, 1, 14, 3, 9, 0, time.UTC),
	})
	if header.LastUpdate != "14:03:09" || header.AutoRefreshLabel != "Live" || header.Badge.Label != "Live" {
		t.Errorf("неверный заголовок: %+v", header)
	}
}

func sampleSnapshot() *models.Snapshot {
	return &models.Snapshot{
		NOPSymbols: []models.NOPSymbol{{Symbol: "EURUSD", NetLot: 1, NetPnl: 50, PositionCount: 2}},
		NOPTotals:  models.NOPTotals{TotalNetPnl: 50, TotalPositions: 2, SymbolCount: 1},
		Deposits:   models.DepositSummary{TotalDeposits: 5000, NetFlow: 5000, DepositCount: 2},
		Clients:    pnlClients(300, -100),
		RiskSummary: &models.RiskSummary{
			TotalClients:     2,
			RiskDistribution: models.RiskDistribution{models.RiskHigh: 1, models.RiskNormal: 1},
		},
		RiskClients:   []models.RiskClient{{Login: 1, RiskLevel: models.RiskHigh, TotalScore: 80}},
		MatrixClients: []models.PositionMatrixClient{{Login: 1, Positions: lots(map[string]float64{"EURUSD": 1})}},
		MatrixSymbols: []string{"EURUSD"},
		Connectivity:  models.ConnectivityConnected,
		AutoRefresh:   true,
		LastUpdate:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		Cycles:        1,
	}
}

func TestBuild(t *testing.T) {
	view := Build(sampleSnapshot())

	if len(view.KPIs) != 6 {
		t.Errorf("ожидалось 6 карточек, получено %d", len(view.KPIs))
	}
	if view.KPIs[4].Display != "1" || view.KPIs[4].Variant != VariantWarning {
		t.Errorf("неверная карточка алертов: %+v", view.KPIs[4])
	}
	if len(view.NOP.Rows) != 1 || len(view.Matrix.Rows) != 1 {
		t.Errorf("неверные таблицы: nop=%d matrix=%d", len(view.NOP.Rows), len(view.Matrix.Rows))
	}
	if len(view.TopClients.Winners) != 1 || len(view.TopClients.Losers) != 1 {
		t.Errorf("неверные winners/losers: %+v", view.TopClients)
	}
	if !view.Risk.Available || view.Risk.Alerts != 1 {
		t.Errorf("неверный риск: %+v", view.Risk)
	}
	if view.Header.Badge.Label != "Live" {
		t.Errorf("badge = %q, want Live", view.Header.Badge.Label)
	}
}

func TestBuild_EmptySnapshot(t *testing.T) {
	view := Build(&models.Snapshot{Loading: true})

	if view.Risk.Available {
		t.Error("риск не должен быть доступен")
	}
	if view.KPIs[0].Display != "$0" {
		t.Errorf("Net P&L = %q, want $0", view.KPIs[0].Display)
	}
	if view.Header.LastUpdate != "--:--:--" {
		t.Errorf("LastUpdate = %q", view.Header.LastUpdate)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	snap := sampleSnapshot()
	first := Build(snap)
	second := Build(snap)

	if !reflect.DeepEqual(first, second) {
		t.Error("повторное построение по тому же снимку должно давать тот же результат")
	}
}
