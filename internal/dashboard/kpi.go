package dashboard

import (
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// Ключи KPI карточек
const (
	KPINetPnl        = "net_pnl"
	KPIDeposits      = "total_deposits"
	KPIWithdrawals   = "total_withdrawals"
	KPINetFlow       = "net_flow"
	KPIRiskAlerts    = "risk_alerts"
	KPIOpenPositions = "open_positions"
)

// Пороги карточки Risk Alerts
const (
	alertsLossThreshold    = 5 // больше - loss
	alertsWarningThreshold = 0 // больше - warning
)

// KPICard - карточка ключевого показателя
type KPICard struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Icon    string  `json:"icon"`
	Variant Variant `json:"variant"`
	Style   Style   `json:"style"`
}

// KPIInput - исходные цифры для карточек
type KPIInput struct {
	NetPnl        float64
	Deposits      float64
	Withdrawals   float64
	NetFlow       float64
	RiskAlerts    int
	OpenPositions int
}

// KPIInputFromSnapshot собирает цифры карточек из снимка
func KPIInputFromSnapshot(s *models.Snapshot) KPIInput {
	return KPIInput{
		NetPnl:        s.NOPTotals.TotalNetPnl,
		Deposits:      s.Deposits.TotalDeposits,
		Withdrawals:   s.Deposits.TotalWithdrawals,
		NetFlow:       s.Deposits.NetFlow,
		RiskAlerts:    s.RiskSummary.AlertCount(),
		OpenPositions: s.NOPTotals.TotalPositions,
	}
}

// AlertsVariant: >5 - loss, >0 - warning, иначе neutral
func AlertsVariant(alerts int) Variant {
	switch {
	case alerts > alertsLossThreshold:
		return VariantLoss
	case alerts > alertsWarningThreshold:
		return VariantWarning
	default:
		return VariantNeutral
	}
}

// kpiDef описывает одну карточку: как получить значение, текст и вариант
type kpiDef struct {
	key     string
	label   string
	value   func(KPIInput) float64
	display func(float64) string
	icon    func(float64) string
	variant func(float64) Variant
}

func fixedIcon(name string) func(float64) string {
	return func(float64) string { return name }
}

func fixedVariant(v Variant) func(float64) Variant {
	return func(float64) Variant { return v }
}

func countDisplay(v float64) string { return utils.FormatCount(int(v)) }

func trendIcon(v float64) string {
	if v >= 0 {
		return "trending-up"
	}
	return "trending-down"
}

var kpiDefs = []kpiDef{
	{
		key:     KPINetPnl,
		label:   "Net P&L",
		value:   func(in KPIInput) float64 { return in.NetPnl },
		display: utils.FormatCurrencyShort,
		icon:    trendIcon,
		variant: SignVariant,
	},
	{
		key:     KPIDeposits,
		label:   "Total Deposits",
		value:   func(in KPIInput) float64 { return in.Deposits },
		display: utils.FormatCurrencyShort,
		icon:    fixedIcon("arrow-up-circle"),
		variant: fixedVariant(VariantProfit),
	},
	{
		key:     KPIWithdrawals,
		label:   "Total Withdrawals",
		value:   func(in KPIInput) float64 { return in.Withdrawals },
		display: utils.FormatCurrencyShort,
		icon:    fixedIcon("arrow-down-circle"),
		variant: fixedVariant(VariantLoss),
	},
	{
		key:     KPINetFlow,
		label:   "Net Flow",
		value:   func(in KPIInput) float64 { return in.NetFlow },
		display: utils.FormatCurrencyShort,
		icon:    fixedIcon("activity"),
		variant: SignVariant,
	},
	{
		key:     KPIRiskAlerts,
		label:   "Risk Alerts",
		value:   func(in KPIInput) float64 { return float64(in.RiskAlerts) },
		display: countDisplay,
		icon:    fixedIcon("alert-triangle"),
		variant: func(v float64) Variant { return AlertsVariant(int(v)) },
	},
	{
		key:     KPIOpenPositions,
		label:   "Open Positions",
		value:   func(in KPIInput) float64 { return float64(in.OpenPositions) },
		display: countDisplay,
		icon:    fixedIcon("activity"),
		variant: fixedVariant(VariantNeutral),
	},
}

// BuildKPICards строит шесть KPI карточек в фиксированном порядке
func BuildKPICards(in KPIInput) []KPICard {
	cards := make([]KPICard, 0, len(kpiDefs))
	for _, def := range kpiDefs {
		v := def.value(in)
		variant := def.variant(v)
		cards = append(cards, KPICard{
			Key:     def.key,
			Label:   def.label,
			Value:   v,
			Display: def.display(v),
			Icon:    def.icon(v),
			Variant: variant,
			Style:   StyleOf(variant),
		})
	}
	return cards
}
