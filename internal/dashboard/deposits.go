package dashboard

import (
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// DepositPanel - панель движения средств
type DepositPanel struct {
	Deposits         float64 `json:"deposits"`
	DepositsLabel    string  `json:"deposits_label"`
	Withdrawals      float64 `json:"withdrawals"`
	WithdrawalsLabel string  `json:"withdrawals_label"`
	NetFlow          float64 `json:"net_flow"`
	NetFlowLabel     string  `json:"net_flow_label"`
	NetFlowColor     string  `json:"net_flow_color"`
	DepositCount     int     `json:"deposit_count"`
	WithdrawalCount  int     `json:"withdrawal_count"`
	CountsLabel      string  `json:"counts_label"`
}

// BuildDepositPanel строит панель из сводки депозитов
func BuildDepositPanel(d models.DepositSummary) DepositPanel {
	netFlowLabel := utils.FormatCurrency(d.NetFlow)
	if d.NetFlow > 0 {
		netFlowLabel = "+" + netFlowLabel
	}

	return DepositPanel{
		Deposits:         d.TotalDeposits,
		DepositsLabel:    utils.FormatCurrency(d.TotalDeposits),
		Withdrawals:      d.TotalWithdrawals,
		WithdrawalsLabel: utils.FormatCurrency(d.TotalWithdrawals),
		NetFlow:          d.NetFlow,
		NetFlowLabel:     netFlowLabel,
		NetFlowColor:     StyleOf(SignVariant(d.NetFlow)).Color,
		DepositCount:     d.DepositCount,
		WithdrawalCount:  d.WithdrawalCount,
		CountsLabel:      utils.FormatCount(d.DepositCount) + " in / " + utils.FormatCount(d.WithdrawalCount) + " out",
	}
}
