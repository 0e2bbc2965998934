package dashboard

import (
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// NOPRow - строка таблицы NOP Summary
type NOPRow struct {
	Symbol        string  `json:"symbol"`
	NetLot        float64 `json:"net_lot"`
	NetLotLabel   string  `json:"net_lot_label"`
	LotColor      string  `json:"lot_color"`
	NetPnl        float64 `json:"net_pnl"`
	NetPnlLabel   string  `json:"net_pnl_label"`
	PnlColor      string  `json:"pnl_color"`
	PositionCount int     `json:"position_count"`
}

// NOPTable - таблица NOP по символам
type NOPTable struct {
	Rows          []NOPRow         `json:"rows"`
	TotalSymbols  int              `json:"total_symbols"` // до обрезки
	Totals        models.NOPTotals `json:"totals"`
	TotalPnlLabel string           `json:"total_pnl_label"`
}

// BuildNOPTable строит таблицу из первых NOPTableLimit символов
func BuildNOPTable(symbols []models.NOPSymbol, totals models.NOPTotals) NOPTable {
	n := len(symbols)
	if n > NOPTableLimit {
		n = NOPTableLimit
	}

	rows := make([]NOPRow, 0, n)
	for _, s := range symbols[:n] {
		rows = append(rows, NOPRow{
			Symbol:        s.Symbol,
			NetLot:        s.NetLot,
			NetLotLabel:   utils.FormatSignedNumber(s.NetLot),
			LotColor:      StyleOf(SignVariant(s.NetLot)).Color,
			NetPnl:        s.NetPnl,
			NetPnlLabel:   utils.FormatSignedNumber(s.NetPnl),
			PnlColor:      StyleOf(SignVariant(s.NetPnl)).Color,
			PositionCount: s.PositionCount,
		})
	}

	return NOPTable{
		Rows:          rows,
		TotalSymbols:  len(symbols),
		Totals:        totals,
		TotalPnlLabel: utils.FormatCurrency(totals.TotalNetPnl),
	}
}
