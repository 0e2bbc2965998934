package dashboard

import (
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// MatrixCell - ячейка матрицы позиций
type MatrixCell struct {
	Symbol    string  `json:"symbol"`
	NetLot    float64 `json:"net_lot"`
	Pnl       float64 `json:"pnl"`
	Label     string  `json:"label"`     // +1.50 / -0.30 / —
	Intensity float64 `json:"intensity"` // |net_lot| / max|net_lot| по показанным ячейкам, 0..1
	Empty     bool    `json:"empty"`
	Color     string  `json:"color"`
}

// MatrixRow - строка матрицы: клиент и ячейки по отображаемым символам
type MatrixRow struct {
	Login int64        `json:"login"`
	Name  string       `json:"name"`
	Group string       `json:"group"`
	Cells []MatrixCell `json:"cells"`
}

// MatrixView - компактная матрица позиций
type MatrixView struct {
	Symbols   []string    `json:"symbols"`
	Rows      []MatrixRow `json:"rows"`
	MaxAbsLot float64     `json:"max_abs_lot"`
}

// DisplaySymbols возвращает первые MatrixSymbolLimit символов
func DisplaySymbols(symbols []string) []string {
	n := len(symbols)
	if n > MatrixSymbolLimit {
		n = MatrixSymbolLimit
	}
	out := make([]string, n)
	copy(out, symbols[:n])
	return out
}

// ActiveMatrixClients оставляет клиентов, у которых есть ненулевой лот хотя бы
// по одному из symbols, не больше MatrixClientLimit, в исходном порядке
func ActiveMatrixClients(clients []models.PositionMatrixClient, symbols []string) []models.PositionMatrixClient {
	out := make([]models.PositionMatrixClient, 0, MatrixClientLimit)
	for _, c := range clients {
		if !hasPosition(c, symbols) {
			continue
		}
		out = append(out, c)
		if len(out) == MatrixClientLimit {
			break
		}
	}
	return out
}

func hasPosition(c models.PositionMatrixClient, symbols []string) bool {
	for _, s := range symbols {
		if c.NetLot(s) != 0 {
			return true
		}
	}
	return false
}

// BuildPositionMatrix строит матрицу: первые 6 символов, до 12 активных клиентов.
// Интенсивность ячейки нормируется на максимальный |net_lot| среди показанных ячеек.
func BuildPositionMatrix(clients []models.PositionMatrixClient, symbols []string) MatrixView {
	display := DisplaySymbols(symbols)
	active := ActiveMatrixClients(clients, display)

	maxAbs := 0.0
	for _, c := range active {
		for _, s := range display {
			maxAbs = utils.Max(maxAbs, utils.Abs(c.NetLot(s)))
		}
	}

	rows := make([]MatrixRow, 0, len(active))
	for _, c := range active {
		cells := make([]MatrixCell, 0, len(display))
		for _, s := range display {
			cells = append(cells, matrixCell(c, s, maxAbs))
		}
		rows = append(rows, MatrixRow{
			Login: c.Login,
			Name:  displayName(c.Name),
			Group: c.Group,
			Cells: cells,
		})
	}

	return MatrixView{
		Symbols:   display,
		Rows:      rows,
		MaxAbsLot: maxAbs,
	}
}

func matrixCell(c models.PositionMatrixClient, symbol string, maxAbs float64) MatrixCell {
	pos := c.Positions[symbol]
	if pos.NetLot == 0 {
		return MatrixCell{
			Symbol: symbol,
			Label:  "—",
			Empty:  true,
			Color:  StyleOf(VariantNeutral).Color,
		}
	}

	variant := VariantProfit
	if pos.NetLot < 0 {
		variant = VariantLoss
	}
	return MatrixCell{
		Symbol:    symbol,
		NetLot:    pos.NetLot,
		Pnl:       pos.Pnl,
		Label:     signedLot(pos.NetLot),
		Intensity: utils.Ratio(pos.NetLot, maxAbs),
		Color:     StyleOf(variant).Color,
	}
}

// signedLot форматирует лот со знаком: +1.50 / -0.30
func signedLot(lot float64) string {
	if lot > 0 {
		return "+" + utils.FormatNumber(lot)
	}
	return utils.FormatNumber(lot)
}
