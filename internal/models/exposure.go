package models

// NOPSymbol представляет чистую открытую позицию (NOP) по одному инструменту
type NOPSymbol struct {
	Symbol        string  `json:"symbol"`
	NetLot        float64 `json:"net_lot"`        // чистый объём в лотах (знак = направление)
	NetPnl        float64 `json:"net_pnl"`        // PNL по инструменту
	PositionCount int     `json:"position_count"` // количество открытых позиций
}

// NOPTotals представляет агрегат по всем инструментам
type NOPTotals struct {
	TotalNetPnl    float64 `json:"total_net_pnl"`
	TotalPositions int     `json:"total_positions"`
	SymbolCount    int     `json:"symbol_count"`
}

// NOPSummary - ответ эндпоинта /api/nop/summary
type NOPSummary struct {
	Symbols []NOPSymbol `json:"data"`
	Totals  NOPTotals   `json:"totals"`
}

// MatrixPosition - позиция клиента по одному символу в матрице
type MatrixPosition struct {
	NetLot float64 `json:"net_lot"`
	Pnl    float64 `json:"pnl"`
}

// PositionMatrixClient - строка матрицы позиций: клиент и его позиции по символам (разреженно)
type PositionMatrixClient struct {
	Login     int64                     `json:"login"`
	Name      string                    `json:"name"`
	Group     string                    `json:"group"`
	Positions map[string]MatrixPosition `json:"positions"`
}

// NetLot возвращает объём по символу (0, если позиции нет)
func (c PositionMatrixClient) NetLot(symbol string) float64 {
	if c.Positions == nil {
		return 0
	}
	return c.Positions[symbol].NetLot
}

// PositionMatrix - ответ эндпоинта /api/position-matrix
type PositionMatrix struct {
	Clients []PositionMatrixClient `json:"data"`
	Symbols []string               `json:"symbols"`
}
