// Package dashboard содержит чистые агрегаты представления дашборда.
//
// Все функции пакета зависят только от входных данных (снимка состояния):
// одинаковый вход - одинаковый выход. Пакет не знает про HTTP и опрос бэкенда.
package dashboard

import "riskdash/internal/models"

// Лимиты отображения
const (
	TopClientsLimit   = 8  // строк в списках winners/losers
	HighRiskLimit     = 6  // клиентов в списке high risk
	MatrixSymbolLimit = 6  // столбцов матрицы позиций
	MatrixClientLimit = 12 // строк матрицы позиций
	NOPTableLimit     = 15 // строк таблицы NOP
)

// Variant - вариант оформления значения (карточки, строки, ячейки)
type Variant string

const (
	VariantProfit  Variant = "profit"
	VariantLoss    Variant = "loss"
	VariantWarning Variant = "warning"
	VariantNeutral Variant = "neutral"
	VariantInfo    Variant = "info"
)

// Style - метаданные оформления, которые рендерер применяет как есть
type Style struct {
	Color  string `json:"color"`            // css класс цвета текста
	Border string `json:"border,omitempty"` // css класс рамки (для карточек)
}

var variantStyles = map[Variant]Style{
	VariantProfit:  {Color: "text-profit", Border: "border-profit/20 bg-profit-subtle"},
	VariantLoss:    {Color: "text-loss", Border: "border-loss/20 bg-loss-subtle"},
	VariantWarning: {Color: "text-warning", Border: "border-warning/20"},
	VariantNeutral: {Color: "text-muted-foreground", Border: "border-border"},
	VariantInfo:    {Color: "text-info", Border: "border-info/20"},
}

// StyleOf возвращает оформление варианта (neutral для неизвестного)
func StyleOf(v Variant) Style {
	if s, ok := variantStyles[v]; ok {
		return s
	}
	return variantStyles[VariantNeutral]
}

// SignVariant: неотрицательное значение - profit, отрицательное - loss
func SignVariant(v float64) Variant {
	if v >= 0 {
		return VariantProfit
	}
	return VariantLoss
}

// RiskLevelMeta - оформление уровня риска
type RiskLevelMeta struct {
	Label   string  `json:"label"`
	Icon    string  `json:"icon"`
	Variant Variant `json:"variant"`
}

var riskLevelMeta = map[models.RiskLevel]RiskLevelMeta{
	models.RiskExtreme: {Label: "Extreme", Icon: "🔴", Variant: VariantLoss},
	models.RiskHigh:    {Label: "High", Icon: "🟠", Variant: VariantWarning},
	models.RiskMedium:  {Label: "Medium", Icon: "🟡", Variant: VariantInfo},
	models.RiskLow:     {Label: "Low", Icon: "🟢", Variant: VariantProfit},
	models.RiskNormal:  {Label: "Normal", Icon: "⚪", Variant: VariantNeutral},
}

// RiskMeta возвращает оформление уровня риска
func RiskMeta(level models.RiskLevel) RiskLevelMeta {
	if m, ok := riskLevelMeta[level]; ok {
		return m
	}
	return RiskLevelMeta{Label: string(level), Icon: "⚪", Variant: VariantNeutral}
}

// displayName подставляет прочерк для клиента без имени
func displayName(name string) string {
	if name == "" {
		return "—"
	}
	return name
}
