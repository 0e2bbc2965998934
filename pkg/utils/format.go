package utils

// format.go - форматирование денежных сумм и чисел для дашборда
//
// Все функции чистые: одинаковый вход - одинаковый выход.
//
// Функции:
// - FormatCurrencyShort: $1.5M / $2.3K / $42 (для KPI карточек)
// - FormatCurrency: $1,234.56 (для детальных панелей)
// - FormatNumber / FormatSignedNumber: 1,234.56 / +1,234.56 (таблицы)
// - FormatCount: 12,345
// - FormatClock: 15:04:05 или --:--:--

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	million  = 1_000_000
	thousand = 1_000

	// шаблон go-humanize: группировка тысяч и два знака после точки
	groupedTwoDecimals = "#,###.##"

	// EmptyClock - отметка времени до первого завершённого цикла
	EmptyClock = "--:--:--"
)

// FormatCurrencyShort сокращает сумму по порядку величины.
//
// Правила:
//   - |v| >= 1 000 000 → $x.xM
//   - |v| >= 1 000     → $x.xK
//   - иначе            → $x (без дробной части)
//
// Знак ставится перед символом валюты.
//
// Примеры:
//   - FormatCurrencyShort(1_500_000) = "$1.5M"
//   - FormatCurrencyShort(2_300) = "$2.3K"
//   - FormatCurrencyShort(42) = "$42"
//   - FormatCurrencyShort(-2_500_000) = "-$2.5M"
func FormatCurrencyShort(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0"
	}

	abs := decimal.NewFromFloat(math.Abs(v))

	var body string
	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(million)):
		body = abs.Div(decimal.NewFromInt(million)).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(thousand)):
		body = abs.Div(decimal.NewFromInt(thousand)).StringFixed(1) + "K"
	default:
		rounded := abs.Round(0)
		if rounded.IsZero() {
			return "$0"
		}
		body = rounded.StringFixed(0)
	}

	if v < 0 {
		return "-$" + body
	}
	return "$" + body
}

// FormatCurrency возвращает полную сумму с группировкой тысяч и двумя знаками: $1,234.56
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0.00"
	}
	body := humanize.FormatFloat(groupedTwoDecimals, math.Abs(v))
	if v < 0 && body != "0.00" {
		return "-$" + body
	}
	return "$" + body
}

// FormatNumber форматирует число с группировкой тысяч и двумя знаками: -1,234.50
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	body := humanize.FormatFloat(groupedTwoDecimals, math.Abs(v))
	if v < 0 && body != "0.00" {
		return "-" + body
	}
	return body
}

// FormatSignedNumber как FormatNumber, но неотрицательные значения получают "+"
func FormatSignedNumber(v float64) string {
	s := FormatNumber(v)
	if v >= 0 && s != "-" {
		return "+" + s
	}
	return s
}

// FormatCount форматирует целое с группировкой тысяч: 12,345
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatClock форматирует время последнего обновления
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return EmptyClock
	}
	return t.Format("15:04:05")
}

// FormatFixed форматирует число с фиксированным числом знаков: FormatFixed(77.46, 1) = "77.5"
func FormatFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
