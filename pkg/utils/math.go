package utils

import (
	"math"
)

// math.go - математические утилиты для агрегатов дашборда
//
// Назначение:
// Безопасное деление, проценты и масштабирование для полос и интенсивности ячеек.
// Все функции являются чистыми (pure functions) без побочных эффектов.

// SafeDenominator возвращает знаменатель не меньше floor.
//
// Используется везде, где знаменатель приходит с бэкенда и может быть нулём:
// общее число клиентов, максимальный |PnL| в списке.
//
// Примеры:
//   - SafeDenominator(0, 1) = 1
//   - SafeDenominator(250, 1) = 250
func SafeDenominator(value, floor float64) float64 {
	if math.IsNaN(value) || value < floor {
		return floor
	}
	return value
}

// Percent возвращает part/total*100 с защитой знаменателя (total >= 1).
//
// Примеры:
//   - Percent(2, 10) = 20
//   - Percent(3, 0) = 300 (знаменатель поднят до 1)
func Percent(part, total float64) float64 {
	return part / SafeDenominator(total, 1) * 100
}

// RoundPercent округляет процент до целого (половина - от нуля)
func RoundPercent(p float64) int {
	return int(math.Round(p))
}

// Ratio возвращает |value|/max в диапазоне [0, 1].
// При max <= 0 возвращает 0.
func Ratio(value, max float64) float64 {
	if max <= 0 || math.IsNaN(max) {
		return 0
	}
	return Clamp(math.Abs(value)/max, 0, 1)
}

// MaxAbs возвращает максимальное абсолютное значение среди values (0 для пустого списка)
func MaxAbs(values ...float64) float64 {
	m := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// Abs возвращает абсолютное значение
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Max возвращает большее из двух значений
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Clamp ограничивает значение диапазоном [min, max]
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
