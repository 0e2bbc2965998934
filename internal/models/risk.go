package models

// RiskLevel - категория риска клиента, присвоенная моделью бэкенда
type RiskLevel string

// Уровни риска (от максимального к минимальному)
const (
	RiskExtreme RiskLevel = "EXTREME"
	RiskHigh    RiskLevel = "HIGH"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskLow     RiskLevel = "LOW"
	RiskNormal  RiskLevel = "NORMAL"
)

// AllRiskLevels - все уровни в порядке убывания риска
var AllRiskLevels = []RiskLevel{RiskExtreme, RiskHigh, RiskMedium, RiskLow, RiskNormal}

// IsValid проверяет, что уровень входит в известный набор
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskExtreme, RiskHigh, RiskMedium, RiskLow, RiskNormal:
		return true
	}
	return false
}

// IsAlert возвращает true для уровней, которые считаются риск-алертами (EXTREME, HIGH)
func (l RiskLevel) IsAlert() bool {
	return l == RiskExtreme || l == RiskHigh
}

// RiskDistribution - количество клиентов по уровням риска
type RiskDistribution map[RiskLevel]int

// Count возвращает количество клиентов уровня (0 для отсутствующего ключа)
func (d RiskDistribution) Count(level RiskLevel) int {
	if d == nil {
		return 0
	}
	return d[level]
}

// RiskSummary - сводка риск-монитора
type RiskSummary struct {
	TotalClients     int              `json:"total_clients"`
	RiskDistribution RiskDistribution `json:"risk_distribution"`
}

// AlertCount возвращает число риск-алертов: EXTREME + HIGH
func (s *RiskSummary) AlertCount() int {
	if s == nil {
		return 0
	}
	return s.RiskDistribution.Count(RiskExtreme) + s.RiskDistribution.Count(RiskHigh)
}
