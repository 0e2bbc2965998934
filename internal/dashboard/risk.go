package dashboard

import (
	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// bucketLevels - уровни, показываемые полосами распределения
var bucketLevels = []models.RiskLevel{
	models.RiskExtreme,
	models.RiskHigh,
	models.RiskMedium,
	models.RiskLow,
}

// RiskBucket - полоса распределения клиентов по уровню риска
type RiskBucket struct {
	Level    models.RiskLevel `json:"level"`
	Label    string           `json:"label"`
	Icon     string           `json:"icon"`
	Color    string           `json:"color"`
	Count    int              `json:"count"`
	Percent  int              `json:"percent"`   // округлённый процент
	BarWidth float64          `json:"bar_width"` // неокруглённый процент
}

// RiskClientRow - строка списка High Risk Clients
type RiskClientRow struct {
	Login      int64            `json:"login"`
	Name       string           `json:"name"`
	Group      string           `json:"group"`
	Level      models.RiskLevel `json:"level"`
	Icon       string           `json:"icon"`
	Color      string           `json:"color"`
	Score      float64          `json:"score"`
	ScoreLabel string           `json:"score_label"`
	TradeCount int              `json:"trade_count"`
}

// RiskOverview - панель Risk Monitor
type RiskOverview struct {
	Available       bool            `json:"available"` // false до первой успешной загрузки
	TotalClients    int             `json:"total_clients"`
	Alerts          int             `json:"alerts"`
	Buckets         []RiskBucket    `json:"buckets"`
	HighRiskClients []RiskClientRow `json:"high_risk_clients"`
}

// RiskBuckets считает полосы EXTREME/HIGH/MEDIUM/LOW.
//
// percent = round(count / max(total_clients, 1) * 100). Сумма округлённых
// процентов может отличаться от 100. Для nil сводки все счётчики нулевые.
func RiskBuckets(summary *models.RiskSummary) []RiskBucket {
	total := 0
	var dist models.RiskDistribution
	if summary != nil {
		total = summary.TotalClients
		dist = summary.RiskDistribution
	}

	out := make([]RiskBucket, 0, len(bucketLevels))
	for _, level := range bucketLevels {
		meta := RiskMeta(level)
		count := dist.Count(level)
		pct := utils.Percent(float64(count), float64(total))
		out = append(out, RiskBucket{
			Level:    level,
			Label:    meta.Label,
			Icon:     meta.Icon,
			Color:    StyleOf(meta.Variant).Color,
			Count:    count,
			Percent:  utils.RoundPercent(pct),
			BarWidth: utils.Clamp(pct, 0, 100),
		})
	}
	return out
}

// RiskAlerts возвращает число риск-алертов (EXTREME + HIGH)
func RiskAlerts(summary *models.RiskSummary) int {
	return summary.AlertCount()
}

// HighRiskClients возвращает клиентов уровня EXTREME или HIGH в исходном порядке,
// не больше HighRiskLimit
func HighRiskClients(clients []models.RiskClient) []models.RiskClient {
	out := make([]models.RiskClient, 0, HighRiskLimit)
	for _, c := range clients {
		if !c.RiskLevel.IsAlert() {
			continue
		}
		out = append(out, c)
		if len(out) == HighRiskLimit {
			break
		}
	}
	return out
}

// BuildRiskOverview строит панель Risk Monitor
func BuildRiskOverview(summary *models.RiskSummary, clients []models.RiskClient) RiskOverview {
	highRisk := HighRiskClients(clients)
	rows := make([]RiskClientRow, 0, len(highRisk))
	for _, c := range highRisk {
		meta := RiskMeta(c.RiskLevel)
		rows = append(rows, RiskClientRow{
			Login:      c.Login,
			Name:       displayName(c.Name),
			Group:      c.Group,
			Level:      c.RiskLevel,
			Icon:       meta.Icon,
			Color:      StyleOf(meta.Variant).Color,
			Score:      c.TotalScore,
			ScoreLabel: utils.FormatFixed(c.TotalScore, 1),
			TradeCount: c.TradeCount,
		})
	}

	overview := RiskOverview{
		Available:       summary != nil,
		Alerts:          RiskAlerts(summary),
		Buckets:         RiskBuckets(summary),
		HighRiskClients: rows,
	}
	if summary != nil {
		overview.TotalClients = summary.TotalClients
	}
	return overview
}
