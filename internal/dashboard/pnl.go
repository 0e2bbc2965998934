package dashboard

import (
	"sort"

	"riskdash/internal/models"
	"riskdash/pkg/utils"
)

// ClientBar - строка списка winners/losers
type ClientBar struct {
	Login    int64   `json:"login"`
	Name     string  `json:"name"`
	Group    string  `json:"group"`
	Pnl      float64 `json:"pnl"`
	PnlLabel string  `json:"pnl_label"`
	BarWidth float64 `json:"bar_width"` // 0..100
	Variant  Variant `json:"variant"`
	Color    string  `json:"color"`
}

// TopClients - панели Top Winners / Top Losers
type TopClients struct {
	Winners []ClientBar `json:"winners"`
	Losers  []ClientBar `json:"losers"`
	MaxAbs  float64     `json:"max_abs"` // знаменатель полос, не меньше 1
}

// TopWinners возвращает клиентов с pnl > 0 в исходном порядке, не больше TopClientsLimit.
// Бэкенд уже отдаёт клиентов по убыванию PNL.
func TopWinners(clients []models.ClientPnL) []models.ClientPnL {
	out := make([]models.ClientPnL, 0, TopClientsLimit)
	for _, c := range clients {
		if c.Pnl > 0 {
			out = append(out, c)
			if len(out) == TopClientsLimit {
				break
			}
		}
	}
	return out
}

// TopLosers возвращает клиентов с pnl < 0 по возрастанию PNL (крупнейший убыток первым),
// не больше TopClientsLimit. Сортировка стабильная.
func TopLosers(clients []models.ClientPnL) []models.ClientPnL {
	out := make([]models.ClientPnL, 0, len(clients))
	for _, c := range clients {
		if c.Pnl < 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pnl < out[j].Pnl
	})
	if len(out) > TopClientsLimit {
		out = out[:TopClientsLimit]
	}
	return out
}

// BuildTopClients строит панели winners/losers.
// Ширина полосы = |pnl| / max(1, max|pnl| по обоим спискам) * 100.
func BuildTopClients(clients []models.ClientPnL) TopClients {
	winners := TopWinners(clients)
	losers := TopLosers(clients)

	maxAbs := 1.0
	for _, c := range winners {
		maxAbs = utils.Max(maxAbs, utils.Abs(c.Pnl))
	}
	for _, c := range losers {
		maxAbs = utils.Max(maxAbs, utils.Abs(c.Pnl))
	}

	return TopClients{
		Winners: clientBars(winners, maxAbs),
		Losers:  clientBars(losers, maxAbs),
		MaxAbs:  maxAbs,
	}
}

func clientBars(clients []models.ClientPnL, maxAbs float64) []ClientBar {
	out := make([]ClientBar, 0, len(clients))
	for _, c := range clients {
		variant := SignVariant(c.Pnl)
		label := utils.FormatCurrencyShort(c.Pnl)
		if c.Pnl > 0 {
			label = "+" + label
		}
		out = append(out, ClientBar{
			Login:    c.Login,
			Name:     displayName(c.Name),
			Group:    c.Group,
			Pnl:      c.Pnl,
			PnlLabel: label,
			BarWidth: utils.Ratio(c.Pnl, maxAbs) * 100,
			Variant:  variant,
			Color:    StyleOf(variant).Color,
		})
	}
	return out
}
