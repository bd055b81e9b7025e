package services

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/looooooty/basesweb/internal/store"
)

// ShopStats is the read-only staff dashboard aggregation over the shop
// collections the bot writes. This service never mutates those files.
type ShopStats struct {
	OrdersTotal     int     `json:"ordersTotal"`
	OrdersPaid      int     `json:"ordersPaid"`
	OrdersPending   int     `json:"ordersPending"`
	OrdersRefunded  int     `json:"ordersRefunded"`
	GrossSales      float64 `json:"grossSales"`
	CollectedNow    float64 `json:"collectedNow"`
	CreditUsed      float64 `json:"creditUsed"`
	DeliveredToday  int     `json:"deliveredToday"`
	RefundsToday    int     `json:"refundsToday"`
	OpenCarts       int     `json:"openCarts"`
	ProductsTotal   int     `json:"productsTotal"`
	CouponsTotal    int     `json:"couponsTotal"`
	GiveawaysActive int     `json:"giveawaysActive"`
	ShopState       string  `json:"shopState"`
	Scope           string  `json:"scope"`
}

type order struct {
	GuildID      string   `json:"guildId"`
	Status       string   `json:"status"`
	Total        float64  `json:"total"`
	Subtotal     *float64 `json:"subtotal"`
	TaxFees      *float64 `json:"taxFees"`
	GrossTotal   *float64 `json:"grossTotal"`
	CreditUsed   float64  `json:"creditUsed"`
	RefundedAt   string   `json:"refundedAt"`
	DeliveryInfo *struct {
		DeliveredAt string `json:"deliveredAt"`
	} `json:"deliveryInfo"`
}

type giveaway struct {
	GuildID string `json:"guildId"`
	Ended   bool   `json:"ended"`
	EndsAt  string `json:"endsAt"`
}

// StatsService folds the bot's shop collections into dashboard numbers,
// scoped to the configured guild when one is set.
type StatsService struct {
	dataDir string
	guildID string
}

// NewStatsService returns a stats service reading from dir.
func NewStatsService(dir, guildID string) *StatsService {
	return &StatsService{dataDir: dir, guildID: guildID}
}

// Stats computes the dashboard aggregation.
func (s *StatsService) Stats() ShopStats {
	var allOrders []order
	store.ReadInto(filepath.Join(s.dataDir, "orders.json"), &allOrders)

	var products []map[string]any
	store.ReadInto(filepath.Join(s.dataDir, "products.json"), &products)

	coupons := map[string]any{}
	store.ReadInto(filepath.Join(s.dataDir, "coupons.json"), &coupons)

	allGiveaways := map[string]giveaway{}
	store.ReadInto(filepath.Join(s.dataDir, "giveaways.json"), &allGiveaways)

	carts := map[string]map[string]float64{}
	store.ReadInto(filepath.Join(s.dataDir, "carts.json"), &carts)

	cartPanels := map[string]any{}
	store.ReadInto(filepath.Join(s.dataDir, "cart_panels.json"), &cartPanels)

	shopState := struct {
		State string `json:"state"`
	}{State: "open"}
	store.ReadInto(filepath.Join(s.dataDir, "shop_state.json"), &shopState)
	if shopState.State == "" {
		shopState.State = "open"
	}

	orders := allOrders
	if s.guildID != "" {
		orders = orders[:0:0]
		for _, o := range allOrders {
			if o.GuildID == s.guildID {
				orders = append(orders, o)
			}
		}
	}

	now := time.Now().UTC()
	stats := ShopStats{
		OrdersTotal:   len(orders),
		ProductsTotal: len(products),
		CouponsTotal:  len(coupons),
		ShopState:     strings.ToUpper(shopState.State),
		Scope:         "All data",
	}
	if s.guildID != "" {
		stats.Scope = fmt.Sprintf("Guild %s", s.guildID)
	}

	var gross, collected, credit float64
	for _, o := range orders {
		switch o.Status {
		case "PAID", "DELIVERED":
			stats.OrdersPaid++
			gross += orderGross(o)
			collected += o.Total
			credit += o.CreditUsed
		case "PENDING":
			stats.OrdersPending++
		case "REFUNDED":
			stats.OrdersRefunded++
		}
		if o.DeliveryInfo != nil && sameUTCDay(o.DeliveryInfo.DeliveredAt, now) {
			stats.DeliveredToday++
		}
		if sameUTCDay(o.RefundedAt, now) {
			stats.RefundsToday++
		}
	}
	stats.GrossSales = money(gross)
	stats.CollectedNow = money(collected)
	stats.CreditUsed = money(credit)

	for userID, cart := range carts {
		hasItems := false
		for _, qty := range cart {
			if qty > 0 {
				hasItems = true
				break
			}
		}
		if hasItems {
			if _, ok := cartPanels[userID]; ok {
				stats.OpenCarts++
			}
		}
	}

	for _, g := range allGiveaways {
		if s.guildID != "" && g.GuildID != s.guildID {
			continue
		}
		if giveawayActive(g, now) {
			stats.GiveawaysActive++
		}
	}

	return stats
}

// orderGross prefers the stored gross total, then subtotal plus fees, then
// the plain total.
func orderGross(o order) float64 {
	if o.GrossTotal != nil {
		return *o.GrossTotal
	}
	if o.Subtotal != nil && o.TaxFees != nil {
		return *o.Subtotal + *o.TaxFees
	}
	return o.Total
}

func giveawayActive(g giveaway, now time.Time) bool {
	if g.Ended {
		return false
	}
	if g.EndsAt != "" {
		if end, err := time.Parse(time.RFC3339, g.EndsAt); err == nil && !now.Before(end) {
			return false
		}
	}
	return true
}

func sameUTCDay(iso string, now time.Time) bool {
	if iso == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return false
	}
	t = t.UTC()
	return t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day()
}

func money(v float64) float64 {
	return math.Round(v*100) / 100
}
