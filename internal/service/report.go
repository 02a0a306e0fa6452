package service

import (
	"fmt"
	"sort"

	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
)

const (
	salesSeriesLength = 14
	topItemsLimit     = 3
)

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type SalesPoint struct {
	Label   string `json:"label"`
	OrderID string `json:"order_id"`
	Total   int64  `json:"total"`
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	Revenue         int64           `json:"revenue"`
	TotalOrders     int             `json:"total_orders"`
	CompletedOrders int             `json:"completed_orders"`
	UnpaidOrders    int             `json:"unpaid_orders"`
	LowStockItems   int             `json:"low_stock_items"`
	AverageRating   float64         `json:"average_rating"`
	Categories      []CategoryCount `json:"categories"`
	Sales           []SalesPoint    `json:"sales"`
}

type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProfileStats summarises a customer's own history.
type ProfileStats struct {
	User          state.User  `json:"user"`
	TotalSpending int64       `json:"total_spending"`
	TotalOrders   int         `json:"total_orders"`
	TopItems      []ItemCount `json:"top_items"`
}

// ReportService computes aggregate figures over the current state.
type ReportService struct {
	app *state.App
}

func NewReportService(app *state.App) *ReportService {
	return &ReportService{app: app}
}

// Dashboard computes the admin overview. Revenue counts PAID orders only.
func (s *ReportService) Dashboard(actor state.User) (DashboardStats, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{Categories: []CategoryCount{}, Sales: []SalesPoint{}}
	s.app.View(func(d *state.Data) {
		stats.TotalOrders = len(d.Orders)
		for _, o := range d.Orders {
			if o.PaymentStatus == enum.PaymentStatusPaid {
				stats.Revenue += o.Total
			}
			if o.PaymentStatus == enum.PaymentStatusUnpaid {
				stats.UnpaidOrders++
			}
			if o.Status == enum.OrderStatusCompleted {
				stats.CompletedOrders++
			}
		}

		idx := make(map[string]int)
		for _, item := range d.Menu {
			i, ok := idx[item.Category]
			if !ok {
				i = len(stats.Categories)
				idx[item.Category] = i
				stats.Categories = append(stats.Categories, CategoryCount{Category: item.Category})
			}
			stats.Categories[i].Count++
		}

		start := max(0, len(d.Orders)-salesSeriesLength)
		for i, o := range d.Orders[start:] {
			stats.Sales = append(stats.Sales, SalesPoint{
				Label:   fmt.Sprintf("Day %d", i+1),
				OrderID: o.ID,
				Total:   o.Total,
			})
		}

		for _, item := range d.Inventory {
			if item.IsLow() {
				stats.LowStockItems++
			}
		}

		if len(d.Reviews) > 0 {
			sum := 0
			for _, r := range d.Reviews {
				sum += r.Rating
			}
			stats.AverageRating = float64(sum) / float64(len(d.Reviews))
		}
	})
	return stats, nil
}

// Profile computes the actor's spending (PAID orders), order count and the
// menu items that appear in the most orders.
func (s *ReportService) Profile(actor state.User) (ProfileStats, error) {
	if err := authorize(actor, enum.UserRoleCustomer); err != nil {
		return ProfileStats{}, err
	}

	stats := ProfileStats{User: actor, TopItems: []ItemCount{}}
	var counts []ItemCount
	idx := make(map[string]int)
	s.app.View(func(d *state.Data) {
		for _, o := range d.Orders {
			if o.CustomerID != actor.ID {
				continue
			}
			stats.TotalOrders++
			if o.PaymentStatus == enum.PaymentStatusPaid {
				stats.TotalSpending += o.Total
			}
			for _, l := range o.Items {
				i, ok := idx[l.Name]
				if !ok {
					i = len(counts)
					idx[l.Name] = i
					counts = append(counts, ItemCount{Name: l.Name})
				}
				counts[i].Count++
			}
		}
	})

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > topItemsLimit {
		counts = counts[:topItemsLimit]
	}
	stats.TopItems = append(stats.TopItems, counts...)
	return stats, nil
}
