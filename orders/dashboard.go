package orders

import (
	"sort"
	"time"

	"dokan/models"
)

// StatsWindow resolves the dashboard window: explicit bounds when given,
// otherwise a trailing 7 whole UTC days ending now.
func StatsWindow(from, to *time.Time, now time.Time) (time.Time, time.Time) {
	end := now.UTC()
	if to != nil {
		end = to.UTC()
	}
	start := end.AddDate(0, 0, -6).Truncate(24 * time.Hour)
	if from != nil {
		start = from.UTC()
	}
	return start, end
}

// ComputeStats folds a seller's orders into the dashboard aggregate. The
// orders are assumed to already be filtered to the window; today's sales are
// the subset created on the current UTC date. Zero orders yields zeroed
// stats, not an error.
func ComputeStats(orderList []models.Order, now time.Time) models.DashboardStats {
	stats := models.DashboardStats{
		OrdersByStatus: make(map[string]int64),
		SalesChart:     []models.DailySales{},
	}

	today := now.UTC().Format("2006-01-02")
	perDay := make(map[string]*models.DailySales)

	for _, o := range orderList {
		stats.TotalOrders++
		stats.TotalSales += o.TotalAmount
		stats.OrdersByStatus[o.OrderStatus]++

		date := o.CreatedAt.UTC().Format("2006-01-02")
		if date == today {
			stats.TodaySales += o.TotalAmount
		}

		d, ok := perDay[date]
		if !ok {
			d = &models.DailySales{Date: date}
			perDay[date] = d
		}
		d.Orders++
		d.Revenue += o.TotalAmount
	}

	for _, d := range perDay {
		stats.SalesChart = append(stats.SalesChart, *d)
	}
	sort.Slice(stats.SalesChart, func(i, j int) bool {
		return stats.SalesChart[i].Date < stats.SalesChart[j].Date
	})

	return stats
}
