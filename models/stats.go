package models

// DailySales is one point on the dashboard sales chart, keyed by UTC date
// formatted as 2006-01-02.
type DailySales struct {
	Date    string  `json:"date" bson:"date"`
	Orders  int64   `json:"orders" bson:"orders"`
	Revenue float64 `json:"revenue" bson:"revenue"`
}

// DashboardStats is the seller dashboard aggregate over a date window.
type DashboardStats struct {
	TotalOrders    int64            `json:"totalOrders"`
	TotalSales     float64          `json:"totalSales"`
	TodaySales     float64          `json:"todaySales"`
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	SalesChart     []DailySales     `json:"salesChart"`
}
