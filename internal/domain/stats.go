package domain

import "github.com/shopspring/decimal"

// ProductChangePlaceholder is the product-count change shown on the overview.
// No historical product snapshot exists, so it is not derived.
const ProductChangePlaceholder = 8.2

// StatsOverview holds the four headline metrics and their month-over-month
// change percentages.
type StatsOverview struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	RevenueChange float64         `json:"revenue_change"`
	ProductCount  int             `json:"product_count"`
	ProductChange float64         `json:"product_change"`
	NewOrders     int             `json:"new_orders"`
	OrdersChange  float64         `json:"orders_change"`
	NewUsers      int             `json:"new_users"`
	UsersChange   float64         `json:"users_change"`
}

// RevenuePoint is one month of the revenue chart
type RevenuePoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CategoryShare is one slice of the category distribution chart, in percent
type CategoryShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// RecentOrder is the display projection of an order
type RecentOrder struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	Status       OrderStatus     `json:"status"`
	Total        decimal.Decimal `json:"total"`
	Date         Timestamp       `json:"date"`
}

// DashboardStats is the dashboard view model
type DashboardStats struct {
	Overview      StatsOverview   `json:"overview"`
	RevenueChart  []RevenuePoint  `json:"revenue_chart"`
	CategoryChart []CategoryShare `json:"category_chart"`
	RecentOrders  []RecentOrder   `json:"recent_orders"`
}

// DataSource tells whether a resource came from the API or from fallback data.
type DataSource string

const (
	SourceLive      DataSource = "live"
	SourceSynthetic DataSource = "synthetic"
	SourceStatic    DataSource = "static"
)
