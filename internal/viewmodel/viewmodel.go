// Package viewmodel shapes aggregated records into the payloads consumed by
// the dashboard pages. Values stay typed; formatting is left to the client.
package viewmodel

import (
	"shop-admin/internal/domain"
	"shop-admin/internal/service"
)

// Dashboard is the payload of the dashboard page
type Dashboard struct {
	domain.DashboardStats
	Sources            map[string]domain.DataSource `json:"sources"`
	CategoryRefreshing bool                         `json:"category_refreshing"`
}

// NewDashboard assembles the dashboard payload.
func NewDashboard(report *service.DashboardReport, categoryRefreshing bool) Dashboard {
	stats := report.Stats
	if stats.RevenueChart == nil {
		stats.RevenueChart = []domain.RevenuePoint{}
	}
	if stats.CategoryChart == nil {
		stats.CategoryChart = []domain.CategoryShare{}
	}
	if stats.RecentOrders == nil {
		stats.RecentOrders = []domain.RecentOrder{}
	}

	return Dashboard{
		DashboardStats:     stats,
		Sources:            report.Sources,
		CategoryRefreshing: categoryRefreshing,
	}
}

// CategoryChart is the payload of a category distribution refresh
type CategoryChart struct {
	Data   []domain.CategoryShare `json:"data"`
	Source domain.DataSource      `json:"source"`
}

// NewCategoryChart assembles a category distribution payload.
func NewCategoryChart(shares []domain.CategoryShare, source domain.DataSource) CategoryChart {
	if shares == nil {
		shares = []domain.CategoryShare{}
	}
	return CategoryChart{Data: shares, Source: source}
}

// Listing is a page of records
type Listing[T any] struct {
	Items  []T               `json:"items"`
	Total  int               `json:"total"`
	Source domain.DataSource `json:"source"`
}

// NewListing wraps a service result.
func NewListing[T any](result service.Result[T]) Listing[T] {
	items := result.Records
	if items == nil {
		items = []T{}
	}
	return Listing[T]{Items: items, Total: len(items), Source: result.Source}
}

// ProductItem is a product row with its display image resolved
type ProductItem struct {
	domain.Product
	PrimaryImageURL string `json:"primary_image_url"`
}

// NewProductListing resolves exactly one display image per product. The
// product images themselves are not modified.
func NewProductListing(result service.Result[domain.Product]) Listing[ProductItem] {
	items := make([]ProductItem, 0, len(result.Records))
	for _, p := range result.Records {
		item := ProductItem{Product: p}
		if img, ok := p.PrimaryImage(); ok {
			item.PrimaryImageURL = img.ImageURL
		}
		items = append(items, item)
	}
	return Listing[ProductItem]{Items: items, Total: len(items), Source: result.Source}
}

// UserDetail is a single user with its source
type UserDetail struct {
	User   *domain.User      `json:"user"`
	Source domain.DataSource `json:"source"`
}

// NewUserDetail assembles a user payload.
func NewUserDetail(user *domain.User, source domain.DataSource) UserDetail {
	return UserDetail{User: user, Source: source}
}

// Shipping is the payload of the shipments page
type Shipping struct {
	Providers []domain.ShippingProvider    `json:"providers"`
	Orders    []domain.ShippingOrder       `json:"orders"`
	Stats     domain.ShippingStats         `json:"stats"`
	Sources   map[string]domain.DataSource `json:"sources"`
}

// NewShipping assembles the shipments page payload.
func NewShipping(overview *service.ShippingOverview) Shipping {
	providers := overview.Providers.Records
	if providers == nil {
		providers = []domain.ShippingProvider{}
	}
	orders := overview.Orders.Records
	if orders == nil {
		orders = []domain.ShippingOrder{}
	}

	return Shipping{
		Providers: providers,
		Orders:    orders,
		Stats:     overview.Stats.Stats,
		Sources: map[string]domain.DataSource{
			"providers": overview.Providers.Source,
			"orders":    overview.Orders.Source,
			"stats":     overview.Stats.Source,
		},
	}
}

// ShippingStats is the payload of the shipping summary
type ShippingStats struct {
	domain.ShippingStats
	Source domain.DataSource `json:"source"`
}

// NewShippingStats assembles a shipping summary payload.
func NewShippingStats(result service.ShippingStatsResult) ShippingStats {
	return ShippingStats{ShippingStats: result.Stats, Source: result.Source}
}
