// Package fallback produces synthetic records used when the back office cannot
// supply real ones. Values are random but every field respects the same
// constraints as real data.
package fallback

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"shop-admin/internal/domain"

	"github.com/shopspring/decimal"
)

// MaxAge bounds how far in the past synthetic timestamps may lie.
const MaxAge = 90 * 24 * time.Hour

// Strategy supplies fallback data for each resource type.
type Strategy interface {
	Products(count int) []domain.Product
	Orders(count int) []domain.Order
	Users(count int) []domain.User
	User(id int64) domain.User
	ShippingProviders() []domain.ShippingProvider
	ShippingOrders(count int) []domain.ShippingOrder
	RevenueSeries() []domain.RevenuePoint
	CategoryDistribution() []domain.CategoryShare
}

// Generator is the random Strategy. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator creates a Generator seeded from the runtime random source.
func NewGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewPCG(rand.Uint64(), rand.Uint64()), time.Now)
}

// NewGeneratorWithSource creates a Generator with an explicit random source and
// clock.
func NewGeneratorWithSource(src rand.Source, now func() time.Time) *Generator {
	return &Generator{rnd: rand.New(src), now: now}
}

func (g *Generator) intn(n int) int {
	return g.rnd.IntN(n)
}

func (g *Generator) chance(p float64) bool {
	return g.rnd.Float64() > p
}

func (g *Generator) daysAgo(maxDays int) time.Time {
	return g.now().AddDate(0, 0, -g.intn(maxDays))
}

var brands = []struct {
	id   int64
	name string
}{
	{1, "Sony"},
	{2, "Samsung"},
	{3, "Apple"},
	{4, "LG"},
	{5, "Xiaomi"},
}

// Products generates count catalog products, each with exactly one primary
// image.
func (g *Generator) Products(count int) []domain.Product {
	g.mu.Lock()
	defer g.mu.Unlock()

	categories := domain.CatalogCategories()
	now := domain.NewTimestamp(g.now())
	products := make([]domain.Product, 0, count)

	for i := 0; i < count; i++ {
		category := categories[g.intn(len(categories))]
		brand := brands[g.intn(len(brands))]
		quantity := g.intn(100) + 10
		id := int64(1000 + i)

		product := domain.Product{
			ID:           id,
			Barcode:      fmt.Sprintf("BRC%d", id),
			Name:         fmt.Sprintf("Sản phẩm %d", i+1),
			Description:  fmt.Sprintf("Mô tả chi tiết về sản phẩm %d", i+1),
			Price:        decimal.NewFromInt(int64(g.intn(10000000) + 100000)),
			CategoryID:   category.CatalogID,
			CategoryName: category.Name,
			BrandID:      brand.id,
			BrandName:    brand.name,
			CreatedAt:    now,
			UpdatedAt:    now,
			Quantity:     &quantity,
			Variants:     []domain.ProductVariant{},
			Images: []domain.ProductImage{{
				ID:         int64(i),
				ProductID:  id,
				ImageURL:   fmt.Sprintf("https://picsum.photos/400/300?random=%d", i),
				IsPrimary:  true,
				UploadDate: now,
			}},
		}
		product.SyncStock()
		products = append(products, product)
	}

	return products
}

// Orders generates count orders created within the last 60 days.
func (g *Generator) Orders(count int) []domain.Order {
	g.mu.Lock()
	defer g.mu.Unlock()

	orders := make([]domain.Order, 0, count)
	for i := 0; i < count; i++ {
		orders = append(orders, domain.Order{
			ID:           int64(10000 + i),
			UserID:       int64(100 + g.intn(20)),
			CustomerName: fmt.Sprintf("Khách hàng %d", i+1),
			TotalAmount:  decimal.NewFromInt(int64(g.intn(5000000) + 200000)),
			Status:       domain.OrderStatuses[g.intn(len(domain.OrderStatuses))],
			CreatedAt:    domain.NewTimestamp(g.daysAgo(60)),
		})
	}
	return orders
}

// Users generates count users registered within the last 60 days.
func (g *Generator) Users(count int) []domain.User {
	g.mu.Lock()
	defer g.mu.Unlock()

	users := make([]domain.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, g.user(int64(100+i), i+1, g.daysAgo(60)))
	}
	return users
}

// User generates a stand-in user carrying id.
func (g *Generator) User(id int64) domain.User {
	g.mu.Lock()
	defer g.mu.Unlock()

	created := g.now().Add(-time.Duration(g.rnd.Int64N(int64(MaxAge))))
	return g.user(id, int(id), created)
}

func (g *Generator) user(id int64, n int, created time.Time) domain.User {
	fullName := fmt.Sprintf("Người dùng %d", n)
	user := domain.User{
		ID:        id,
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@example.com", n),
		FullName:  &fullName,
		IsActive:  g.chance(0.1),
		CreatedAt: domain.NewTimestamp(created),
	}

	if g.chance(0.3) {
		avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%d", id)
		user.AvatarURL = &avatar
	}
	if g.chance(0.2) {
		phone := fmt.Sprintf("090%d", 1000000+g.intn(9000000))
		user.PhoneNumber = &phone
	}
	if g.chance(0.2) {
		login := g.daysAgo(30)
		if login.Before(created) {
			login = created
		}
		lastLogin := domain.NewTimestamp(login)
		user.LastLogin = &lastLogin
	}

	return user
}

// ShippingProviders returns the fixed carrier list.
func (g *Generator) ShippingProviders() []domain.ShippingProvider {
	return defaultProviders()
}

func defaultProviders() []domain.ShippingProvider {
	provider := func(id int64, name, tracking string, active bool, perKm, base int64) domain.ShippingProvider {
		return domain.ShippingProvider{
			ID:          id,
			Name:        name,
			Logo:        fmt.Sprintf("https://picsum.photos/100/100?random=%d", id),
			Active:      active,
			TrackingURL: tracking,
			CostPerKm:   decimal.NewFromInt(perKm),
			BaseCost:    decimal.NewFromInt(base),
		}
	}

	return []domain.ShippingProvider{
		provider(1, "Giao Hàng Nhanh", "https://ghn.vn/tracking?code=", true, 5000, 15000),
		provider(2, "Giao Hàng Tiết Kiệm", "https://ghtk.vn/tracking?code=", true, 4000, 12000),
		provider(3, "Viettel Post", "https://viettelpost.com.vn/tracking?code=", true, 4500, 13000),
		provider(4, "J&T Express", "https://jtexpress.vn/tracking?code=", true, 5500, 16000),
		provider(5, "Vietnam Post", "https://www.vnpost.vn/tracking?code=", false, 3500, 10000),
	}
}

var cities = []string{
	"Hà Nội", "TP Hồ Chí Minh", "Đà Nẵng", "Hải Phòng", "Cần Thơ",
	"Biên Hòa", "Nha Trang", "Huế", "Hạ Long", "Đà Lạt",
}

// ShippingOrders generates count shipments created within the last 30 days,
// each delivered 1 to 7 days after creation and priced by its provider.
func (g *Generator) ShippingOrders(count int) []domain.ShippingOrder {
	g.mu.Lock()
	defer g.mu.Unlock()

	providers := defaultProviders()
	shipments := make([]domain.ShippingOrder, 0, count)

	for i := 0; i < count; i++ {
		created := g.daysAgo(30)
		estimated := created.AddDate(0, 0, g.intn(7)+1)
		provider := providers[g.intn(len(providers))]
		distance := int64(g.intn(100) + 5)
		weight := g.intn(10) + 1

		shipments = append(shipments, domain.ShippingOrder{
			ID:                int64(5000 + i),
			OrderID:           int64(10000 + g.intn(1000)),
			CustomerName:      fmt.Sprintf("Khách hàng %d", i+1),
			ShippingAddress:   fmt.Sprintf("%d Đường %d, %s", g.intn(100)+1, g.intn(50)+1, cities[g.intn(len(cities))]),
			ProviderID:        provider.ID,
			ProviderName:      provider.Name,
			TrackingNumber:    fmt.Sprintf("TRK%d", 100000+g.intn(900000)),
			Status:            domain.ShippingStatuses[g.intn(len(domain.ShippingStatuses))],
			EstimatedDelivery: domain.NewTimestamp(estimated),
			CreatedAt:         domain.NewTimestamp(created),
			Cost:              provider.QuoteCost(distance),
			Weight:            float64(weight),
			Distance:          float64(distance),
		})
	}

	return shipments
}

// RevenueSeries returns the twelve-month revenue chart used until a revenue
// history endpoint exists.
func (g *Generator) RevenueSeries() []domain.RevenuePoint {
	monthly := []int64{
		45000000, 52000000, 48000000, 61000000, 55000000, 67000000,
		72000000, 78000000, 69000000, 85000000, 96000000, 120500000,
	}

	series := make([]domain.RevenuePoint, 0, len(monthly))
	for i, revenue := range monthly {
		series = append(series, domain.RevenuePoint{
			Month:   fmt.Sprintf("T%d", i+1),
			Revenue: decimal.NewFromInt(revenue),
		})
	}
	return series
}

// CategoryDistribution returns the default distribution shown when no product
// counts are available.
func (g *Generator) CategoryDistribution() []domain.CategoryShare {
	return DefaultCategoryDistribution()
}

// DefaultCategoryDistribution is the documented 33/24/20/23 split, in
// taxonomy order.
func DefaultCategoryDistribution() []domain.CategoryShare {
	return []domain.CategoryShare{
		{Name: domain.CategoryHealthBeauty, Value: 33},
		{Name: domain.CategoryFashion, Value: 24},
		{Name: domain.CategoryHousehold, Value: 20},
		{Name: domain.CategoryElectronics, Value: 23},
	}
}
