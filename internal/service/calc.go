package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"shop-admin/internal/domain"

	"github.com/shopspring/decimal"
)

// RecentOrdersLimit is the number of orders shown in the recent-orders table.
const RecentOrdersLimit = 5

// MonthWindow identifies a calendar month.
type MonthWindow struct {
	Year  int
	Month time.Month
	loc   *time.Location
}

// CurrentAndPreviousMonth returns the calendar month containing now and the
// one before it, in now's location. January wraps to December of the previous
// year.
func CurrentAndPreviousMonth(now time.Time) (current, previous MonthWindow) {
	loc := now.Location()
	current = MonthWindow{Year: now.Year(), Month: now.Month(), loc: loc}
	if now.Month() == time.January {
		previous = MonthWindow{Year: now.Year() - 1, Month: time.December, loc: loc}
	} else {
		previous = MonthWindow{Year: now.Year(), Month: now.Month() - 1, loc: loc}
	}
	return current, previous
}

// Contains reports whether t falls inside the month.
func (w MonthWindow) Contains(t time.Time) bool {
	if w.loc != nil {
		t = t.In(w.loc)
	}
	return t.Year() == w.Year && t.Month() == w.Month
}

// PartitionByMonth splits records into those created in the current month and
// those created in the previous month. Anything else is dropped.
func PartitionByMonth[T any](records []T, createdAt func(T) time.Time, now time.Time) (current, previous []T) {
	currentMonth, previousMonth := CurrentAndPreviousMonth(now)
	for _, record := range records {
		at := createdAt(record)
		switch {
		case currentMonth.Contains(at):
			current = append(current, record)
		case previousMonth.Contains(at):
			previous = append(previous, record)
		}
	}
	return current, previous
}

// ChangePercent returns the period-over-period change rounded to one decimal.
// A zero previous value yields exactly 100.
func ChangePercent(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 100
	}
	return domain.Round1(current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)))
}

func countChange(current, previous int) float64 {
	return ChangePercent(decimal.NewFromInt(int64(current)), decimal.NewFromInt(int64(previous)))
}

func orderCreatedAt(o domain.Order) time.Time { return o.CreatedAt.Time }

func userCreatedAt(u domain.User) time.Time { return u.CreatedAt.Time }

func sumTotals(orders []domain.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}
	return total
}

// CalculateOverview derives the headline metrics.
func CalculateOverview(now time.Time, products []domain.Product, orders []domain.Order, users []domain.User) domain.StatsOverview {
	currentOrders, previousOrders := PartitionByMonth(orders, orderCreatedAt, now)
	currentUsers, previousUsers := PartitionByMonth(users, userCreatedAt, now)

	return domain.StatsOverview{
		TotalRevenue:  sumTotals(orders),
		RevenueChange: ChangePercent(sumTotals(currentOrders), sumTotals(previousOrders)),
		ProductCount:  len(products),
		ProductChange: domain.ProductChangePlaceholder,
		NewOrders:     len(currentOrders),
		OrdersChange:  countChange(len(currentOrders), len(previousOrders)),
		NewUsers:      len(currentUsers),
		UsersChange:   countChange(len(currentUsers), len(previousUsers)),
	}
}

// MonthlyRevenue sums order totals per calendar month of now's year, labelled
// T1 to T12.
func MonthlyRevenue(now time.Time, orders []domain.Order) []domain.RevenuePoint {
	series := make([]domain.RevenuePoint, 12)
	for i := range series {
		series[i] = domain.RevenuePoint{Month: fmt.Sprintf("T%d", i+1), Revenue: decimal.Zero}
	}

	for _, o := range orders {
		at := o.CreatedAt.In(now.Location())
		if at.Year() != now.Year() {
			continue
		}
		idx := int(at.Month()) - 1
		series[idx].Revenue = series[idx].Revenue.Add(o.TotalAmount)
	}
	return series
}

// CategoryCount is the number of catalog products in one category.
type CategoryCount struct {
	Name  string
	Count int
}

// CategoryDistribution converts counts into integer percentages sorted in
// descending order. When there is nothing to count the default distribution
// is returned as is.
func CategoryDistribution(counts []CategoryCount, defaults []domain.CategoryShare) []domain.CategoryShare {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return append([]domain.CategoryShare(nil), defaults...)
	}

	shares := make([]domain.CategoryShare, 0, len(counts))
	for _, c := range counts {
		shares = append(shares, domain.CategoryShare{
			Name:  c.Name,
			Value: int(math.Floor(float64(c.Count)*100/float64(total) + 0.5)),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Value > shares[j].Value
	})
	return shares
}

// FormatRecentOrders returns the newest orders projected for display. The
// input slice is not reordered.
func FormatRecentOrders(orders []domain.Order) []domain.RecentOrder {
	sorted := append([]domain.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt.Time)
	})
	if len(sorted) > RecentOrdersLimit {
		sorted = sorted[:RecentOrdersLimit]
	}

	recent := make([]domain.RecentOrder, 0, len(sorted))
	for _, o := range sorted {
		name := o.CustomerName
		if name == "" {
			name = fmt.Sprintf("User %d", o.UserID)
		}
		recent = append(recent, domain.RecentOrder{
			ID:           o.ID,
			CustomerName: name,
			Status:       o.Status,
			Total:        o.TotalAmount,
			Date:         o.CreatedAt,
		})
	}
	return recent
}

// ComputeShippingStats summarizes shipments. The average delivery time only
// covers delivered shipments and is 0 when there are none.
func ComputeShippingStats(shipments []domain.ShippingOrder) domain.ShippingStats {
	stats := domain.ShippingStats{
		TotalShipments:    len(shipments),
		TotalShippingCost: decimal.Zero,
	}

	totalDays := 0
	delivered := 0
	for _, s := range shipments {
		stats.TotalShippingCost = stats.TotalShippingCost.Add(s.Cost)

		switch s.Status {
		case domain.ShippingStatusInTransit:
			stats.ShipmentsInTransit++
		case domain.ShippingStatusDelivered:
			stats.ShipmentsDelivered++
			delivered++
			totalDays += int(math.Floor(s.EstimatedDelivery.Sub(s.CreatedAt.Time).Hours() / 24))
		case domain.ShippingStatusPending, domain.ShippingStatusProcessing:
			stats.ShipmentsPending++
		}
	}

	if delivered > 0 {
		avg := decimal.NewFromInt(int64(totalDays)).Div(decimal.NewFromInt(int64(delivered)))
		stats.AverageDeliveryTime = domain.Round1(avg)
	}

	return stats
}
