package domain

import "github.com/shopspring/decimal"

// ShippingStatus is the shipment state vocabulary.
type ShippingStatus string

const (
	ShippingStatusPending    ShippingStatus = "pending"
	ShippingStatusProcessing ShippingStatus = "processing"
	ShippingStatusInTransit  ShippingStatus = "in_transit"
	ShippingStatusDelivered  ShippingStatus = "delivered"
	ShippingStatusCancelled  ShippingStatus = "cancelled"
	ShippingStatusReturned   ShippingStatus = "returned"
)

// ShippingStatuses lists the known shipment statuses.
var ShippingStatuses = []ShippingStatus{
	ShippingStatusPending,
	ShippingStatusProcessing,
	ShippingStatusInTransit,
	ShippingStatusDelivered,
	ShippingStatusCancelled,
	ShippingStatusReturned,
}

// ShippingProvider is a carrier the shop ships with
type ShippingProvider struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Logo        string          `json:"logo"`
	Active      bool            `json:"active"`
	TrackingURL string          `json:"tracking_url"`
	CostPerKm   decimal.Decimal `json:"cost_per_km"`
	BaseCost    decimal.Decimal `json:"base_cost"`
}

// QuoteCost returns base_cost + distance*cost_per_km.
func (p ShippingProvider) QuoteCost(distanceKm int64) decimal.Decimal {
	return p.BaseCost.Add(p.CostPerKm.Mul(decimal.NewFromInt(distanceKm)))
}

// ShippingOrder is a shipment of an order through a provider
type ShippingOrder struct {
	ID                int64           `json:"id"`
	OrderID           int64           `json:"order_id"`
	CustomerName      string          `json:"customer_name"`
	ShippingAddress   string          `json:"shipping_address"`
	ProviderID        int64           `json:"provider_id"`
	ProviderName      string          `json:"provider_name"`
	TrackingNumber    string          `json:"tracking_number"`
	Status            ShippingStatus  `json:"status"`
	EstimatedDelivery Timestamp       `json:"estimated_delivery"`
	CreatedAt         Timestamp       `json:"created_at"`
	Cost              decimal.Decimal `json:"cost"`
	Weight            float64         `json:"weight"`
	Distance          float64         `json:"distance"`
}

// ShippingStats summarizes a set of shipments
type ShippingStats struct {
	TotalShipments      int             `json:"total_shipments"`
	ShipmentsInTransit  int             `json:"shipments_in_transit"`
	ShipmentsDelivered  int             `json:"shipments_delivered"`
	ShipmentsPending    int             `json:"shipments_pending"`
	AverageDeliveryTime float64         `json:"average_delivery_time"`
	TotalShippingCost   decimal.Decimal `json:"total_shipping_cost"`
}
