package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"shop-admin/internal/domain"
	"shop-admin/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const providersJSON = `{"data":[
	{"id":1,"name":"Giao Hàng Nhanh","logo":"","active":true,"tracking_url":"https://ghn.vn/tracking?code=","cost_per_km":5000,"base_cost":15000}
]}`

const shipmentsJSON = `[
	{"id":1,"order_id":10,"customer_name":"A","provider_id":1,"provider_name":"Giao Hàng Nhanh","tracking_number":"TRK1","status":"delivered","estimated_delivery":"2025-03-04T00:00:00Z","created_at":"2025-03-01T00:00:00Z","cost":65000,"weight":2,"distance":10}
]`

func newTestShippingService(fetcher upstream.Fetcher, opts Options) ShippingService {
	return NewShippingService(fetcher, newTestGenerator(), opts, zap.NewNop())
}

func shippingBackOffice(path string, q upstream.Query) ([]byte, error) {
	switch path {
	case upstream.ShippingProvidersPath:
		return []byte(providersJSON), nil
	case upstream.ShippingOrdersPath:
		return []byte(shipmentsJSON), nil
	case upstream.ShippingStatsPath:
		return []byte(`{"total_shipments":9,"shipments_in_transit":2,"shipments_delivered":5,"shipments_pending":2,"average_delivery_time":2.4,"total_shipping_cost":450000}`), nil
	}
	return nil, statusErr(path, http.StatusNotFound)
}

func TestShippingService_Live(t *testing.T) {
	svc := newTestShippingService(newMockFetcher(shippingBackOffice), Options{})
	ctx := context.Background()

	providers, err := svc.GetShippingProviders(ctx, testAuth)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceLive, providers.Source)
	require.Len(t, providers.Records, 1)
	assert.Equal(t, "65000", providers.Records[0].QuoteCost(10).String())

	orders, err := svc.GetShippingOrders(ctx, testAuth, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceLive, orders.Source)
	require.Len(t, orders.Records, 1)
	assert.Equal(t, domain.ShippingStatusDelivered, orders.Records[0].Status)

	stats, err := svc.GetShippingStats(ctx, testAuth)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceLive, stats.Source)
	assert.Equal(t, 9, stats.Stats.TotalShipments)
	assert.Equal(t, 2.4, stats.Stats.AverageDeliveryTime)
}

func TestShippingService_EmptyResultPolicy(t *testing.T) {
	svc := newTestShippingService(newMockFetcher(func(path string, q upstream.Query) ([]byte, error) {
		return []byte(`{"items":[]}`), nil
	}), Options{})
	ctx := context.Background()

	providers, err := svc.GetShippingProviders(ctx, testAuth)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSynthetic, providers.Source)
	assert.Len(t, providers.Records, 5)

	orders, err := svc.GetShippingOrders(ctx, testAuth, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceLive, orders.Source)
	assert.Empty(t, orders.Records)
}

func TestShippingService_Fallback(t *testing.T) {
	svc := newTestShippingService(newMockFetcher(func(path string, q upstream.Query) ([]byte, error) {
		return nil, &upstream.NetworkError{Method: http.MethodGet, Path: path, Err: errors.New("timeout")}
	}), Options{})
	ctx := context.Background()

	orders, err := svc.GetShippingOrders(ctx, testAuth, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSynthetic, orders.Source)
	assert.Len(t, orders.Records, 20)

	stats, err := svc.GetShippingStats(ctx, testAuth)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSynthetic, stats.Source)
	assert.Equal(t, 100, stats.Stats.TotalShipments)
	assert.GreaterOrEqual(t, stats.Stats.AverageDeliveryTime, 1.0)
	assert.LessOrEqual(t, stats.Stats.AverageDeliveryTime, 7.0)
}

func TestShippingService_LiveModeSurfacesFailures(t *testing.T) {
	svc := newTestShippingService(newMockFetcher(func(path string, q upstream.Query) ([]byte, error) {
		return nil, statusErr(path, http.StatusBadGateway)
	}), Options{Mode: ModeLive})

	_, err := svc.GetShippingStats(context.Background(), testAuth)
	assert.Error(t, err)

	_, err = svc.GetShippingOverview(context.Background(), testAuth, 10)
	assert.Error(t, err)
}

func TestShippingService_Overview(t *testing.T) {
	fetcher := newMockFetcher(shippingBackOffice)
	svc := newTestShippingService(fetcher, Options{})

	overview, err := svc.GetShippingOverview(context.Background(), testAuth, DefaultShippingOrderLimit)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceLive, overview.Providers.Source)
	assert.Equal(t, domain.SourceLive, overview.Orders.Source)
	assert.Equal(t, domain.SourceLive, overview.Stats.Source)
	assert.Equal(t, 3, fetcher.callCount())
}

func TestShippingService_SyntheticMode(t *testing.T) {
	fetcher := newMockFetcher(shippingBackOffice)
	svc := newTestShippingService(fetcher, Options{Mode: ModeSynthetic})

	overview, err := svc.GetShippingOverview(context.Background(), testAuth, 10)
	require.NoError(t, err)

	assert.Zero(t, fetcher.callCount())
	assert.Len(t, overview.Orders.Records, 10)
	assert.Equal(t, domain.SourceSynthetic, overview.Stats.Source)
}
