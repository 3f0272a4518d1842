package viewmodel

import (
	"encoding/json"
	"testing"

	"shop-admin/internal/domain"
	"shop-admin/internal/service"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDashboard_EmptyChartsEncodeAsArrays(t *testing.T) {
	report := &service.DashboardReport{
		Sources: map[string]domain.DataSource{"products": domain.SourceLive},
	}

	out, err := json.Marshal(NewDashboard(report, true))
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &payload))
	assert.JSONEq(t, `[]`, string(payload["revenue_chart"]))
	assert.JSONEq(t, `[]`, string(payload["category_chart"]))
	assert.JSONEq(t, `[]`, string(payload["recent_orders"]))
	assert.JSONEq(t, `true`, string(payload["category_refreshing"]))
	assert.JSONEq(t, `{"products":"live"}`, string(payload["sources"]))
	assert.Contains(t, payload, "overview")
}

// Property: every product row shows exactly the image PrimaryImage resolves
func TestProperty_ProductListingResolvesOneImage(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("display image is the first primary or the first image", prop.ForAll(
		func(flags []bool) bool {
			product := domain.Product{ID: 1}
			for i, flag := range flags {
				product.Images = append(product.Images, domain.ProductImage{
					ID:        int64(i),
					ImageURL:  string(rune('a' + i%26)),
					IsPrimary: flag,
				})
			}

			listing := NewProductListing(service.Result[domain.Product]{
				Records: []domain.Product{product},
				Source:  domain.SourceLive,
			})
			if listing.Total != 1 || len(listing.Items[0].Images) != len(flags) {
				return false
			}

			img, ok := product.PrimaryImage()
			if !ok {
				return listing.Items[0].PrimaryImageURL == ""
			}
			return listing.Items[0].PrimaryImageURL == img.ImageURL
		},
		gen.SliceOfN(5, gen.Bool()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNewListing(t *testing.T) {
	listing := NewListing(service.Result[domain.Order]{Source: domain.SourceLive})
	assert.NotNil(t, listing.Items)
	assert.Zero(t, listing.Total)

	listing = NewListing(service.Result[domain.Order]{
		Records: []domain.Order{{ID: 1}, {ID: 2}},
		Source:  domain.SourceSynthetic,
	})
	assert.Equal(t, 2, listing.Total)
	assert.Equal(t, domain.SourceSynthetic, listing.Source)
}

func TestNewShipping(t *testing.T) {
	overview := &service.ShippingOverview{
		Providers: service.Result[domain.ShippingProvider]{Source: domain.SourceSynthetic},
		Orders:    service.Result[domain.ShippingOrder]{Source: domain.SourceLive},
		Stats: service.ShippingStatsResult{
			Stats:  domain.ShippingStats{TotalShipments: 3},
			Source: domain.SourceLive,
		},
	}

	payload := NewShipping(overview)

	assert.NotNil(t, payload.Providers)
	assert.NotNil(t, payload.Orders)
	assert.Equal(t, 3, payload.Stats.TotalShipments)
	assert.Equal(t, map[string]domain.DataSource{
		"providers": domain.SourceSynthetic,
		"orders":    domain.SourceLive,
		"stats":     domain.SourceLive,
	}, payload.Sources)
}

func TestNewCategoryChart(t *testing.T) {
	chart := NewCategoryChart(nil, domain.SourceSynthetic)
	assert.NotNil(t, chart.Data)
	assert.Equal(t, domain.SourceSynthetic, chart.Source)
}
