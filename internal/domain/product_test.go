package domain

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestProduct_SyncStock(t *testing.T) {
	tests := []struct {
		name     string
		product  Product
		expected int
	}{
		{"quantity only", Product{Quantity: intPtr(7)}, 7},
		{"legacy stock only", Product{Stock: intPtr(4)}, 4},
		{"quantity wins", Product{Quantity: intPtr(3), Stock: intPtr(9)}, 3},
		{"neither", Product{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.product
			p.SyncStock()

			require.NotNil(t, p.Quantity)
			require.NotNil(t, p.Stock)
			assert.Equal(t, tt.expected, *p.Quantity)
			assert.Equal(t, tt.expected, *p.Stock)
			assert.Equal(t, tt.expected, p.OnHand())
		})
	}
}

func TestProduct_SyncStockDoesNotAlias(t *testing.T) {
	p := Product{Quantity: intPtr(5)}
	p.SyncStock()

	*p.Stock = 99
	assert.Equal(t, 5, *p.Quantity)
}

// Property: exactly one display image is resolved whenever a product has images
func TestProperty_PrimaryImageResolution(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("first flagged image wins, otherwise the first image", prop.ForAll(
		func(flags []bool) bool {
			p := Product{}
			for i, flag := range flags {
				p.Images = append(p.Images, ProductImage{ID: int64(i), IsPrimary: flag})
			}
			before := append([]ProductImage(nil), p.Images...)

			img, ok := p.PrimaryImage()
			if len(flags) == 0 {
				return !ok
			}

			want := int64(0)
			for i, flag := range flags {
				if flag {
					want = int64(i)
					break
				}
			}

			for i := range before {
				if before[i] != p.Images[i] {
					return false
				}
			}
			return ok && img.ID == want
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProduct_JSONMoneyAsNumber(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"product_name":"Tai nghe","price":1250000.5,"quantity":2,"variants":[],"images":[]}`), &p))

	assert.Equal(t, "1250000.5", p.Price.String())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price":1250000.5`)
}

func TestStaticCategories(t *testing.T) {
	categories := StaticCategories()
	require.Len(t, categories, 4)

	catalog := CatalogCategories()
	require.Len(t, catalog, 4)
	for i := range categories {
		assert.Equal(t, categories[i].Name, catalog[i].Name)
	}
}
