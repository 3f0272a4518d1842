package domain

import "github.com/shopspring/decimal"

// ProductImage is an image attached to a product
type ProductImage struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	ImageURL   string    `json:"image_url"`
	IsPrimary  bool      `json:"is_primary"`
	UploadDate Timestamp `json:"upload_date"`
}

// ProductVariant is a single attribute/value option of a product
type ProductVariant struct {
	ID            int64           `json:"id"`
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	Value         string          `json:"value"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
}

// Product represents a catalog product as served by the back office.
// Stock is the legacy name of Quantity; both are always equal once the
// record has been normalized.
type Product struct {
	ID           int64            `json:"id"`
	Barcode      string           `json:"barcode"`
	Name         string           `json:"product_name"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	CategoryID   int64            `json:"category_id"`
	CategoryName string           `json:"category_name,omitempty"`
	BrandID      int64            `json:"brand_id"`
	BrandName    string           `json:"brand_name,omitempty"`
	CreatedAt    Timestamp        `json:"created_at"`
	UpdatedAt    Timestamp        `json:"updated_at"`
	Quantity     *int             `json:"quantity"`
	Stock        *int             `json:"stock,omitempty"`
	Variants     []ProductVariant `json:"variants"`
	Images       []ProductImage   `json:"images"`
}

// SyncStock mirrors Quantity into Stock. Records that only carry the legacy
// stock field get Quantity filled from it. Missing values become zero.
func (p *Product) SyncStock() {
	var qty int
	switch {
	case p.Quantity != nil:
		qty = *p.Quantity
	case p.Stock != nil:
		qty = *p.Stock
	}
	p.Quantity = &qty
	stock := qty
	p.Stock = &stock
}

// OnHand returns the quantity on hand.
func (p Product) OnHand() int {
	if p.Quantity != nil {
		return *p.Quantity
	}
	if p.Stock != nil {
		return *p.Stock
	}
	return 0
}

// PrimaryImage picks the image to display: the first image flagged primary,
// otherwise the first image. The product itself is left untouched.
func (p Product) PrimaryImage() (ProductImage, bool) {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0], true
	}
	return ProductImage{}, false
}

// Category represents a product category
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StaticCategories returns the fixed business taxonomy shown by the dashboard.
// It is configuration, never fetched.
func StaticCategories() []Category {
	return []Category{
		{ID: 4, Name: CategoryHealthBeauty, Description: "Sản phẩm chăm sóc sức khỏe và làm đẹp"},
		{ID: 3, Name: CategoryFashion, Description: "Quần áo, giày dép và phụ kiện thời trang"},
		{ID: 2, Name: CategoryHousehold, Description: "Các thiết bị và vật dụng trong gia đình"},
		{ID: 1, Name: CategoryElectronics, Description: "Các sản phẩm điện tử, công nghệ"},
	}
}

const (
	CategoryHealthBeauty = "Sức khỏe & Làm đẹp"
	CategoryFashion      = "Thời trang"
	CategoryHousehold    = "Đồ gia dụng"
	CategoryElectronics  = "Đồ điện tử"
)

// CatalogCategory links a dashboard category to the category id used by the
// product catalog filter.
type CatalogCategory struct {
	CatalogID int64
	Name      string
}

// CatalogCategories lists the four categories in dashboard order with their
// catalog ids.
func CatalogCategories() []CatalogCategory {
	return []CatalogCategory{
		{CatalogID: 23, Name: CategoryHealthBeauty},
		{CatalogID: 17, Name: CategoryFashion},
		{CatalogID: 11, Name: CategoryHousehold},
		{CatalogID: 5, Name: CategoryElectronics},
	}
}
