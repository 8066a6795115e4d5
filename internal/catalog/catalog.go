package catalog

// Kind tags the entity variant behind a slug or priority entry.
type Kind string

const (
	KindProduct     Kind = "product"
	KindCategory    Kind = "category"
	KindBrand       Kind = "brand"
	KindSubcategory Kind = "subcategory"
	// KindUnknown marks an entity whose type tag the catalog sent but we do
	// not recognize; such entities are still browsable as generic listings.
	KindUnknown Kind = "unknown"
)

// Product is a catalog product as served by the lookup service.
// JSON tags use camelCase to match the frontend.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Price         float64  `json:"price"`
	SalePrice     *float64 `json:"salePrice,omitempty"`
	StockQuantity int      `json:"stockQuantity"`
	CoverImage    *string  `json:"coverImage,omitempty"`
	SKU           *string  `json:"sku,omitempty"`
	BrandID       string   `json:"brandId,omitempty"`
	CategoryID    string   `json:"categoryId,omitempty"`
	SubCategoryID string   `json:"subCategoryId,omitempty"`
}

// Category groups subcategories; slugs are unique across all entity kinds.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Subcategory lives inside exactly one category.
type Subcategory struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	CategoryID string `json:"categoryId"`
}

// Brand is an independent facet, never nested under a category.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PriorityEntry controls navigation ordering for a taxonomy node.
type PriorityEntry struct {
	ID          string `json:"id"`
	TargetType  Kind   `json:"targetType"`
	TargetID    string `json:"targetId"`
	DisplayName string `json:"displayName"`
	Level       int    `json:"level"`
}

// ClampedLevel bounds the level to [0,10]; out-of-range values from the
// catalog are clamped, not rejected.
func (p PriorityEntry) ClampedLevel() int {
	if p.Level < 0 {
		return 0
	}
	if p.Level > 10 {
		return 10
	}
	return p.Level
}

// TaxonomyNode treats Category, Brand and Subcategory polymorphically.
// ParentCategoryID is set only when Kind is KindSubcategory.
type TaxonomyNode struct {
	Kind             Kind   `json:"kind"`
	ID               string `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	ParentCategoryID string `json:"parentCategoryId,omitempty"`
	Level            int    `json:"level"`
}

// Item is the raw payload of GET /item/{slug}: a type tag plus the union of
// entity fields. The resolver narrows it into a Product or TaxonomyNode.
type Item struct {
	Type          string   `json:"type"`
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Price         float64  `json:"price,omitempty"`
	SalePrice     *float64 `json:"salePrice,omitempty"`
	StockQuantity int      `json:"stockQuantity,omitempty"`
	CoverImage    *string  `json:"coverImage,omitempty"`
	SKU           *string  `json:"sku,omitempty"`
	BrandID       string   `json:"brandId,omitempty"`
	CategoryID    string   `json:"categoryId,omitempty"`
	SubCategoryID string   `json:"subCategoryId,omitempty"`
}

// Product converts the item payload into a product entity.
func (it *Item) Product() *Product {
	return &Product{
		ID:            it.ID,
		Name:          it.Name,
		Slug:          it.Slug,
		Price:         it.Price,
		SalePrice:     it.SalePrice,
		StockQuantity: it.StockQuantity,
		CoverImage:    it.CoverImage,
		SKU:           it.SKU,
		BrandID:       it.BrandID,
		CategoryID:    it.CategoryID,
		SubCategoryID: it.SubCategoryID,
	}
}

// Node converts the item payload into a taxonomy node of the given kind.
func (it *Item) Node(kind Kind) *TaxonomyNode {
	n := &TaxonomyNode{
		Kind: kind,
		ID:   it.ID,
		Name: it.Name,
		Slug: it.Slug,
	}
	if kind == KindSubcategory {
		n.ParentCategoryID = it.CategoryID
	}
	return n
}
