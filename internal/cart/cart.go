package cart

import (
	"github.com/kritsadas/storefront-backend/internal/catalog"
)

// LineItem is one cart entry: a product id, a quantity, and a snapshot of
// the display fields captured when the product was first added. The snapshot
// is deliberate — later catalog price changes never retroactively alter an
// existing cart entry.
type LineItem struct {
	ProductID  string   `json:"productId"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	SalePrice  *float64 `json:"salePrice,omitempty"`
	CoverImage *string  `json:"coverImage,omitempty"`
	SKU        *string  `json:"sku,omitempty"`
	Quantity   int      `json:"quantity"`
}

// EffectivePrice is the sale price when present, the regular price otherwise.
func (li LineItem) EffectivePrice() float64 {
	if li.SalePrice != nil {
		return *li.SalePrice
	}
	return li.Price
}

// Cart holds an ordered list of line items with exactly one item per product
// id. Insertion order is preserved across mutations except removal. Totals
// are always recomputed from the list on read; there are no incremental
// counters to drift.
type Cart struct {
	items []LineItem
}

func New() *Cart {
	return &Cart{items: make([]LineItem, 0)}
}

// FromItems rebuilds a cart from persisted line items. Duplicate product ids
// from a corrupt or hand-edited store are merged by summing quantities so
// the one-item-per-product invariant holds after load.
func FromItems(items []LineItem) *Cart {
	c := New()
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if i := c.indexOf(it.ProductID); i >= 0 {
			c.items[i].Quantity += it.Quantity
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}

// AddItem increments the quantity when the product is already in the cart,
// otherwise appends a new line item with quantity 1 and a snapshot of the
// product's display fields.
func (c *Cart) AddItem(p catalog.Product) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, snapshot(p))
}

// RemoveItem drops the line item if present; removing an absent id is a
// no-op, so the call is idempotent.
func (c *Cart) RemoveItem(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// SetQuantity sets the quantity on the matching line item. A quantity of
// zero or less removes the item; an absent id is a no-op.
func (c *Cart) SetQuantity(productID string, q int) {
	if q <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.items[i].Quantity = q
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = c.items[:0]
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalItems is the sum of all quantities.
func (c *Cart) TotalItems() int {
	total := 0
	for _, it := range c.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of quantity times effective price over all items.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, it := range c.items {
		total += float64(it.Quantity) * it.EffectivePrice()
	}
	return total
}

func (c *Cart) indexOf(productID string) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// snapshot copies the display fields out of the product. Pointer fields are
// reallocated so the line item never aliases the caller's product value.
func snapshot(p catalog.Product) LineItem {
	li := LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	}
	if p.SalePrice != nil {
		v := *p.SalePrice
		li.SalePrice = &v
	}
	if p.CoverImage != nil {
		v := *p.CoverImage
		li.CoverImage = &v
	}
	if p.SKU != nil {
		v := *p.SKU
		li.SKU = &v
	}
	return li
}
