// Package cart holds the client-session shopping cart: an ordered set of
// product snapshots with quantities, mutated only through Add, Remove and
// Clear. Commands are pure; each returns a new Cart value so observers of
// a previous value never see it change underneath them.
package cart

import "storefront/internal/domain"

// Item is a product snapshot plus quantity. The snapshot is copied when
// the product is first added and never re-synced with the catalog.
type Item struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Price    float64        `json:"price"`
	Image    string         `json:"image,omitempty"`
	Category string         `json:"category,omitempty"`
	Rating   *domain.Rating `json:"rating,omitempty"`
	Quantity int            `json:"quantity"`
}

// Subtotal is price times quantity for this line.
func (i Item) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is an ordered collection of items, at most one per product id.
// The zero value is an empty cart.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// Add increments the quantity of an existing line with the product's id,
// leaving the rest of the line untouched, or appends a new line with
// quantity 1 copied from the product. Insertion order is preserved.
func (c Cart) Add(p domain.Product) Cart {
	items := c.copyItems()
	for i := range items {
		if items[i].ID == p.ID {
			items[i].Quantity++
			return Cart{items: items}
		}
	}
	var rating *domain.Rating
	if p.Rating != nil {
		r := *p.Rating
		rating = &r
	}
	items = append(items, Item{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Category: p.Category,
		Rating:   rating,
		Quantity: 1,
	})
	return Cart{items: items}
}

// Remove drops the line with the given product id. Removing an id that is
// not in the cart is a no-op; remaining lines keep their order.
func (c Cart) Remove(id string) Cart {
	items := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != id {
			items = append(items, it)
		}
	}
	return Cart{items: items}
}

// Clear discards all items unconditionally.
func (c Cart) Clear() Cart {
	return Cart{}
}

// Items returns a copy of the lines in insertion order.
func (c Cart) Items() []Item {
	return c.copyItems()
}

// Len is the number of distinct lines.
func (c Cart) Len() int {
	return len(c.items)
}

// ItemCount is the sum of quantities across all lines. It is recomputed
// from the items on every call, never cached.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Total is the sum of price*quantity across all lines, recomputed on every
// call.
func (c Cart) Total() float64 {
	var sum float64
	for _, it := range c.items {
		sum += it.Subtotal()
	}
	return sum
}

func (c Cart) copyItems() []Item {
	items := make([]Item, len(c.items))
	copy(items, c.items)
	return items
}
