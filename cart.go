package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

const (
	freeShippingOver = 50
	flatShippingFee  = "5.99"
	taxRate          = "0.08"
)

// CartStore holds the line items for one session and writes the full
// serialized cart to its Storage after every successful mutation. Item
// order is insertion order, which is what the cart page displays.
//
// Mutations commit to memory only after the persisted write succeeds, so a
// reloading page sees either the pre-mutation or the post-mutation cart,
// never half of one.
type CartStore struct {
	mu      sync.Mutex
	storage Storage
	items   []CartItem
}

// NewCartStore loads any previously persisted cart from storage.
func NewCartStore(storage Storage) (*CartStore, error) {
	c := &CartStore{storage: storage}
	raw, ok, err := storage.Get(KeyCartItems)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &c.items); err != nil {
			return nil, fmt.Errorf("parse cart: %w", err)
		}
	}
	return c, nil
}

// Items returns the line items in display order.
func (c *CartStore) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// AddItem puts one unit of the product in the cart. An item already present
// gets its quantity bumped; its snapshot fields stay as they were at first
// insertion even if the catalog price has moved since. Requires an active
// session, otherwise ErrUnauthenticated and no mutation.
func (c *CartStore) AddItem(p Product) error {
	if _, ok := CurrentUser(c.storage); !ok {
		return ErrUnauthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]CartItem, len(c.items))
	copy(next, c.items)

	found := false
	for i := range next {
		if next[i].ID == p.ID {
			next[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		next = append(next, CartItem{Product: p, Quantity: 1})
	}
	return c.commit(next)
}

// UpdateQuantity sets an item's quantity outright. Zero removes the item,
// negative is rejected without touching the cart, and a missing id is a
// no-op.
func (c *CartStore) UpdateQuantity(id string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		return c.RemoveItem(id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]CartItem, len(c.items))
	copy(next, c.items)

	for i := range next {
		if next[i].ID == id {
			next[i].Quantity = quantity
			return c.commit(next)
		}
	}
	return nil
}

// RemoveItem deletes the line item. Removing an id that is not in the cart
// is a no-op, not an error.
func (c *CartStore) RemoveItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]CartItem, 0, len(c.items))
	for _, it := range c.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	if len(next) == len(c.items) {
		return nil
	}
	return c.commit(next)
}

// Clear empties the cart and drops the persisted key.
func (c *CartStore) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.storage.Delete(KeyCartItems); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	c.items = nil
	return nil
}

// commit persists next and only then makes it the in-memory cart.
// Caller holds c.mu.
func (c *CartStore) commit(next []CartItem) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := c.storage.Set(KeyCartItems, string(raw)); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	c.items = next
	return nil
}

// Totals is the order summary shown on the cart page. Recomputed from the
// line items on demand, never stored.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Savings   float64 `json:"savings"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`

	// FreeShippingGap is how much more to spend to qualify for free
	// shipping, zero once qualified.
	FreeShippingGap float64 `json:"freeShippingGap"`
}

// Totals computes the current order summary.
func (c *CartStore) Totals() Totals {
	return ComputeTotals(c.Items())
}

// ComputeTotals sums the cart in exact decimal arithmetic. Shipping is free
// strictly over $50, tax is 8% of the subtotal rounded to cents.
func ComputeTotals(items []CartItem) Totals {
	subtotal := decimal.Zero
	savings := decimal.Zero
	count := 0

	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		price := decimal.NewFromFloat(it.Price)
		subtotal = subtotal.Add(price.Mul(qty))
		if it.OriginalPrice > it.Price {
			was := decimal.NewFromFloat(it.OriginalPrice)
			savings = savings.Add(was.Sub(price).Mul(qty))
		}
		count += it.Quantity
	}

	threshold := decimal.NewFromInt(freeShippingOver)
	shipping := decimal.RequireFromString(flatShippingFee)
	if subtotal.GreaterThan(threshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(decimal.RequireFromString(taxRate)).Round(2)
	total := subtotal.Add(shipping).Add(tax)

	gap := threshold.Sub(subtotal)
	if gap.IsNegative() {
		gap = decimal.Zero
	}

	return Totals{
		Subtotal:        subtotal.InexactFloat64(),
		Savings:         savings.InexactFloat64(),
		Shipping:        shipping.InexactFloat64(),
		Tax:             tax.InexactFloat64(),
		Total:           total.InexactFloat64(),
		ItemCount:       count,
		FreeShippingGap: gap.InexactFloat64(),
	}
}
