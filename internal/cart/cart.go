// Package cart holds the client cart state: a product id to quantity mapping.
// Amounts computed here are advisory display values only; the authoritative
// total is always recomputed server-side at checkout.
package cart

import (
	"encoding/json"
	"strconv"
)

// Cart maps product id to quantity. Entries never hold a quantity below one;
// removing an item deletes its key.
type Cart map[int64]int64

// New returns an empty cart.
func New() Cart {
	return make(Cart)
}

// Add increments the quantity for the product, starting from zero for an
// absent key.
func (c Cart) Add(productID int64) {
	c[productID]++
}

// SetQuantity stores an explicit quantity, clamped to a minimum of one.
func (c Cart) SetQuantity(productID, quantity int64) {
	if quantity < 1 {
		quantity = 1
	}
	c[productID] = quantity
}

// Remove deletes the product from the cart.
func (c Cart) Remove(productID int64) {
	delete(c, productID)
}

// Count sums the quantities of all entries.
func (c Cart) Count() int64 {
	var total int64
	for _, qty := range c {
		total += qty
	}
	return total
}

// Amount sums price times quantity over entries present in the supplied
// catalog price snapshot. Entries whose product is missing from the snapshot
// are skipped: the cart may reference products removed from the catalog.
func (c Cart) Amount(prices map[int64]float64) float64 {
	var total float64
	for productID, qty := range c {
		price, ok := prices[productID]
		if !ok {
			continue
		}
		total += price * float64(qty)
	}
	return total
}

// Normalized returns a copy with non-positive quantities dropped. Used before
// persisting a client-supplied mirror, which is not trusted to uphold the
// cart invariants.
func (c Cart) Normalized() Cart {
	out := make(Cart, len(c))
	for productID, qty := range c {
		if qty > 0 {
			out[productID] = qty
		}
	}
	return out
}

// MarshalJSON encodes the cart as an object keyed by decimal product id, the
// shape stored in the user record and exchanged with clients.
func (c Cart) MarshalJSON() ([]byte, error) {
	out := make(map[string]int64, len(c))
	for productID, qty := range c {
		out[strconv.FormatInt(productID, 10)] = qty
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON. Keys that are
// not decimal integers are rejected.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var raw map[string]int64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Cart, len(raw))
	for key, qty := range raw {
		productID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return err
		}
		out[productID] = qty
	}
	*c = out
	return nil
}
