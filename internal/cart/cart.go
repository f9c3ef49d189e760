// Package cart models the storefront cart held in a client-side cookie.
package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MaxQuantity caps a single line. The cookie is client-writable, so larger values
// are treated as malformed.
const MaxQuantity = 10_000

// Item is one cart line. The cookie may carry productId and quantity as strings or numbers.
type Item struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type wireItem struct {
	ProductID json.RawMessage `json:"productId"`
	Quantity  json.RawMessage `json:"quantity"`
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var raw wireItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := scalarString(raw.ProductID)
	if err != nil {
		return fmt.Errorf("productId: %w", err)
	}
	qty, err := scalarString(raw.Quantity)
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	n, err := strconv.Atoi(qty)
	if err != nil {
		return fmt.Errorf("quantity %q: %w", qty, err)
	}
	if n > MaxQuantity {
		return fmt.Errorf("quantity %d exceeds %d", n, MaxQuantity)
	}
	i.ProductID = strings.TrimSpace(id)
	i.Quantity = n
	return nil
}

// scalarString reads a JSON string or number as text.
func scalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("missing value")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func (i Item) valid() bool {
	return i.ProductID != "" && i.Quantity > 0 && i.Quantity <= MaxQuantity
}

// Cart is an immutable ordered list of distinct product lines.
type Cart struct {
	items []Item
}

// New builds a cart from items, dropping invalid lines and merging repeated ids.
func New(items ...Item) Cart {
	var c Cart
	for _, item := range items {
		c = c.Add(item)
	}
	return c
}

// Parse decodes a cookie value. Anything unreadable is an empty cart.
func Parse(raw string) Cart {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Cart{}
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return Cart{}
	}
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		var item Item
		if err := json.Unmarshal(entry, &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return New(items...)
}

// Items returns a copy of the lines in cart order.
func (c Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Quantity returns the quantity for productID, or 0.
func (c Cart) Quantity(productID string) int {
	for _, item := range c.items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Add sums the quantity into an existing line or appends a new one. The merged
// quantity is capped at MaxQuantity.
func (c Cart) Add(item Item) Cart {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if !item.valid() {
		return c
	}
	out := c.Items()
	for i := range out {
		if out[i].ProductID == item.ProductID {
			out[i].Quantity = min(out[i].Quantity+item.Quantity, MaxQuantity)
			return Cart{items: out}
		}
	}
	return Cart{items: append(out, item)}
}

// Update replaces the quantity of a line, appending it when absent. A non-positive
// quantity removes the line; one above MaxQuantity leaves the cart unchanged.
func (c Cart) Update(item Item) Cart {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.ProductID == "" {
		return c
	}
	if item.Quantity <= 0 {
		return c.Remove(item.ProductID)
	}
	if item.Quantity > MaxQuantity {
		return c
	}
	out := c.Items()
	for i := range out {
		if out[i].ProductID == item.ProductID {
			out[i].Quantity = item.Quantity
			return Cart{items: out}
		}
	}
	return Cart{items: append(out, item)}
}

func (c Cart) Remove(productID string) Cart {
	productID = strings.TrimSpace(productID)
	out := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		if item.ProductID != productID {
			out = append(out, item)
		}
	}
	return Cart{items: out}
}

// Encode renders the cookie JSON. An empty cart encodes as "[]".
func (c Cart) Encode() (string, error) {
	items := c.items
	if items == nil {
		items = []Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(payload), nil
}

func (c Cart) MarshalJSON() ([]byte, error) {
	encoded, err := c.Encode()
	if err != nil {
		return nil, err
	}
	return []byte(encoded), nil
}
