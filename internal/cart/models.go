package cart

import "strings"

// VariantKey is the selected variant of a product. Color and Size take part
// in line identity; SKU is informational.
type VariantKey struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
	SKU   string `json:"sku,omitempty"`
}

// Item is one line in the cart. UnitPrice is in minor currency units.
type Item struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	UnitPrice int64       `json:"unitPrice"`
	Variant   *VariantKey `json:"variant,omitempty"`
}

// State is a point-in-time view of the cart.
type State struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
	Total int64  `json:"total"`
}

// lineKey identifies a line: two items are the same line when product,
// color and size match.
type lineKey struct {
	productID string
	color     string
	size      string
}

func keyOf(productID string, v *VariantKey) lineKey {
	k := lineKey{productID: strings.TrimSpace(productID)}
	if v != nil {
		k.color = strings.TrimSpace(v.Color)
		k.size = strings.TrimSpace(v.Size)
	}
	return k
}

func (i Item) key() lineKey {
	return keyOf(i.ProductID, i.Variant)
}

func (i Item) clone() Item {
	if i.Variant != nil {
		v := *i.Variant
		i.Variant = &v
	}
	return i
}

func cloneItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, it.clone())
	}
	return out
}

func countOf(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalOf(items []Item) int64 {
	var sum int64
	for _, it := range items {
		sum += it.UnitPrice * int64(it.Quantity)
	}
	return sum
}

// mergeLines folds items sharing a line key into the first occurrence by
// summing quantities. Items without a product id or with a non-positive
// quantity are dropped. It reports whether the input changed.
func mergeLines(items []Item) ([]Item, bool) {
	out := make([]Item, 0, len(items))
	index := make(map[lineKey]int, len(items))
	changed := false
	for _, it := range items {
		k := it.key()
		if k.productID == "" || it.Quantity < 1 {
			changed = true
			continue
		}
		if idx, ok := index[k]; ok {
			out[idx].Quantity += it.Quantity
			changed = true
			continue
		}
		index[k] = len(out)
		out = append(out, it.clone())
	}
	return out, changed
}
