package list

import (
	"math"
	"strings"
)

// AddItem merges into an existing line for the same product or the same
// non-empty custom name, or appends a new line. A zero quantity counts as 1.
func (l *List) AddItem(productID, customName string, quantity float64, newID func() string) (Item, error) {
	customName = strings.TrimSpace(customName)
	if productID == "" && customName == "" {
		return Item{}, ErrItemTargetRequired
	}
	if !validQuantity(quantity) {
		return Item{}, ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}

	for i := range l.Items {
		it := &l.Items[i]
		if (productID != "" && it.ProductID == productID) || (customName != "" && it.CustomName == customName) {
			it.Quantity += quantity
			return *it, nil
		}
	}

	it := Item{ID: newID(), ProductID: productID, Quantity: quantity, CustomName: customName}
	l.Items = append(l.Items, it)
	return it, nil
}

// UpdateItem replaces the quantity when it is non-zero and sets the purchased
// flag when given.
func (l *List) UpdateItem(itemID string, quantity float64, isPurchased *bool) error {
	if !validQuantity(quantity) {
		return ErrInvalidQuantity
	}
	for i := range l.Items {
		if l.Items[i].ID != itemID {
			continue
		}
		if quantity != 0 {
			l.Items[i].Quantity = quantity
		}
		if isPurchased != nil {
			l.Items[i].IsPurchased = *isPurchased
		}
		return nil
	}
	return ErrItemNotFound
}

func validQuantity(q float64) bool {
	return q >= 0 && !math.IsInf(q, 0) && !math.IsNaN(q)
}

// RemoveItem drops the line; removing an unknown item is a no-op.
func (l *List) RemoveItem(itemID string) {
	out := l.Items[:0]
	for _, it := range l.Items {
		if it.ID != itemID {
			out = append(out, it)
		}
	}
	l.Items = out
}

// ClearCompleted drops purchased lines and reports how many were removed.
func (l *List) ClearCompleted() int {
	out := l.Items[:0]
	for _, it := range l.Items {
		if !it.IsPurchased {
			out = append(out, it)
		}
	}
	removed := len(l.Items) - len(out)
	l.Items = out
	return removed
}

func (l *List) productIDs() []string {
	seen := make(map[string]struct{}, len(l.Items))
	ids := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		if it.ProductID == "" {
			continue
		}
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func validName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n > 0 && n <= MaxNameLength
}
