// Package catalog holds the in-memory inventory: an ordered list of priced,
// categorized items with discount, filter, tally and scaling operations.
//
// A Catalog is owned by a single goroutine. Wrap it (see internal/storage)
// before sharing it.
package catalog

import (
	"fmt"
	"iter"
	"math"
)

// Catalog is an ordered sequence of items. Insertion order is the only order.
type Catalog[T Price] struct {
	items []Item[T]
}

// Counts maps every category to the number of items carrying it.
type Counts map[Category]int

// New builds a catalog from a copy of items. It trusts its input; items from
// outside the program should go through NewItem or Add.
func New[T Price](items ...Item[T]) *Catalog[T] {
	c := &Catalog[T]{items: make([]Item[T], len(items))}
	copy(c.items, items)
	return c
}

// Sample returns the three-item catalog used by the demo run.
func Sample() *Catalog[float64] {
	return New(
		Item[float64]{Name: "Laptop", Price: 1200.0, Category: Electronics},
		Item[float64]{Name: "T-Shirt", Price: 60.0, Category: Clothing},
		Item[float64]{Name: "Vegetables", Price: 10.0, Category: Grocery},
	)
}

// Add validates item and appends it at the end of the catalog.
func (c *Catalog[T]) Add(item Item[T]) error {
	if err := item.Validate(); err != nil {
		return err
	}
	c.items = append(c.items, item)
	return nil
}

// Len returns the number of items.
func (c *Catalog[T]) Len() int {
	return len(c.items)
}

// At returns the item at position i. It panics when i is out of range.
func (c *Catalog[T]) At(i int) Item[T] {
	return c.items[i]
}

// Items returns a copy of the catalog contents.
func (c *Catalog[T]) Items() []Item[T] {
	out := make([]Item[T], len(c.items))
	copy(out, c.items)
	return out
}

// All yields items in catalog order.
func (c *Catalog[T]) All() iter.Seq[Item[T]] {
	return func(yield func(Item[T]) bool) {
		for _, item := range c.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Lines yields one display line per item. The sequence can be ranged over
// any number of times and reflects the catalog at the time it is consumed.
func (c *Catalog[T]) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for item := range c.All() {
			if !yield(item.String()) {
				return
			}
		}
	}
}

// Filter returns a new catalog with copies of the items matching pred.
// The result does not observe later changes to c.
func (c *Catalog[T]) Filter(pred func(Item[T]) bool) *Catalog[T] {
	out := &Catalog[T]{}
	for _, item := range c.items {
		if pred(item) {
			out.items = append(out.items, item)
		}
	}
	return out
}

// CountByCategory tallies items per category. Categories with no items are
// present with a zero count. Items admitted through Add or NewItem always
// carry a declared category, so the keys are exactly Categories().
func (c *Catalog[T]) CountByCategory() Counts {
	counts := make(Counts, len(categoryNames))
	for _, cat := range Categories() {
		counts[cat] = 0
	}
	for _, item := range c.items {
		counts[item.Category]++
	}
	return counts
}

// ScalePrices returns a new catalog with every price multiplied by factor.
func (c *Catalog[T]) ScalePrices(factor T) *Catalog[T] {
	out := &Catalog[T]{items: make([]Item[T], len(c.items))}
	for i, item := range c.items {
		item.Price *= factor
		out.items[i] = item
	}
	return out
}

// Total sums all prices.
func (c *Catalog[T]) Total() T {
	var sum T
	for _, item := range c.items {
		sum += item.Price
	}
	return sum
}

// Map converts every price with fn into a new catalog, possibly of a
// different price type.
func Map[T, U Price](c *Catalog[T], fn func(T) U) *Catalog[U] {
	out := &Catalog[U]{items: make([]Item[U], len(c.items))}
	for i, item := range c.items {
		out.items[i] = Item[U]{Name: item.Name, Price: fn(item.Price), Category: item.Category}
	}
	return out
}

// ApplyDiscount lowers the price of every item in category by percentage
// percent, in place, and returns how many items changed. The catalog is left
// untouched when percentage is outside [0, 100].
func ApplyDiscount[T Float](c *Catalog[T], category Category, percentage float64) (int, error) {
	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return 0, fmt.Errorf("%w: %v%% is outside [0, 100]", ErrInvalidDiscount, percentage)
	}
	if !category.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCategory, int(category))
	}

	rate := 1 - percentage/100
	n := 0
	for i := range c.items {
		if c.items[i].Category != category {
			continue
		}
		c.items[i].Price = T(float64(c.items[i].Price) * rate)
		n++
	}
	return n, nil
}
