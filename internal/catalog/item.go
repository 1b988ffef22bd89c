package catalog

import (
	"fmt"
	"math"
)

// Price is the set of numeric types an item price can be expressed in.
type Price interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Float restricts a price to fractional types; discounts need it.
type Float interface {
	~float32 | ~float64
}

// Item is a single catalog record.
type Item[T Price] struct {
	Name     string   `json:"name"`
	Price    T        `json:"price"`
	Category Category `json:"category"`
}

// NewItem validates the price and category before building an item.
func NewItem[T Price](name string, price T, category Category) (Item[T], error) {
	item := Item[T]{Name: name, Price: price, Category: category}
	if err := item.Validate(); err != nil {
		return Item[T]{}, err
	}
	return item, nil
}

// Validate checks that the price is finite and non-negative and that the
// category is declared.
func (i Item[T]) Validate() error {
	p := float64(i.Price)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return fmt.Errorf("%w: %s costs %v", ErrInvalidPrice, i.Name, i.Price)
	}
	if i.Price < 0 {
		return fmt.Errorf("%w: %s costs %v", ErrNegativePrice, i.Name, i.Price)
	}
	if !i.Category.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, int(i.Category))
	}
	return nil
}

// String renders the display line for the item.
func (i Item[T]) String() string {
	return fmt.Sprintf("Item: %s, Price: %v, Category: %s", i.Name, i.Price, i.Category)
}

// PriceAbove matches items strictly more expensive than threshold.
func PriceAbove[T Price](threshold T) func(Item[T]) bool {
	return func(i Item[T]) bool { return i.Price > threshold }
}

// InCategory matches items tagged with c.
func InCategory[T Price](c Category) func(Item[T]) bool {
	return func(i Item[T]) bool { return i.Category == c }
}
