package models

import (
	"errors"
	"fmt"

	"github.com/drstein77/inventory/internal/catalog"
)

// ErrMissingField is returned when a request omits a required field.
var ErrMissingField = errors.New("missing required field")

// Item is the priced item type served over HTTP and stored in the database.
type Item = catalog.Item[float64]

// ProcessResponse summarises the catalog after an import.
type ProcessResponse struct {
	TotalItems      int     `json:"total_items"`
	TotalCategories int     `json:"total_categories"`
	TotalPrice      float64 `json:"total_price"`
}

// ItemRequest is the body of POST /api/v0/items. Pointer fields tell an
// absent value apart from a zero one.
type ItemRequest struct {
	Name     string            `json:"name"`
	Price    *float64          `json:"price"`
	Category *catalog.Category `json:"category"`
}

// Item checks that every field is present and builds a validated item.
func (r ItemRequest) Item() (Item, error) {
	switch {
	case r.Name == "":
		return Item{}, fmt.Errorf("%w: name", ErrMissingField)
	case r.Price == nil:
		return Item{}, fmt.Errorf("%w: price", ErrMissingField)
	case r.Category == nil:
		return Item{}, fmt.Errorf("%w: category", ErrMissingField)
	}
	return catalog.NewItem(r.Name, *r.Price, *r.Category)
}

// DiscountRequest is the body of POST /api/v0/discounts.
type DiscountRequest struct {
	Category   *catalog.Category `json:"category"`
	Percentage *float64          `json:"percentage"`
}

// Validate reports the first missing field.
func (r DiscountRequest) Validate() error {
	if r.Category == nil {
		return fmt.Errorf("%w: category", ErrMissingField)
	}
	if r.Percentage == nil {
		return fmt.Errorf("%w: percentage", ErrMissingField)
	}
	return nil
}

// DiscountResponse reports how many items a discount changed.
type DiscountResponse struct {
	Category   catalog.Category `json:"category"`
	Percentage float64          `json:"percentage"`
	Discounted int              `json:"discounted"`
}

// CategoryCounts is the JSON form of catalog.Counts, keyed by display text.
type CategoryCounts map[string]int

// NewCategoryCounts keys counts by category display text.
func NewCategoryCounts(counts catalog.Counts) CategoryCounts {
	out := make(CategoryCounts, len(counts))
	for cat, n := range counts {
		out[cat.String()] = n
	}
	return out
}
