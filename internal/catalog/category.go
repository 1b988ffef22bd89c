package catalog

import (
	"fmt"
	"strings"
)

// Category is the closed set of classification tags an item can carry.
type Category int

const (
	Electronics Category = iota
	Clothing
	Grocery
)

var categoryNames = [...]string{
	Electronics: "Electronics",
	Clothing:    "Clothing",
	Grocery:     "Grocery",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{Electronics, Clothing, Grocery}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

// String returns the display text, or Category(N) for undeclared values.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory converts display text back into a Category, ignoring case.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(name, categoryNames[c]) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText encodes the category as its display text.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes display text produced by MarshalText.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
