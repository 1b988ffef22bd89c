// Package seed reads and writes catalog definitions kept in YAML files.
package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/drstein77/inventory/internal/catalog"
)

// File is the on-disk layout of a seed file.
type File struct {
	Items []Entry `yaml:"items"`
}

// Entry is one item as written by hand in a seed file.
type Entry struct {
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	Category string  `yaml:"category"`
}

// ErrEmpty is returned for a seed file without items.
var ErrEmpty = errors.New("seed file has no items")

// Load reads the catalog at path. An empty path yields catalog.Sample().
func Load(path string) (*catalog.Catalog[float64], error) {
	if path == "" {
		return catalog.Sample(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML seed data and validates every entry.
func Parse(data []byte) (*catalog.Catalog[float64], error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if len(f.Items) == 0 {
		return nil, ErrEmpty
	}

	c := catalog.New[float64]()
	for i, e := range f.Items {
		cat, err := catalog.ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if err := c.Add(catalog.Item[float64]{Name: e.Name, Price: e.Price, Category: cat}); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return c, nil
}

// Save writes c to path in the format Load reads.
func Save(path string, c *catalog.Catalog[float64]) error {
	f := File{Items: make([]Entry, 0, c.Len())}
	for item := range c.All() {
		f.Items = append(f.Items, Entry{Name: item.Name, Price: item.Price, Category: item.Category.String()})
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	return nil
}
