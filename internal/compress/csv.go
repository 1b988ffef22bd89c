package compress

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/drstein77/inventory/internal/catalog"
	"github.com/drstein77/inventory/internal/models"
)

var csvHeader = []string{"name", "price", "category"}

// WriteCSV writes items with a header row, in order. Prices use the shortest
// text that parses back to the same value.
func WriteCSV(w io.Writer, items []models.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, item := range items {
		record := []string{item.Name, strconv.FormatFloat(item.Price, 'f', -1, 64), item.Category.String()}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParseCSV reads items written by WriteCSV. The header row is optional.
func ParseCSV(r io.Reader) ([]models.Item, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	cr.TrimLeadingSpace = true

	var items []models.Item
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 && strings.EqualFold(record[0], csvHeader[0]) {
			continue
		}

		price, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: price: %w", line, err)
		}
		category, err := catalog.ParseCategory(record[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		item, err := catalog.NewItem(record[0], price, category)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, item)
	}
	return items, nil
}
