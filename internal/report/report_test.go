package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drstein77/inventory/internal/catalog"
)

func TestRun_SequenceOfSteps(t *testing.T) {
	var buf bytes.Buffer
	c := catalog.Sample()

	require.NoError(t, Run(&buf, c, DefaultOptions()))
	out := buf.String()

	steps := []string{
		"Original Inventory:",
		"Item: Laptop, Price: 1200, Category: Electronics",
		"Applying 10% discount to Electronics..",
		"Filtered Items (Price > 20):",
		"Item: Laptop, Price: 1080, Category: Electronics",
		"Item: T-Shirt, Price: 60, Category: Clothing",
		"Total Electronics: 1",
		"Total Clothing: 1",
		"Total Grocery: 1",
		"Updated Inventory:",
		"Item: Vegetables, Price: 10, Category: Grocery",
	}
	pos := 0
	for _, step := range steps {
		idx := strings.Index(out[pos:], step)
		require.GreaterOrEqual(t, idx, 0, "%q missing or out of order in:\n%s", step, out)
		pos += idx + len(step)
	}

	filtered := out[strings.Index(out, "Filtered Items"):strings.Index(out, "Total Electronics")]
	assert.NotContains(t, filtered, "Vegetables")
	assert.InDelta(t, 1080.0, c.At(0).Price, 1e-9)
}

func TestRun_InvalidDiscountStopsAfterListing(t *testing.T) {
	var buf bytes.Buffer
	c := catalog.Sample()
	opts := DefaultOptions()
	opts.Percentage = 120

	err := Run(&buf, c, opts)
	require.ErrorIs(t, err, catalog.ErrInvalidDiscount)

	out := buf.String()
	assert.Contains(t, out, "Original Inventory:")
	assert.NotContains(t, out, "Applying")
	assert.NotContains(t, out, "Updated Inventory:")
	assert.Equal(t, 1200.0, c.At(0).Price)
}

func TestRun_OtherCategory(t *testing.T) {
	var buf bytes.Buffer
	c := catalog.Sample()

	require.NoError(t, Run(&buf, c, Options{Category: catalog.Clothing, Percentage: 50, Threshold: 5}))

	assert.Contains(t, buf.String(), "Applying 50% discount to Clothing..")
	assert.Equal(t, 30.0, c.At(1).Price)
	assert.Equal(t, 1200.0, c.At(0).Price)
}
