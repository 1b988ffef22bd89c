// Package report prints the inventory walkthrough: the original listing, the
// discount notice, the filtered listing, the category tally and the final
// listing, in that order.
package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/drstein77/inventory/internal/catalog"
)

// Options selects what the walkthrough discounts and filters on.
type Options struct {
	Category   catalog.Category
	Percentage float64
	Threshold  float64
}

// DefaultOptions discounts Electronics by 10% and keeps items above 20.
func DefaultOptions() Options {
	return Options{
		Category:   catalog.Electronics,
		Percentage: 10,
		Threshold:  20,
	}
}

// Run mutates c with the configured discount and writes the walkthrough to w.
// Nothing past the original listing is written when the discount is invalid.
func Run(w io.Writer, c *catalog.Catalog[float64], opts Options) error {
	bw := bufio.NewWriter(w)
	heading := lipgloss.NewRenderer(w).NewStyle().Bold(true)

	p := printer{w: bw, heading: heading}

	p.section("Original Inventory:")
	p.lines(c)

	p.blank()
	if _, err := catalog.ApplyDiscount(c, opts.Category, opts.Percentage); err != nil {
		if flushErr := bw.Flush(); flushErr != nil {
			return flushErr
		}
		return fmt.Errorf("apply discount: %w", err)
	}
	p.section(fmt.Sprintf("Applying %v%% discount to %s..", opts.Percentage, opts.Category))

	p.blank()
	p.section(fmt.Sprintf("Filtered Items (Price > %v):", opts.Threshold))
	p.lines(c.Filter(catalog.PriceAbove(opts.Threshold)))

	p.blank()
	counts := c.CountByCategory()
	for _, cat := range catalog.Categories() {
		p.printf("Total %s: %d\n", cat, counts[cat])
	}

	p.blank()
	p.section("Updated Inventory:")
	p.lines(c)

	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

// printer remembers the first write error so Run can check once at the end.
type printer struct {
	w       io.Writer
	heading lipgloss.Style
	err     error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.printf("%s\n", p.heading.Render(title))
}

func (p *printer) blank() {
	p.printf("\n")
}

func (p *printer) lines(c *catalog.Catalog[float64]) {
	for line := range c.Lines() {
		p.printf("%s\n", line)
	}
}
