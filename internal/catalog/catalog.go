// Package catalog filters and paginates the product list a register sells from.
package catalog

import (
	"slices"
	"strings"

	"github.com/nikolayk812/pos-demo/internal/domain"
	"golang.org/x/text/cases"
)

const PageSize = 12

// Catalog is not safe for concurrent use.
type Catalog struct {
	products   []domain.Product
	categories []domain.Category

	category string
	query    string
	page     int

	filtered []domain.Product
	fold     cases.Caser
}

func New() *Catalog {
	return &Catalog{
		page: 1,
		fold: cases.Fold(),
	}
}

// SetProducts replaces the product list, e.g. after a sale changed stock.
// The page is kept only while the filtered products stay the same ones in
// the same order; a refresh that only moves stock or prices keeps it.
func (c *Catalog) SetProducts(products []domain.Product) {
	before := filteredIDs(c.filtered)

	c.products = slices.Clone(products)
	c.refilter()

	if !slices.Equal(before, filteredIDs(c.filtered)) || c.page > c.TotalPages() {
		c.page = 1
	}
}

func (c *Catalog) SetCategories(categories []domain.Category) {
	c.categories = slices.Clone(categories)
}

func (c *Catalog) Categories() []domain.Category {
	return slices.Clone(c.categories)
}

// SetCategory filters by exact category name; empty clears the filter.
func (c *Catalog) SetCategory(category string) {
	if category == c.category {
		return
	}

	c.category = category
	c.refilter()
	c.page = 1
}

// SetQuery filters by case-insensitive substring of the product name.
func (c *Catalog) SetQuery(query string) {
	if query == c.query {
		return
	}

	c.query = query
	c.refilter()
	c.page = 1
}

// SetPage moves to page n, clamped to the available pages.
func (c *Catalog) SetPage(n int) {
	c.page = min(max(1, n), max(1, c.TotalPages()))
}

func (c *Catalog) CurrentPage() int {
	return c.page
}

func (c *Catalog) Category() string {
	return c.category
}

func (c *Catalog) Query() string {
	return c.query
}

func (c *Catalog) TotalPages() int {
	return (len(c.filtered) + PageSize - 1) / PageSize
}

func (c *Catalog) Filtered() int {
	return len(c.filtered)
}

func (c *Catalog) Page() []domain.Product {
	start := (c.page - 1) * PageSize
	if start >= len(c.filtered) {
		return nil
	}

	end := min(start+PageSize, len(c.filtered))

	return slices.Clone(c.filtered[start:end])
}

// Product looks up id in the full list, ignoring filters.
func (c *Catalog) Product(id domain.ProductID) (domain.Product, bool) {
	i := slices.IndexFunc(c.products, func(p domain.Product) bool {
		return p.ID == id
	})
	if i < 0 {
		return domain.Product{}, false
	}

	return c.products[i], true
}

func (c *Catalog) refilter() {
	query := c.fold.String(c.query)

	c.filtered = nil
	for _, p := range c.products {
		if c.category != "" && p.Category != c.category {
			continue
		}
		if query != "" && !strings.Contains(c.fold.String(p.Name), query) {
			continue
		}
		c.filtered = append(c.filtered, p)
	}
}

func filteredIDs(products []domain.Product) []domain.ProductID {
	ids := make([]domain.ProductID, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
