// Package catalog derives the displayed product list from a fetched one:
// text search, category filter and sort. Nothing here does I/O or keeps
// state between calls.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/iliyamo/storefront/internal/model"
)

// SortKey selects the ordering of Project's output.
type SortKey int

const (
	NameAscending SortKey = iota
	PriceAscending
	PriceDescending
)

func (k SortKey) String() string {
	switch k {
	case PriceAscending:
		return "price-low"
	case PriceDescending:
		return "price-high"
	default:
		return "name"
	}
}

// ParseSortKey accepts the storefront's select values (name, price-low,
// price-high) as well as the constant names, case-insensitively.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name", "nameascending", "name-asc":
		return NameAscending, nil
	case "price-low", "priceascending", "price-asc":
		return PriceAscending, nil
	case "price-high", "pricedescending", "price-desc":
		return PriceDescending, nil
	}
	return NameAscending, fmt.Errorf("catalog: unknown sort key %q", s)
}

// AllCategories disables the category filter.
const AllCategories = "All"

// Categories lists the category filter choices in display order.
var Categories = []string{AllCategories, "Electronics", "Fashion", "Home & Living", "Sports"}

// Project filters and sorts products into a new slice; the input is left
// untouched.
//
// A product passes the text filter when searchText is empty or is a
// case-insensitive substring of its name or description. It passes the
// category filter when category is AllCategories or equals its category
// exactly. The sort is stable, so ties keep their input order.
func Project(products []model.Product, searchText, category string, key SortKey) []model.Product {
	needle := strings.ToLower(searchText)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		if category != AllCategories && p.Category != category {
			continue
		}
		out = append(out, p)
	}

	switch key {
	case PriceAscending:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case PriceDescending:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	default:
		// collators are not safe for concurrent use
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool { return col.CompareString(out[i].Name, out[j].Name) < 0 })
	}
	return out
}
