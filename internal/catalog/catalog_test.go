package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/model"
)

func p(id, name, desc, category, price string, stock int) model.Product {
	return model.Product{ID: id, ProductInput: model.ProductInput{
		Name: name, Description: desc, Category: category,
		Price: decimal.RequireFromString(price), Stock: stock,
	}}
}

func ids(ps []model.Product) []string {
	out := make([]string, len(ps))
	for i, x := range ps {
		out[i] = x.ID
	}
	return out
}

func TestProjectSortsByPriceAndName(t *testing.T) {
	products := []model.Product{
		p("alpha", "Alpha", "", "Electronics", "20", 1),
		p("beta", "beta", "", "Electronics", "5", 1),
	}

	assert.Equal(t, []string{"beta", "alpha"}, ids(Project(products, "", AllCategories, PriceAscending)))
	assert.Equal(t, []string{"alpha", "beta"}, ids(Project(products, "", AllCategories, PriceDescending)))
	assert.Equal(t, []string{"alpha"}, ids(Project(products, "alp", AllCategories, NameAscending)))
	assert.Equal(t, []string{"alpha", "beta"}, ids(Project(products, "", AllCategories, NameAscending)))
}

func TestProjectNameSortIsLocaleAware(t *testing.T) {
	products := []model.Product{
		p("z", "zebra", "", "Fashion", "1", 1),
		p("e", "Éclair", "", "Fashion", "1", 1),
		p("a", "apple", "", "Fashion", "1", 1),
		p("B", "Banana", "", "Fashion", "1", 1),
	}
	assert.Equal(t, []string{"a", "B", "e", "z"}, ids(Project(products, "", AllCategories, NameAscending)))
}

func TestProjectFilters(t *testing.T) {
	products := []model.Product{
		p("1", "Desk Lamp", "LED light", "Home & Living", "10", 1),
		p("2", "Headphones", "noise-cancelling, great for the DESK", "Electronics", "20", 1),
		p("3", "Shoes", "running", "Sports", "30", 1),
	}

	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{name: "no filters", category: AllCategories, want: []string{"1", "2", "3"}},
		{name: "description match", search: "desk", category: AllCategories, want: []string{"1", "2"}},
		{name: "category exact", category: "Electronics", want: []string{"2"}},
		{name: "category is case-sensitive", category: "electronics", want: []string{}},
		{name: "both", search: "desk", category: "Home & Living", want: []string{"1"}},
		{name: "no match", search: "xyz", category: AllCategories, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Project(products, tt.search, tt.category, PriceAscending)))
		})
	}
}

func TestProjectIsStableAndPure(t *testing.T) {
	products := []model.Product{
		p("a", "Same", "", "Sports", "10", 1),
		p("b", "Other", "", "Sports", "5", 1),
		p("c", "Same", "", "Sports", "10", 1),
	}
	before := ids(products)

	assert.Equal(t, []string{"b", "a", "c"}, ids(Project(products, "", AllCategories, PriceAscending)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Project(products, "", AllCategories, PriceDescending)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(Project(products, "", AllCategories, NameAscending)))
	assert.Equal(t, before, ids(products), "input must not be reordered")
	assert.Empty(t, Project(nil, "", AllCategories, NameAscending))
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{
		"":                NameAscending,
		"name":            NameAscending,
		"price-low":       PriceAscending,
		"PriceAscending":  PriceAscending,
		"price-high":      PriceDescending,
		"pricedescending": PriceDescending,
	} {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortKey("random")
	assert.Error(t, err)

	k, err := ParseSortKey(PriceDescending.String())
	require.NoError(t, err)
	assert.Equal(t, PriceDescending, k)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, OutOfStock, Level(p("x", "x", "", "", "1", 0)))
	assert.Equal(t, LowStock, Level(p("x", "x", "", "", "1", 1)))
	assert.Equal(t, LowStock, Level(p("x", "x", "", "", "1", 5)))
	assert.Equal(t, InStock, Level(p("x", "x", "", "", "1", 6)))
}

func TestSummarizeSampleCatalog(t *testing.T) {
	st := Summarize(SampleProducts())
	assert.Equal(t, 8, st.Products)
	assert.Equal(t, 1, st.OutOfStock)
	assert.Equal(t, 1, st.LowStock)
	// 149.99*25 + 299.99*15 + 249.99*8 + 79.99*42 + 129.99*30 + 0 + 39.99*100 + 34.99*20
	assert.Equal(t, "22207.60", st.InventoryValue.StringFixed(2))
}

func TestSampleProductsAreFreshCopies(t *testing.T) {
	a := SampleProducts()
	a[0].Name = "changed"
	assert.Equal(t, "Wireless Bluetooth Headphones", SampleProducts()[0].Name)
	assert.Len(t, Categories, 5)
}
