package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []Product {
	return []Product{
		{ID: "1", Name: "Apples", Description: "Crisp red apples", Price: 4.99, OriginalPrice: 6.99, Rating: 4.5, InStock: true, Category: "fruits"},
		{ID: "2", Name: "Bananas", Description: "Ripe yellow bananas", Price: 1.49, OriginalPrice: 1.49, Rating: 4.2, InStock: true, Category: "fruits"},
		{ID: "3", Name: "Milk", Description: "Whole milk, one gallon", Price: 3.59, OriginalPrice: 3.99, Rating: 4.6, InStock: true, Category: "dairy"},
		{ID: "4", Name: "Cheddar", Description: "Aged cheddar block", Price: 7.99, OriginalPrice: 9.99, Rating: 4.8, InStock: false, Category: "dairy"},
		{ID: "5", Name: "Sourdough", Description: "Crusty sourdough loaf with apple notes", Price: 5.99, OriginalPrice: 6.49, Rating: 4.9, InStock: true, Category: "bakery"},
	}
}

func TestFilterByCategory(t *testing.T) {
	f := DefaultFilters()
	f.Category = "dairy"
	got := FilterProducts(testProducts(), f)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestFilterUnknownCategoryIsEmptyNotError(t *testing.T) {
	f := DefaultFilters()
	f.Category = "electronics"
	assert.Empty(t, FilterProducts(testProducts(), f))
}

func TestFilterSearchCaseInsensitiveNameOrDescription(t *testing.T) {
	f := DefaultFilters()
	f.Search = "APPLE"
	got := FilterProducts(testProducts(), f)
	// matches "Apples" by name and the sourdough by description
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "5", got[1].ID)
}

func TestFilterInStockOnly(t *testing.T) {
	f := DefaultFilters()
	f.InStockOnly = true
	for _, p := range FilterProducts(testProducts(), f) {
		assert.True(t, p.InStock)
	}
	assert.Len(t, FilterProducts(testProducts(), f), 4)
}

func TestFilterPriceRangeInclusive(t *testing.T) {
	f := DefaultFilters()
	f.MinPrice = 3.59
	f.MaxPrice = 5.99
	got := FilterProducts(testProducts(), f)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Price, 3.59)
		assert.LessOrEqual(t, p.Price, 5.99)
	}
}

func TestFilterMinAboveMaxIsEmpty(t *testing.T) {
	f := DefaultFilters()
	f.MinPrice = 10
	f.MaxPrice = 5
	assert.Empty(t, FilterProducts(testProducts(), f))
}

func TestFilterIsSubsetAndIdempotent(t *testing.T) {
	products := testProducts()
	f := DefaultFilters()
	f.Search = "a"
	f.InStockOnly = true
	f.MinPrice = 1
	f.MaxPrice = 6

	once := FilterProducts(products, f)
	byID := map[string]bool{}
	for _, p := range products {
		byID[p.ID] = true
	}
	for _, p := range once {
		assert.True(t, byID[p.ID], "filter fabricated product %s", p.ID)
	}

	twice := FilterProducts(once, f)
	assert.Equal(t, once, twice)
}

func TestFilterOrderDoesNotMatter(t *testing.T) {
	products := testProducts()
	full := FilterParams{Category: "dairy", Search: "milk", MinPrice: 0, MaxPrice: MaxPrice, InStockOnly: true}

	combined := FilterProducts(products, full)

	staged := FilterProducts(products, FilterParams{MaxPrice: MaxPrice, InStockOnly: true})
	staged = FilterProducts(staged, FilterParams{MaxPrice: MaxPrice, Search: "milk"})
	staged = FilterProducts(staged, FilterParams{MaxPrice: MaxPrice, Category: "dairy"})

	assert.Equal(t, combined, staged)
}

func TestSortByNameDefault(t *testing.T) {
	got := SortProducts(testProducts(), "")
	names := []string{}
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Apples", "Bananas", "Cheddar", "Milk", "Sourdough"}, names)
}

func TestSortByPrice(t *testing.T) {
	asc := SortProducts(testProducts(), SortByPriceAsc)
	assert.Equal(t, "2", asc[0].ID)
	assert.Equal(t, "4", asc[len(asc)-1].ID)

	desc := SortProducts(testProducts(), SortByPriceDesc)
	assert.Equal(t, "4", desc[0].ID)
	assert.Equal(t, "2", desc[len(desc)-1].ID)
}

func TestSortByRatingDesc(t *testing.T) {
	got := SortProducts(testProducts(), SortByRating)
	assert.Equal(t, "5", got[0].ID)
	assert.Equal(t, "2", got[len(got)-1].ID)
}

func TestSortIsStable(t *testing.T) {
	products := []Product{
		{ID: "a", Name: "First", Price: 5, Rating: 4},
		{ID: "b", Name: "Second", Price: 5, Rating: 4},
		{ID: "c", Name: "Third", Price: 5, Rating: 4},
	}
	for _, sortBy := range []string{SortByPriceAsc, SortByPriceDesc, SortByRating} {
		got := SortProducts(products, sortBy)
		assert.Equal(t, "a", got[0].ID, "sort %s broke input order", sortBy)
		assert.Equal(t, "b", got[1].ID, "sort %s broke input order", sortBy)
		assert.Equal(t, "c", got[2].ID, "sort %s broke input order", sortBy)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	products := testProducts()
	SortProducts(products, SortByPriceDesc)
	assert.Equal(t, "1", products[0].ID)
}

func TestPaginate(t *testing.T) {
	products := make([]Product, 20)
	for i := range products {
		products[i].ID = string(rune('a' + i))
	}

	page1, pg := Paginate(products, 1)
	assert.Len(t, page1, PageSize)
	assert.Equal(t, Pagination{Page: 1, Total: 20, Pages: 3}, pg)

	page3, pg := Paginate(products, 3)
	assert.Len(t, page3, 2)
	assert.Equal(t, 3, pg.Page)

	past, pg := Paginate(products, 9)
	assert.Empty(t, past)
	assert.Equal(t, 3, pg.Pages)
}

func TestPaginateEmpty(t *testing.T) {
	got, pg := Paginate(nil, 1)
	assert.Empty(t, got)
	assert.Equal(t, Pagination{Page: 1, Total: 0, Pages: 0}, pg)
}

func TestFeaturedProducts(t *testing.T) {
	got := FeaturedProducts(testProducts(), 3)
	require.Len(t, got, 3)
	assert.Equal(t, "5", got[0].ID) // highest rated in stock
	for _, p := range got {
		assert.True(t, p.InStock)
	}
}

func TestHTTPCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			w.Write([]byte(`{"success": true, "products": [{"id": "1", "name": "Apples"}]}`))
		case "/categories":
			w.Write([]byte(`{"success": true, "categories": [{"id": "1", "name": "Fruits", "slug": "fruits"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewHTTPCatalog(srv.URL)
	products, err := c.Products()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Apples", products[0].Name)

	categories, err := c.Categories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "fruits", categories[0].Slug)
}

func TestHTTPCatalogUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPCatalog(srv.URL)
	_, err := c.Products()
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	c = NewHTTPCatalog("http://127.0.0.1:1")
	_, err = c.Products()
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
