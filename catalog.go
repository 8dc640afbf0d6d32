package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is the fixed number of products shown per page.
const PageSize = 9

// MaxPrice is the upper bound of the price slider in the storefront UI and
// the default ceiling when no price filter is given.
const MaxPrice = 100

const (
	SortByName      = "name"
	SortByPriceAsc  = "price-asc"
	SortByPriceDesc = "price-desc"
	SortByRating    = "rating"
)

// FilterParams selects and orders a slice of the catalog. The zero value of
// Category and Search means "no filtering"; the price range is always
// applied, so use DefaultFilters for an unbounded starting point.
type FilterParams struct {
	Category    string
	Search      string
	MinPrice    float64
	MaxPrice    float64
	InStockOnly bool
	SortBy      string
}

func DefaultFilters() FilterParams {
	return FilterParams{MaxPrice: MaxPrice, SortBy: SortByName}
}

// FilterProducts returns the products passing all filters, in input order.
// Filters compose by AND, so applying them in any order gives the same set.
// A min above max yields an empty result, never a silent swap.
func FilterProducts(products []Product, f FilterParams) []Product {
	out := make([]Product, 0, len(products))
	search := strings.ToLower(f.Search)
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if f.InStockOnly && !p.InStock {
			continue
		}
		if p.Price < f.MinPrice || p.Price > f.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SortProducts returns a sorted copy. The sort is stable: products with an
// equal key keep their input order. Unknown keys fall back to the name sort.
func SortProducts(products []Product, sortBy string) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	switch sortBy {
	case SortByPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortByPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortByRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	default:
		// collators keep internal buffers, so build one per call
		coll := collate.New(language.English, collate.Loose)
		sort.SliceStable(out, func(i, j int) bool {
			return coll.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

// Paginate slices one page out of products. Pages start at 1; a page past
// the end is empty, and an empty input has zero pages.
func Paginate(products []Product, page int) ([]Product, Pagination) {
	total := len(products)
	pages := (total + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}
	pg := Pagination{Page: page, Total: total, Pages: pages}

	start := (page - 1) * PageSize
	if start >= total {
		return []Product{}, pg
	}
	end := start + PageSize
	if end > total {
		end = total
	}
	return products[start:end], pg
}

// QueryProducts is the full filter → sort → paginate pipeline. It is a pure
// function of its inputs: no side effects, same answer every time.
func QueryProducts(products []Product, f FilterParams, page int) ([]Product, Pagination) {
	return Paginate(SortProducts(FilterProducts(products, f), f.SortBy), page)
}

// FeaturedProducts picks the in-stock products shown on the home page,
// highest rated first.
func FeaturedProducts(products []Product, limit int) []Product {
	featured := SortProducts(FilterProducts(products, FilterParams{
		MaxPrice:    MaxPrice,
		InStockOnly: true,
	}), SortByRating)
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured
}

// Catalog supplies the full product collection and the category list. The
// filter engine does not care where either comes from.
type Catalog interface {
	Products() ([]Product, error)
	Categories() ([]Category, error)
}

// StaticCatalog serves a fixed in-memory collection.
type StaticCatalog struct {
	products   []Product
	categories []Category
}

func NewStaticCatalog(products []Product, categories []Category) *StaticCatalog {
	return &StaticCatalog{products: products, categories: categories}
}

func (c *StaticCatalog) Products() ([]Product, error)    { return c.products, nil }
func (c *StaticCatalog) Categories() ([]Category, error) { return c.categories, nil }

// HTTPCatalog fetches the collection from a remote products API returning
// {"success": true, "products": [...]}.
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCatalog(baseURL string) *HTTPCatalog {
	return &HTTPCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPCatalog) Products() ([]Product, error) {
	var body struct {
		Success  bool      `json:"success"`
		Products []Product `json:"products"`
	}
	if err := c.getJSON("/products", &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, ErrCatalogUnavailable
	}
	return body.Products, nil
}

func (c *HTTPCatalog) Categories() ([]Category, error) {
	var body struct {
		Success    bool       `json:"success"`
		Categories []Category `json:"categories"`
	}
	if err := c.getJSON("/categories", &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, ErrCatalogUnavailable
	}
	return body.Categories, nil
}

func (c *HTTPCatalog) getJSON(path string, v any) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return nil
}
