package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// SeedCategories and SeedProducts are the built-in Food Mart catalog, used
// when no external catalog source is configured.
var SeedCategories = []Category{
	{ID: "1", Name: "Fruits", Slug: "fruits"},
	{ID: "2", Name: "Vegetables", Slug: "vegetables"},
	{ID: "3", Name: "Dairy", Slug: "dairy"},
	{ID: "4", Name: "Bakery", Slug: "bakery"},
	{ID: "5", Name: "Beverages", Slug: "beverages"},
}

var SeedProducts = []Product{
	{
		ID:            "1",
		Name:          "Fresh Organic Apples",
		Description:   "Sweet and crispy organic apples, perfect for snacking or baking.",
		Price:         4.99,
		OriginalPrice: 6.99,
		Discount:      28,
		Rating:        4.5,
		Image:         "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6",
		InStock:       true,
		Category:      "fruits",
	},
	{
		ID:            "2",
		Name:          "Ripe Bananas",
		Description:   "Naturally sweet bananas, great in smoothies and lunch boxes.",
		Price:         1.49,
		OriginalPrice: 1.49,
		Discount:      0,
		Rating:        4.2,
		Image:         "https://images.unsplash.com/photo-1571771894821-ce9b6c11b08e",
		InStock:       true,
		Category:      "fruits",
	},
	{
		ID:            "3",
		Name:          "Seedless Grapes",
		Description:   "Juicy green grapes sold by the pound.",
		Price:         3.79,
		OriginalPrice: 4.49,
		Discount:      15,
		Rating:        4.0,
		Image:         "https://images.unsplash.com/photo-1537640538966-79f369143f8f",
		InStock:       false,
		Category:      "fruits",
	},
	{
		ID:            "4",
		Name:          "Baby Spinach",
		Description:   "Tender baby spinach leaves, washed and ready to eat.",
		Price:         2.99,
		OriginalPrice: 3.49,
		Discount:      14,
		Rating:        4.3,
		Image:         "https://images.unsplash.com/photo-1576045057995-568f588f82fb",
		InStock:       true,
		Category:      "vegetables",
	},
	{
		ID:            "5",
		Name:          "Heirloom Tomatoes",
		Description:   "Colorful heirloom tomatoes grown by local farms.",
		Price:         5.49,
		OriginalPrice: 5.49,
		Discount:      0,
		Rating:        4.7,
		Image:         "https://images.unsplash.com/photo-1582284540020-8acbe03f4924",
		InStock:       true,
		Category:      "vegetables",
	},
	{
		ID:            "6",
		Name:          "Sweet Corn",
		Description:   "Golden sweet corn on the cob, picked this week.",
		Price:         0.99,
		OriginalPrice: 1.29,
		Discount:      23,
		Rating:        3.9,
		Image:         "https://images.unsplash.com/photo-1551754655-cd27e38d2076",
		InStock:       true,
		Category:      "vegetables",
	},
	{
		ID:            "7",
		Name:          "Whole Milk",
		Description:   "Creamy whole milk from grass-fed cows, one gallon.",
		Price:         3.59,
		OriginalPrice: 3.99,
		Discount:      10,
		Rating:        4.6,
		Image:         "https://images.unsplash.com/photo-1550583724-b2692b85b150",
		InStock:       true,
		Category:      "dairy",
	},
	{
		ID:            "8",
		Name:          "Greek Yogurt",
		Description:   "Thick strained yogurt, plain, high in protein.",
		Price:         4.29,
		OriginalPrice: 4.29,
		Discount:      0,
		Rating:        4.4,
		Image:         "https://images.unsplash.com/photo-1488477181946-6428a0291777",
		InStock:       true,
		Category:      "dairy",
	},
	{
		ID:            "9",
		Name:          "Aged Cheddar",
		Description:   "Sharp cheddar aged twelve months, sold by the block.",
		Price:         7.99,
		OriginalPrice: 9.99,
		Discount:      20,
		Rating:        4.8,
		Image:         "https://images.unsplash.com/photo-1486297678162-eb2a19b0a32d",
		InStock:       false,
		Category:      "dairy",
	},
	{
		ID:            "10",
		Name:          "Sourdough Loaf",
		Description:   "Crusty sourdough baked every morning.",
		Price:         5.99,
		OriginalPrice: 6.49,
		Discount:      8,
		Rating:        4.9,
		Image:         "https://images.unsplash.com/photo-1585478259715-876acc5be8eb",
		InStock:       true,
		Category:      "bakery",
	},
	{
		ID:            "11",
		Name:          "Blueberry Muffins",
		Description:   "Four-pack of muffins loaded with wild blueberries.",
		Price:         6.49,
		OriginalPrice: 7.99,
		Discount:      19,
		Rating:        4.1,
		Image:         "https://images.unsplash.com/photo-1607958996333-41aef7caefaa",
		InStock:       true,
		Category:      "bakery",
	},
	{
		ID:            "12",
		Name:          "Cold Brew Coffee",
		Description:   "Smooth cold brew concentrate, makes eight cups.",
		Price:         8.99,
		OriginalPrice: 10.99,
		Discount:      18,
		Rating:        4.5,
		Image:         "https://images.unsplash.com/photo-1517701550927-30cf4ba1dba5",
		InStock:       true,
		Category:      "beverages",
	},
	{
		ID:            "13",
		Name:          "Fresh Orange Juice",
		Description:   "Squeezed daily, no added sugar, half gallon.",
		Price:         4.99,
		OriginalPrice: 4.99,
		Discount:      0,
		Rating:        4.3,
		Image:         "https://images.unsplash.com/photo-1600271886742-f049cd451bba",
		InStock:       true,
		Category:      "beverages",
	},
	{
		ID:            "14",
		Name:          "Sparkling Water",
		Description:   "Twelve-pack of lime sparkling water.",
		Price:         5.49,
		OriginalPrice: 6.99,
		Discount:      21,
		Rating:        3.8,
		Image:         "https://images.unsplash.com/photo-1523362628745-0c100150b504",
		InStock:       false,
		Category:      "beverages",
	},
}

type catalogFile struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

// LoadCatalogFile builds a static catalog from a JSON file with the shape
// {"products": [...], "categories": [...]}.
func LoadCatalogFile(path string) (*StaticCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return NewStaticCatalog(f.Products, f.Categories), nil
}
