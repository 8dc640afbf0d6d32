package main

// Product is a catalog entry. Products are immutable once loaded; the cart
// copies the fields it needs instead of referencing the catalog.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice"`
	Discount      int     `json:"discount"`
	Rating        float64 `json:"rating"`
	Image         string  `json:"image"`
	InStock       bool    `json:"inStock"`
	Category      string  `json:"category"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CartItem is one line of the cart: a product snapshot taken at add time
// plus a quantity. Snapshot fields are never refreshed from the catalog,
// so the price a customer saw when adding is the price they keep.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Pagination struct {
	Page  int `json:"page"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
