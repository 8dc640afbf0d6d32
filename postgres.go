package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresCatalog reads the product collection out of Postgres. It is one
// of the interchangeable Catalog sources; the filter engine treats it the
// same as the static list.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgresCatalog(connStr string) (*PostgresCatalog, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &PostgresCatalog{db: db}, nil
}

// Init creates the catalog tables when they are missing.
func (c *PostgresCatalog) Init() error {
	queries := []string{
		`create table if not exists category (
			id varchar(64) primary key,
			name varchar(120),
			slug varchar(120) unique
		)`,
		`create table if not exists product (
			id varchar(64) primary key,
			name varchar(120),
			description varchar(1000),
			price decimal,
			original_price decimal,
			discount integer,
			rating decimal,
			image varchar(500),
			in_stock boolean,
			category varchar(120) references category(slug)
		)`,
	}
	for _, q := range queries {
		if _, err := c.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (c *PostgresCatalog) Products() ([]Product, error) {
	rows, err := c.db.Query(`select id, name, description, price, original_price,
		discount, rating, image, in_stock, category from product order by id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
			&p.Discount, &p.Rating, &p.Image, &p.InStock, &p.Category); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (c *PostgresCatalog) Categories() ([]Category, error) {
	rows, err := c.db.Query(`select id, name, slug from category order by id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// Seed loads the given collection into Postgres, replacing what is there.
func (c *PostgresCatalog) Seed(products []Product, categories []Category) error {
	if _, err := c.db.Exec(`delete from product`); err != nil {
		return err
	}
	if _, err := c.db.Exec(`delete from category`); err != nil {
		return err
	}
	for _, cat := range categories {
		if _, err := c.db.Exec(`insert into category (id, name, slug) values ($1, $2, $3)`,
			cat.ID, cat.Name, cat.Slug); err != nil {
			return err
		}
	}
	for _, p := range products {
		if _, err := c.db.Exec(`insert into product
			(id, name, description, price, original_price, discount, rating, image, in_stock, category)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			p.ID, p.Name, p.Description, p.Price, p.OriginalPrice,
			p.Discount, p.Rating, p.Image, p.InStock, p.Category); err != nil {
			return err
		}
	}
	return nil
}
