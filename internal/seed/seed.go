// Package seed describes demo marketplace data and loads it from YAML.
package seed

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"usedgoods-market/internal/domain"
)

type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type User struct {
	Username      string          `yaml:"username"`
	Email         string          `yaml:"email"`
	WalletBalance decimal.Decimal `yaml:"wallet_balance"`
}

// Listing names its seller and category rather than referencing ids.
type Listing struct {
	Title       string                  `yaml:"title"`
	Description string                  `yaml:"description"`
	Price       decimal.Decimal         `yaml:"price"`
	Seller      string                  `yaml:"seller"`
	Category    string                  `yaml:"category"`
	Condition   domain.ListingCondition `yaml:"condition"`
	Location    string                  `yaml:"location"`
}

type Data struct {
	Categories []Category `yaml:"categories"`
	Users      []User     `yaml:"users"`
	Listings   []Listing  `yaml:"listings"`
}

// Load reads seed data from a YAML file and validates it.
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &data, nil
}

// Validate checks that every listing points at a declared seller and category
// and that money values fit the wallet rules.
func (d *Data) Validate() error {
	users := make(map[string]bool, len(d.Users))
	for _, u := range d.Users {
		if u.Username == "" || u.Email == "" {
			return fmt.Errorf("user needs username and email")
		}
		if u.WalletBalance.IsNegative() {
			return fmt.Errorf("user %s: negative wallet balance", u.Username)
		}
		users[u.Username] = true
	}
	categories := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		categories[c.Name] = true
	}
	for _, l := range d.Listings {
		if !users[l.Seller] {
			return fmt.Errorf("listing %q: unknown seller %q", l.Title, l.Seller)
		}
		if !categories[l.Category] {
			return fmt.Errorf("listing %q: unknown category %q", l.Title, l.Category)
		}
		if err := domain.ValidateAmount(l.Price); err != nil {
			return fmt.Errorf("listing %q: %w", l.Title, err)
		}
	}
	return nil
}

// Default is the built-in demo marketplace.
func Default() *Data {
	balance := decimal.RequireFromString("1000.00")
	return &Data{
		Categories: []Category{
			{Name: "Electronics", Description: "Phones, laptops, and other electronic devices"},
			{Name: "Furniture", Description: "Home and office furniture"},
			{Name: "Clothing", Description: "Clothes, shoes, and accessories"},
			{Name: "Books", Description: "Books, textbooks, and magazines"},
			{Name: "Sports", Description: "Sports equipment and gear"},
		},
		Users: []User{
			{Username: "john_doe", Email: "john@example.com", WalletBalance: balance},
			{Username: "jane_smith", Email: "jane@example.com", WalletBalance: balance},
			{Username: "bob_wilson", Email: "bob@example.com", WalletBalance: balance},
		},
		Listings: []Listing{
			{Title: "iPhone 12 Pro", Description: "Excellent condition, comes with original box and accessories", Price: decimal.RequireFromString("699.99"), Seller: "john_doe", Category: "Electronics", Condition: domain.ListingConditionLikeNew, Location: "New York"},
			{Title: "Leather Sofa", Description: "Comfortable 3-seater sofa, barely used", Price: decimal.RequireFromString("499.99"), Seller: "jane_smith", Category: "Furniture", Condition: domain.ListingConditionGood, Location: "Los Angeles"},
			{Title: "Nike Running Shoes", Description: "Size 10, worn only twice", Price: decimal.RequireFromString("79.99"), Seller: "bob_wilson", Category: "Sports", Condition: domain.ListingConditionLikeNew, Location: "Chicago"},
			{Title: "Python Programming Book", Description: "Clean copy, no highlights", Price: decimal.RequireFromString("29.99"), Seller: "john_doe", Category: "Books", Condition: domain.ListingConditionGood, Location: "Boston"},
			{Title: "Gaming Laptop", Description: "High-performance gaming laptop, 1 year old", Price: decimal.RequireFromString("899.99"), Seller: "jane_smith", Category: "Electronics", Condition: domain.ListingConditionGood, Location: "Seattle"},
		},
	}
}
