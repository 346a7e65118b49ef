// Package store holds the client-side snapshot of the commerce backend.
// The backend is the single source of truth: the cache is replaced
// wholesale after each successful read and is never patched field by
// field or persisted beyond the session.
package store

import "strings"

// Product is a catalog entry as reported by the backend. The client
// never mutates a Product locally; it requests mutations and re-fetches.
type Product struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
	ImageURL   string  `json:"image_url"`
	Liked      bool    `json:"liked"`
	Wishlisted bool    `json:"wishlisted"`
}

// CartItem is one cart line. Subtotal is server-computed.
type CartItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// Cart is the server-reported cart summary. Total must never be
// recomputed client-side; it is trusted as delivered.
type Cart struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}

// Snapshot is the full store state returned by one read call, treated
// as atomic and authoritative.
type Snapshot struct {
	Source        string    `json:"source"`
	Products      []Product `json:"products"`
	Cart          Cart      `json:"cart"`
	LikesCount    int       `json:"likes_count"`
	WishlistCount int       `json:"wishlist_count"`
}

// EmptySnapshot returns the pre-first-load defaults.
func EmptySnapshot() Snapshot {
	return Snapshot{Source: "--", Products: []Product{}}
}

// Cache owns the last-known-good snapshot. Replace is the only mutation
// entry point; there are deliberately no per-field writers. When two
// reloads race, whichever Replace runs last wins, matching the
// last-arrival-wins behavior of the original client.
type Cache struct {
	snapshot Snapshot
	loaded   bool
}

// NewCache returns a cache holding the empty defaults.
func NewCache() *Cache {
	return &Cache{snapshot: EmptySnapshot()}
}

// Replace swaps in a fresh snapshot atomically.
func (c *Cache) Replace(s Snapshot) {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Cart.Items == nil {
		s.Cart.Items = []CartItem{}
	}
	c.snapshot = s
	c.loaded = true
}

// Snapshot returns the current snapshot.
func (c *Cache) Snapshot() Snapshot {
	return c.snapshot
}

// Loaded reports whether at least one successful reload has happened.
func (c *Cache) Loaded() bool {
	return c.loaded
}

// Filter returns the products whose name or category contains the query
// case-insensitively. An empty query matches everything.
func Filter(products []Product, query string) []Product {
	text := strings.ToLower(strings.TrimSpace(query))
	if text == "" {
		return products
	}
	var out []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), text) ||
			strings.Contains(strings.ToLower(p.Category), text) {
			out = append(out, p)
		}
	}
	return out
}
