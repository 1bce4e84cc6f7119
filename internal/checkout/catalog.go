// Package checkout implements the cashier-side cart-to-receipt pipeline:
// catalog snapshots, cart state, discount pricing, payment settlement and
// receipt construction. The engine is transport-agnostic; it reaches the
// server only through the Catalog and Committer interfaces.
package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is one sellable item as seen in the last catalog load. The engine
// never mutates products; stock changes only become visible after a reload.
type Product struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
	Price    int64     `json:"price"`
	Stock    int       `json:"stock"`
}

// ProductFilter narrows a catalog load.
type ProductFilter struct {
	ActiveOnly bool
	Category   string
	Search     string
	Limit      int
}

// Catalog lists sellable products and active categories. Implementations
// are read-only; committing a transaction is the only way stock changes.
type Catalog interface {
	Products(ctx context.Context, f ProductFilter) ([]Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// Snapshot is an immutable view of the catalog as of one load. Cart stock
// ceilings are checked against the most recent snapshot only; the server
// remains the authority at commit time.
type Snapshot struct {
	products   []Product
	index      map[uuid.UUID]int
	categories []string
	loadedAt   time.Time
}

// NewSnapshot builds a snapshot preserving the catalog's product order.
func NewSnapshot(products []Product, categories []string) *Snapshot {
	s := &Snapshot{
		products:   make([]Product, len(products)),
		index:      make(map[uuid.UUID]int, len(products)),
		categories: append([]string(nil), categories...),
		loadedAt:   time.Now(),
	}
	copy(s.products, products)
	for i, p := range s.products {
		s.index[p.ID] = i
	}
	return s
}

// Products returns the snapshot's products in catalog order.
func (s *Snapshot) Products() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Product looks up a product by id.
func (s *Snapshot) Product(id uuid.UUID) (Product, bool) {
	i, ok := s.index[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Categories returns the active category names.
func (s *Snapshot) Categories() []string {
	return append([]string(nil), s.categories...)
}

// LoadedAt reports when this snapshot was fetched.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}
