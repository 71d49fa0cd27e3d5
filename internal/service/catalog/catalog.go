// Package catalog maintains the product list and validates admin input.
package catalog

import (
	"strings"

	"shopcart/internal/domain"

	"github.com/google/uuid"
)

// IDFunc generates product ids.
type IDFunc func() string

// NewID returns a product id of the form "p-<uuid>".
func NewID() string {
	return "p-" + uuid.NewString()
}

// Add assigns a fresh id to p and appends it. If newID is nil, NewID is used.
func Add(products []domain.Product, p domain.Product, newID IDFunc) ([]domain.Product, domain.Product) {
	if newID == nil {
		newID = NewID
	}
	created := p.Clone()
	created.ID = newID()
	for {
		if _, taken := Find(products, created.ID); !taken {
			break
		}
		created.ID = newID()
	}
	out := make([]domain.Product, 0, len(products)+1)
	for _, existing := range products {
		out = append(out, existing.Clone())
	}
	return append(out, created), created
}

// Update merges updates into the product with id. It reports whether the
// product existed; when it did not, the list is returned unchanged.
func Update(products []domain.Product, id string, updates domain.ProductUpdate) ([]domain.Product, bool) {
	found := false
	out := make([]domain.Product, len(products))
	for i, p := range products {
		p = p.Clone()
		if p.ID == id {
			found = true
			applyUpdate(&p, updates)
		}
		out[i] = p
	}
	if !found {
		return products, false
	}
	return out, true
}

// Delete removes the product with id.
func Delete(products []domain.Product, id string) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			out = append(out, p.Clone())
		}
	}
	return out
}

func Find(products []domain.Product, id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Search matches term case-insensitively against name or description.
// An empty or blank term returns every product.
func Search(products []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out
}

// MaxDiscountRate is the best tier rate a product offers.
func MaxDiscountRate(p domain.Product) float64 {
	best := 0.0
	for _, d := range p.Discounts {
		if d.Rate > best {
			best = d.Rate
		}
	}
	return best
}

// MaxDiscountPercentage is MaxDiscountRate as a rounded whole percentage.
func MaxDiscountPercentage(p domain.Product) int {
	return int(MaxDiscountRate(p)*100 + 0.5)
}

type StockLevel string

const (
	StockOut    StockLevel = "out"
	StockLow    StockLevel = "low"
	StockNormal StockLevel = "normal"
)

func Level(remaining int) StockLevel {
	switch {
	case remaining <= 0:
		return StockOut
	case remaining <= 5:
		return StockLow
	default:
		return StockNormal
	}
}

func applyUpdate(p *domain.Product, u domain.ProductUpdate) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Discounts != nil {
		p.Discounts = append([]domain.Discount(nil), (*u.Discounts)...)
	}
	if u.Recommended != nil {
		p.Recommended = *u.Recommended
	}
}
