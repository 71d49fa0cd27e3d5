package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"shopcart/internal/domain"
)

// Limits bounds admin-entered product values.
type Limits struct {
	MaxPrice int64
	MaxStock int
}

func DefaultLimits() Limits {
	return Limits{MaxPrice: 999_999_999, MaxStock: 9999}
}

// ValidatePrice clamps price into [0, MaxPrice].
func (l Limits) ValidatePrice(price int64) domain.Validation {
	switch {
	case price < 0:
		return domain.Validation{Message: "price cannot be negative", Value: 0}
	case price > l.MaxPrice:
		return domain.Validation{Message: fmt.Sprintf("price cannot exceed %d", l.MaxPrice), Value: l.MaxPrice}
	}
	return domain.Validation{Valid: true, Value: price}
}

// ValidateStock clamps stock into [0, MaxStock].
func (l Limits) ValidateStock(stock int) domain.Validation {
	switch {
	case stock < 0:
		return domain.Validation{Message: "stock cannot be negative", Value: 0}
	case stock > l.MaxStock:
		return domain.Validation{Message: fmt.Sprintf("stock cannot exceed %d", l.MaxStock), Value: int64(l.MaxStock)}
	}
	return domain.Validation{Valid: true, Value: int64(stock)}
}

// ParsePrice validates textual input. An empty string is a valid zero.
func (l Limits) ParsePrice(input string) domain.Validation {
	n, ok := parseDigits(input)
	if !ok {
		return domain.Validation{Message: "price must contain digits only", Value: 0}
	}
	return l.ValidatePrice(n)
}

// ParseStock validates textual input. An empty string is a valid zero.
func (l Limits) ParseStock(input string) domain.Validation {
	n, ok := parseDigits(input)
	if !ok {
		return domain.Validation{Message: "stock must contain digits only", Value: 0}
	}
	if n > int64(l.MaxStock) {
		return l.ValidateStock(l.MaxStock + 1)
	}
	return l.ValidateStock(int(n))
}

// ValidateDiscounts checks every tier: quantity at least 1, rate within [0, 1].
func ValidateDiscounts(discounts []domain.Discount) error {
	for i, d := range discounts {
		if d.Quantity < 1 {
			return domain.NewError(domain.KindInvalidRange, 1, "discount %d: quantity must be at least 1", i)
		}
		if d.Rate < 0 || d.Rate > 1 {
			return domain.NewError(domain.KindInvalidRange, 0, "discount %d: rate must be between 0 and 1", i)
		}
	}
	return nil
}

// Validate checks a whole product. Price and stock are clamped in the
// returned copy; the first violation, if any, is returned as the error.
func (l Limits) Validate(p domain.Product) (domain.Product, error) {
	out := p.Clone()
	var firstErr error
	price := l.ValidatePrice(p.Price)
	out.Price = price.Value
	if err := price.Err(); err != nil {
		firstErr = err
	}
	stock := l.ValidateStock(p.Stock)
	out.Stock = int(stock.Value)
	if err := stock.Err(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := ValidateDiscounts(p.Discounts); err != nil && firstErr == nil {
		firstErr = err
	}
	return out, firstErr
}

// overflowValue stands in for digit strings too long for int64. It is far
// above any ceiling, so validation clamps it.
const overflowValue int64 = 1 << 62

func parseDigits(input string) (int64, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return overflowValue, true
	}
	return n, true
}
