// Package coupon validates, applies and maintains the coupon list.
package coupon

import (
	"fmt"
	"strings"
	"unicode"

	"shopcart/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	// MinTotalForPercentage is the cart total below which percentage coupons are refused.
	MinTotalForPercentage int64 = 10_000
	MaxPercentage         int64 = 100
	MaxAmount             int64 = 100_000
)

// Check is the outcome of trying to apply a coupon to a cart.
type Check struct {
	Valid   bool   `json:"isValid"`
	Message string `json:"message,omitempty"`
}

// Apply decides whether coupon may be used on a cart whose item-discounted
// total, before any coupon, is cartTotal.
func Apply(c domain.Coupon, cartTotal int64) Check {
	if c.DiscountType == domain.DiscountPercentage && cartTotal < MinTotalForPercentage {
		return Check{
			Valid:   false,
			Message: fmt.Sprintf("percentage coupons require a cart total of at least %d", MinTotalForPercentage),
		}
	}
	return Check{Valid: true}
}

// ApplyDiscountToTotal returns total after the coupon, never below zero.
func ApplyDiscountToTotal(total int64, c domain.Coupon) int64 {
	switch c.DiscountType {
	case domain.DiscountAmount:
		if total-c.DiscountValue < 0 {
			return 0
		}
		return total - c.DiscountValue
	case domain.DiscountPercentage:
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(c.DiscountValue).Div(decimal.NewFromInt(100)))
		out := decimal.NewFromInt(total).Mul(factor).Round(0).IntPart()
		if out < 0 {
			return 0
		}
		return out
	default:
		return total
	}
}

// Add appends c unless its code is already taken. The input is not modified.
func Add(coupons []domain.Coupon, c domain.Coupon) ([]domain.Coupon, error) {
	if IsDuplicateCode(coupons, c.Code) {
		return coupons, domain.NewError(domain.KindDuplicateCode, 0, "coupon code %q already exists", c.Code)
	}
	out := make([]domain.Coupon, 0, len(coupons)+1)
	out = append(out, coupons...)
	return append(out, c), nil
}

// DeleteResult is returned by Delete. ClearSelected tells the caller the
// selected coupon was the one removed and must be dropped.
type DeleteResult struct {
	Coupons       []domain.Coupon
	ClearSelected bool
}

// Delete removes the coupon with code. Removing an unknown code is a no-op.
func Delete(coupons []domain.Coupon, code string, selected *domain.Coupon) DeleteResult {
	out := make([]domain.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if c.Code != code {
			out = append(out, c)
		}
	}
	return DeleteResult{
		Coupons:       out,
		ClearSelected: selected != nil && selected.Code == code,
	}
}

// Update merges updates into the coupon with code; no-op if it is absent.
func Update(coupons []domain.Coupon, code string, updates domain.CouponUpdate) []domain.Coupon {
	out := make([]domain.Coupon, len(coupons))
	for i, c := range coupons {
		if c.Code == code {
			if updates.Name != nil {
				c.Name = *updates.Name
			}
			if updates.DiscountType != nil {
				c.DiscountType = *updates.DiscountType
			}
			if updates.DiscountValue != nil {
				c.DiscountValue = *updates.DiscountValue
			}
		}
		out[i] = c
	}
	return out
}

// ValidateDiscountRange clamps value into the range allowed for t.
func ValidateDiscountRange(t domain.DiscountType, value int64) domain.Validation {
	if t == domain.DiscountPercentage {
		switch {
		case value > MaxPercentage:
			return domain.Validation{Message: fmt.Sprintf("percentage cannot exceed %d", MaxPercentage), Value: MaxPercentage}
		case value < 0:
			return domain.Validation{Message: "percentage cannot be negative", Value: 0}
		}
		return domain.Validation{Valid: true, Value: value}
	}
	switch {
	case value > MaxAmount:
		return domain.Validation{Message: fmt.Sprintf("discount amount cannot exceed %d", MaxAmount), Value: MaxAmount}
	case value < 0:
		return domain.Validation{Message: "discount amount cannot be negative", Value: 0}
	}
	return domain.Validation{Valid: true, Value: value}
}

func IsDuplicateCode(coupons []domain.Coupon, code string) bool {
	_, ok := FindByCode(coupons, code)
	return ok
}

func FindByCode(coupons []domain.Coupon, code string) (domain.Coupon, bool) {
	for _, c := range coupons {
		if c.Code == code {
			return c, true
		}
	}
	return domain.Coupon{}, false
}

// FormatCode upper-cases a code and strips all whitespace.
func FormatCode(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, code)
}
