// Package pricing computes item and cart totals from quantity tiers, the
// cart-wide bulk bonus and an optional coupon. Nothing here mutates its input.
package pricing

import (
	"shopcart/internal/domain"
	"shopcart/internal/service/coupon"

	"github.com/shopspring/decimal"
)

const (
	// BulkThreshold is the line quantity that unlocks the bulk bonus for the whole cart.
	BulkThreshold = 10
)

var (
	bulkBonus = decimal.RequireFromString("0.05")
	maxRate   = decimal.RequireFromString("0.5")
	one       = decimal.NewFromInt(1)
)

// QuantityDiscount returns the highest rate whose tier quantity is reached.
func QuantityDiscount(discounts []domain.Discount, quantity int) float64 {
	rate, _ := quantityDiscount(discounts, quantity).Float64()
	return rate
}

// BulkBonus adds the bulk bonus to baseRate when any line in the cart has
// reached BulkThreshold, capping the result at 0.5.
func BulkBonus(cart domain.Cart, baseRate float64) float64 {
	rate, _ := bulkRate(cart, decimal.NewFromFloat(baseRate)).Float64()
	return rate
}

// ItemRate is the effective discount rate of one cart line.
func ItemRate(item domain.CartItem, cart domain.Cart) float64 {
	rate, _ := itemRate(item, cart).Float64()
	return rate
}

// ItemTotal is the discounted, rounded total of one cart line.
func ItemTotal(item domain.CartItem, cart domain.Cart) int64 {
	gross := decimal.NewFromInt(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
	return gross.Mul(one.Sub(itemRate(item, cart))).Round(0).IntPart()
}

// Totals summarizes a cart.
type Totals struct {
	TotalBeforeDiscount int64 `json:"totalBeforeDiscount"`
	TotalAfterDiscount  int64 `json:"totalAfterDiscount"`
	ItemDiscount        int64 `json:"itemDiscountAmount"`
	CouponDiscount      int64 `json:"couponDiscountAmount"`
}

// CartTotals prices every line, then applies the selected coupon, if any.
func CartTotals(cart domain.Cart, selected *domain.Coupon) Totals {
	var before, afterItems int64
	for _, item := range cart {
		before += item.Product.Price * int64(item.Quantity)
		afterItems += ItemTotal(item, cart)
	}
	after := afterItems
	if selected != nil {
		after = coupon.ApplyDiscountToTotal(afterItems, *selected)
	}
	if after < 0 {
		after = 0
	}
	return Totals{
		TotalBeforeDiscount: before,
		TotalAfterDiscount:  after,
		ItemDiscount:        before - afterItems,
		CouponDiscount:      afterItems - after,
	}
}

// Line is a priced cart line for display.
type Line struct {
	Item            domain.CartItem `json:"item"`
	OriginalPrice   int64           `json:"originalPrice"`
	Total           int64           `json:"total"`
	DiscountPercent int64           `json:"discountPercent"`
	HasDiscount     bool            `json:"hasDiscount"`
}

// Lines prices each cart line in cart order.
func Lines(cart domain.Cart) []Line {
	out := make([]Line, 0, len(cart))
	for _, item := range cart {
		original := item.Product.Price * int64(item.Quantity)
		total := ItemTotal(item, cart)
		out = append(out, Line{
			Item:            item,
			OriginalPrice:   original,
			Total:           total,
			DiscountPercent: discountPercent(original, total),
			HasDiscount:     total < original,
		})
	}
	return out
}

func discountPercent(original, total int64) int64 {
	if original <= 0 || total >= original {
		return 0
	}
	saved := decimal.NewFromInt(original - total)
	return saved.Div(decimal.NewFromInt(original)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func quantityDiscount(discounts []domain.Discount, quantity int) decimal.Decimal {
	best := decimal.Zero
	for _, d := range discounts {
		if quantity < d.Quantity {
			continue
		}
		if r := decimal.NewFromFloat(d.Rate); r.GreaterThan(best) {
			best = r
		}
	}
	return best
}

func bulkRate(cart domain.Cart, base decimal.Decimal) decimal.Decimal {
	if !HasBulkPurchase(cart) {
		return base
	}
	return decimal.Min(base.Add(bulkBonus), maxRate)
}

func itemRate(item domain.CartItem, cart domain.Cart) decimal.Decimal {
	return bulkRate(cart, quantityDiscount(item.Product.Discounts, item.Quantity))
}

// HasBulkPurchase reports whether any line reached BulkThreshold.
func HasBulkPurchase(cart domain.Cart) bool {
	for _, item := range cart {
		if item.Quantity >= BulkThreshold {
			return true
		}
	}
	return false
}
