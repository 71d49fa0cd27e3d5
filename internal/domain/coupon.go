package domain

type DiscountType string

const (
	DiscountAmount     DiscountType = "amount"
	DiscountPercentage DiscountType = "percentage"
)

// Coupon is a cart-wide discount. DiscountValue is a currency amount for
// DiscountAmount and a whole percentage (0-100) for DiscountPercentage.
type Coupon struct {
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue int64        `json:"discountValue"`
}

// CouponUpdate carries a partial coupon update. The code is immutable.
type CouponUpdate struct {
	Name          *string       `json:"name,omitempty"`
	DiscountType  *DiscountType `json:"discountType,omitempty"`
	DiscountValue *int64        `json:"discountValue,omitempty"`
}
