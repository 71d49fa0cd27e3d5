package domain

// Discount is a quantity tier: buying at least Quantity units unlocks Rate.
type Discount struct {
	Quantity int     `json:"quantity"`
	Rate     float64 `json:"rate"`
}

type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       int64      `json:"price"`
	Stock       int        `json:"stock"`
	Discounts   []Discount `json:"discounts"`
	Recommended bool       `json:"isRecommended,omitempty"`
}

// Clone returns a copy that shares no slices with p.
func (p Product) Clone() Product {
	out := p
	if p.Discounts != nil {
		out.Discounts = append([]Discount(nil), p.Discounts...)
	}
	return out
}

// ProductUpdate carries a partial product update. Nil fields are left as is.
type ProductUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Price       *int64      `json:"price,omitempty"`
	Stock       *int        `json:"stock,omitempty"`
	Discounts   *[]Discount `json:"discounts,omitempty"`
	Recommended *bool       `json:"isRecommended,omitempty"`
}

// StockStatus describes what is left of a product once the cart is accounted for.
// MaxDiscountPercent is the best quantity tier the product offers.
type StockStatus struct {
	RemainingStock     int    `json:"remainingStock"`
	IsLowStock         bool   `json:"isLowStock"`
	IsOutOfStock       bool   `json:"isOutOfStock"`
	Level              string `json:"level,omitempty"`
	MaxDiscountPercent int    `json:"maxDiscountPercent"`
}
