package domain

import "time"

// OrderLine is one cart line as it was priced at checkout.
type OrderLine struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Total     int64  `json:"total"`
}

// OrderCompleted is published after a successful checkout.
type OrderCompleted struct {
	OrderNumber         string      `json:"orderNumber"`
	ShopKey             string      `json:"shopKey"`
	Lines               []OrderLine `json:"lines"`
	CouponCode          string      `json:"couponCode,omitempty"`
	TotalBeforeDiscount int64       `json:"totalBeforeDiscount"`
	TotalAfterDiscount  int64       `json:"totalAfterDiscount"`
	CompletedAt         time.Time   `json:"completedAt"`
}
