// Package order finalizes a cart into an order confirmation.
package order

import (
	"fmt"
	"strings"
	"time"

	"shopcart/internal/domain"
	cartengine "shopcart/internal/service/cart"

	"github.com/google/uuid"
)

// NumberFunc generates order numbers.
type NumberFunc func() string

// Confirmation is returned on checkout. The caller must reset the cart and
// the selected coupon when ResetCart and ResetCoupon are set.
type Confirmation struct {
	OrderNumber string `json:"orderNumber"`
	Message     string `json:"message"`
	ResetCart   bool   `json:"-"`
	ResetCoupon bool   `json:"-"`
}

// NewNumber returns "ORD-<unix millis>-<8 hex chars>".
func NewNumber() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

// Complete checks out c. An empty cart is rejected with EmptyCart.
func Complete(c domain.Cart, next NumberFunc) (Confirmation, error) {
	if cartengine.IsEmpty(c) {
		return Confirmation{}, domain.NewError(domain.KindEmptyCart, 0, "cart is empty")
	}
	if next == nil {
		next = NewNumber
	}
	number := next()
	return Confirmation{
		OrderNumber: number,
		Message:     fmt.Sprintf("order completed, order number %s", number),
		ResetCart:   true,
		ResetCoupon: true,
	}, nil
}
