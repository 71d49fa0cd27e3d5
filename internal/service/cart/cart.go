// Package cart implements the stock-aware cart transitions. Every function
// takes the current cart and returns the next one; inputs are never modified.
package cart

import (
	"shopcart/internal/domain"
)

// LowStockThreshold is the remaining stock at or below which a product is flagged as low.
const LowStockThreshold = 5

// AddItem puts one more unit of product into the cart. It fails with
// OutOfStock, returning the cart unchanged, once the cart already holds all
// of the product's stock. The existing line quantity is not compared with the
// remaining stock, so adding keeps succeeding until the stock is used up.
func AddItem(c domain.Cart, product domain.Product) (domain.Cart, error) {
	remaining := RemainingStock(product, c)
	if remaining <= 0 {
		return c, domain.NewError(domain.KindOutOfStock, int64(remaining),
			"only %d of %q left in stock", remaining, product.Name)
	}

	idx := indexOf(c, product.ID)
	if idx < 0 {
		out := c.Clone()
		return append(out, domain.CartItem{Product: product.Clone(), Quantity: 1}), nil
	}
	out := c.Clone()
	out[idx].Quantity++
	return out, nil
}

// RemoveItem drops the line for productID. Removing an absent product is a no-op.
func RemoveItem(c domain.Cart, productID string) domain.Cart {
	out := make(domain.Cart, 0, len(c))
	for _, item := range c {
		if item.Product.ID != productID {
			out = append(out, copyItem(item))
		}
	}
	return out
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line.
func UpdateQuantity(c domain.Cart, productID string, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return RemoveItem(c, productID), nil
	}
	idx := indexOf(c, productID)
	if idx < 0 {
		return c, domain.NewError(domain.KindNotFound, 0, "product %q is not in the cart", productID)
	}
	if stock := c[idx].Product.Stock; quantity > stock {
		return c, domain.NewError(domain.KindStockExceeded, int64(stock),
			"only %d of %q in stock", stock, c[idx].Product.Name)
	}
	out := c.Clone()
	out[idx].Quantity = quantity
	return out, nil
}

// QuantityInCart returns how many units of productID the cart holds.
func QuantityInCart(c domain.Cart, productID string) int {
	if idx := indexOf(c, productID); idx >= 0 {
		return c[idx].Quantity
	}
	return 0
}

// RemainingStock is the product's stock minus what the cart already holds, floored at zero.
func RemainingStock(product domain.Product, c domain.Cart) int {
	remaining := product.Stock - QuantityInCart(c, product.ID)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func StockStatus(product domain.Product, c domain.Cart) domain.StockStatus {
	remaining := RemainingStock(product, c)
	return domain.StockStatus{
		RemainingStock: remaining,
		IsLowStock:     remaining > 0 && remaining <= LowStockThreshold,
		IsOutOfStock:   remaining <= 0,
	}
}

func IsEmpty(c domain.Cart) bool {
	return len(c) == 0
}

// ItemCount is the total number of units across all lines.
func ItemCount(c domain.Cart) int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}

// copyItem returns item with its product snapshot deep-copied.
func copyItem(item domain.CartItem) domain.CartItem {
	return domain.CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
}

func indexOf(c domain.Cart, productID string) int {
	for i, item := range c {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}
