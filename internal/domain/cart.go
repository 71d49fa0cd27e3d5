package domain

// CartItem holds a snapshot of the product at the time it was added.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is an insertion-ordered list of items, unique by product id.
type Cart []CartItem

// Clone returns a deep copy of the cart.
func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	out := make(Cart, len(c))
	for i, item := range c {
		out[i] = CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return out
}
