package shop

import (
	"context"
	"fmt"
	"strings"

	"shopcart/internal/domain"
	"shopcart/internal/repository/state"
	cartengine "shopcart/internal/service/cart"
	"shopcart/internal/service/catalog"
	"shopcart/internal/service/pricing"
)

// CartView is the priced cart.
type CartView struct {
	Lines          []pricing.Line `json:"lines"`
	Totals         pricing.Totals `json:"totals"`
	SelectedCoupon *domain.Coupon `json:"selectedCoupon"`
	ItemCount      int            `json:"itemCount"`
}

func view(c domain.Cart, selected *domain.Coupon) CartView {
	return CartView{
		Lines:          pricing.Lines(c),
		Totals:         pricing.CartTotals(c, selected),
		SelectedCoupon: selected,
		ItemCount:      cartengine.ItemCount(c),
	}
}

func (s *Service) Cart(ctx context.Context, shopKey string) (v CartView, err error) {
	ctx, done := s.begin(ctx, "cart", shopKey)
	defer func() { done(err) }()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return CartView{}, err
	}
	return view(snap.Cart, snap.SelectedCoupon), nil
}

// AddToCart adds one unit of the catalog product.
func (s *Service) AddToCart(ctx context.Context, shopKey, productID string) (v CartView, err error) {
	ctx, done := s.begin(ctx, "add_to_cart", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return CartView{}, err
	}
	next, err := addToCart(snap, productID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.save(ctx, shopKey, write{Key: state.KeyCart, Value: next}); err != nil {
		return CartView{}, err
	}
	return view(next, snap.SelectedCoupon), nil
}

func (s *Service) RemoveFromCart(ctx context.Context, shopKey, productID string) (v CartView, err error) {
	ctx, done := s.begin(ctx, "remove_from_cart", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return CartView{}, err
	}
	next := cartengine.RemoveItem(snap.Cart, productID)
	if err := s.save(ctx, shopKey, write{Key: state.KeyCart, Value: next}); err != nil {
		return CartView{}, err
	}
	return view(next, snap.SelectedCoupon), nil
}

// UpdateQuantity sets the line quantity. Zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, shopKey, productID string, quantity int) (v CartView, err error) {
	ctx, done := s.begin(ctx, "update_quantity", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return CartView{}, err
	}
	next, err := cartengine.UpdateQuantity(snap.Cart, productID, quantity)
	if err != nil {
		return CartView{}, err
	}
	if err := s.save(ctx, shopKey, write{Key: state.KeyCart, Value: next}); err != nil {
		return CartView{}, err
	}
	return view(next, snap.SelectedCoupon), nil
}

// UpdateInput is a batch of cart actions applied in order. Either every
// action succeeds and the cart is saved once, or nothing is saved.
type UpdateInput struct {
	Actions []UpdateAction `json:"actions"`
}

type UpdateAction struct {
	Action    string `json:"action"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

func (s *Service) UpdateCart(ctx context.Context, shopKey string, in UpdateInput) (v CartView, err error) {
	ctx, done := s.begin(ctx, "update_cart", shopKey)
	defer func() { done(err) }()

	if len(in.Actions) == 0 {
		return CartView{}, fmt.Errorf("actions required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return CartView{}, err
	}
	for i, action := range in.Actions {
		productID := strings.TrimSpace(action.ProductID)
		if productID == "" {
			return CartView{}, fmt.Errorf("action %d: productId required: %w", i, domain.ErrInvalidInput)
		}
		switch strings.ToLower(strings.TrimSpace(action.Action)) {
		case "addlineitem":
			quantity := action.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			for n := 0; n < quantity; n++ {
				if snap.Cart, err = addToCart(snap, productID); err != nil {
					return CartView{}, err
				}
			}
		case "changelineitemquantity":
			if snap.Cart, err = cartengine.UpdateQuantity(snap.Cart, productID, action.Quantity); err != nil {
				return CartView{}, err
			}
		case "removelineitem":
			snap.Cart = cartengine.RemoveItem(snap.Cart, productID)
		default:
			return CartView{}, fmt.Errorf("action %d: unsupported action %q: %w", i, action.Action, domain.ErrInvalidInput)
		}
	}
	if err := s.save(ctx, shopKey, write{Key: state.KeyCart, Value: snap.Cart}); err != nil {
		return CartView{}, err
	}
	return view(snap.Cart, snap.SelectedCoupon), nil
}

func addToCart(snap Snapshot, productID string) (domain.Cart, error) {
	p, ok := catalog.Find(snap.Products, productID)
	if !ok {
		return snap.Cart, notFound("product", productID)
	}
	return cartengine.AddItem(snap.Cart, p)
}
