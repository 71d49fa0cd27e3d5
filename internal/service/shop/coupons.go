package shop

import (
	"context"

	"shopcart/internal/domain"
	"shopcart/internal/repository/state"
	"shopcart/internal/service/coupon"
	"shopcart/internal/service/pricing"
)

func (s *Service) Coupons(ctx context.Context, shopKey string) (out []domain.Coupon, err error) {
	ctx, done := s.begin(ctx, "coupons", shopKey)
	defer func() { done(err) }()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return nil, err
	}
	return snap.Coupons, nil
}

// AddCoupon normalises the code and appends c. The discount value must lie
// within the range for its type.
func (s *Service) AddCoupon(ctx context.Context, shopKey string, c domain.Coupon) (created domain.Coupon, err error) {
	ctx, done := s.begin(ctx, "add_coupon", shopKey)
	defer func() { done(err) }()

	c.Code = coupon.FormatCode(c.Code)
	if c.Code == "" {
		return domain.Coupon{}, domain.NewError(domain.KindInvalidRange, 0, "coupon code required")
	}
	if err := coupon.ValidateDiscountRange(c.DiscountType, c.DiscountValue).Err(); err != nil {
		return domain.Coupon{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return domain.Coupon{}, err
	}
	coupons, err := coupon.Add(snap.Coupons, c)
	if err != nil {
		return domain.Coupon{}, err
	}
	if err := s.save(ctx, shopKey, write{Key: state.KeyCoupons, Value: coupons}); err != nil {
		return domain.Coupon{}, err
	}
	return c, nil
}

// UpdateCoupon merges updates into the coupon with code. The merged value must
// stay within the range for its type. A selected copy of the coupon is
// refreshed in the same write.
func (s *Service) UpdateCoupon(ctx context.Context, shopKey, code string, updates domain.CouponUpdate) (updated domain.Coupon, err error) {
	ctx, done := s.begin(ctx, "update_coupon", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return domain.Coupon{}, err
	}
	if _, ok := coupon.FindByCode(snap.Coupons, code); !ok {
		return domain.Coupon{}, notFound("coupon", code)
	}
	coupons := coupon.Update(snap.Coupons, code, updates)
	updated, _ = coupon.FindByCode(coupons, code)
	if err := coupon.ValidateDiscountRange(updated.DiscountType, updated.DiscountValue).Err(); err != nil {
		return domain.Coupon{}, err
	}

	writes := []write{{Key: state.KeyCoupons, Value: coupons}}
	if snap.SelectedCoupon != nil && snap.SelectedCoupon.Code == code {
		selected := updated
		writes = append(writes, write{Key: state.KeySelectedCoupon, Value: &selected})
	}
	if err := s.save(ctx, shopKey, writes...); err != nil {
		return domain.Coupon{}, err
	}
	return updated, nil
}

// DeleteCoupon removes the coupon, dropping it from the cart when selected.
// An unknown code is a no-op.
func (s *Service) DeleteCoupon(ctx context.Context, shopKey, code string) (err error) {
	ctx, done := s.begin(ctx, "delete_coupon", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return err
	}
	if _, ok := coupon.FindByCode(snap.Coupons, code); !ok {
		return nil
	}
	res := coupon.Delete(snap.Coupons, code, snap.SelectedCoupon)
	writes := []write{{Key: state.KeyCoupons, Value: res.Coupons}}
	if res.ClearSelected {
		writes = append(writes, write{Key: state.KeySelectedCoupon, Value: (*domain.Coupon)(nil)})
	}
	return s.save(ctx, shopKey, writes...)
}

// ApplyCoupon selects the coupon for the cart. Eligibility is judged on the
// cart total after item discounts and before any coupon.
func (s *Service) ApplyCoupon(ctx context.Context, shopKey, code string) (v CartView, err error) {
	ctx, done := s.begin(ctx, "apply_coupon", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return CartView{}, err
	}
	c, ok := coupon.FindByCode(snap.Coupons, code)
	if !ok {
		return CartView{}, notFound("coupon", code)
	}
	total := pricing.CartTotals(snap.Cart, nil).TotalAfterDiscount
	if check := coupon.Apply(c, total); !check.Valid {
		return CartView{}, domain.NewError(domain.KindCouponRejected, coupon.MinTotalForPercentage, "%s", check.Message)
	}
	if err := s.save(ctx, shopKey, write{Key: state.KeySelectedCoupon, Value: &c}); err != nil {
		return CartView{}, err
	}
	return view(snap.Cart, &c), nil
}

func (s *Service) ClearCoupon(ctx context.Context, shopKey string) (v CartView, err error) {
	ctx, done := s.begin(ctx, "clear_coupon", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return CartView{}, err
	}
	if err := s.save(ctx, shopKey, write{Key: state.KeySelectedCoupon, Value: (*domain.Coupon)(nil)}); err != nil {
		return CartView{}, err
	}
	return view(snap.Cart, nil), nil
}
