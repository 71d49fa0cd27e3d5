package shop

import (
	"context"

	"go.uber.org/zap"

	"shopcart/internal/domain"
	"shopcart/internal/repository/state"
	"shopcart/internal/service/order"
	"shopcart/internal/service/pricing"
)

// CompleteOrder checks out the cart, resets the cart and the selected
// coupon, and publishes an OrderCompleted event. A failed publish is logged;
// the order still stands.
func (s *Service) CompleteOrder(ctx context.Context, shopKey string) (conf order.Confirmation, err error) {
	ctx, done := s.begin(ctx, "complete_order", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return order.Confirmation{}, err
	}
	conf, err = order.Complete(snap.Cart, s.newNumber)
	if err != nil {
		return order.Confirmation{}, err
	}
	evt := orderEvent(shopKey, conf.OrderNumber, snap)
	evt.CompletedAt = s.now().UTC()

	var writes []write
	if conf.ResetCart {
		writes = append(writes, write{Key: state.KeyCart, Value: domain.Cart{}})
	}
	if conf.ResetCoupon {
		writes = append(writes, write{Key: state.KeySelectedCoupon, Value: (*domain.Coupon)(nil)})
	}
	if err := s.save(ctx, shopKey, writes...); err != nil {
		return order.Confirmation{}, err
	}

	s.metrics.OrderCompleted(evt.TotalAfterDiscount)
	s.logger.Info("order completed",
		zap.String("shop_key", shopKey),
		zap.String("order_number", conf.OrderNumber),
		zap.Int64("total", evt.TotalAfterDiscount),
	)
	if s.publisher != nil {
		if err := s.publisher.PublishOrderCompleted(ctx, evt); err != nil {
			s.logger.Warn("order event not published", zap.String("order_number", conf.OrderNumber), zap.Error(err))
		}
	}
	return conf, nil
}

func orderEvent(shopKey, number string, snap Snapshot) domain.OrderCompleted {
	totals := pricing.CartTotals(snap.Cart, snap.SelectedCoupon)
	lines := make([]domain.OrderLine, 0, len(snap.Cart))
	for _, l := range pricing.Lines(snap.Cart) {
		lines = append(lines, domain.OrderLine{
			ProductID: l.Item.Product.ID,
			Name:      l.Item.Product.Name,
			Quantity:  l.Item.Quantity,
			Total:     l.Total,
		})
	}
	evt := domain.OrderCompleted{
		OrderNumber:         number,
		ShopKey:             shopKey,
		Lines:               lines,
		TotalBeforeDiscount: totals.TotalBeforeDiscount,
		TotalAfterDiscount:  totals.TotalAfterDiscount,
	}
	if snap.SelectedCoupon != nil {
		evt.CouponCode = snap.SelectedCoupon.Code
	}
	return evt
}
