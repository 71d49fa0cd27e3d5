package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shopcart/internal/domain"
	"shopcart/internal/repository/state"
)

// DefaultProducts is the catalog a shop starts with.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "p1",
			Name:        "Product 1",
			Description: "Premium quality product.",
			Price:       10000,
			Stock:       20,
			Discounts:   []domain.Discount{{Quantity: 10, Rate: 0.1}, {Quantity: 20, Rate: 0.2}},
		},
		{
			ID:          "p2",
			Name:        "Product 2",
			Description: "Practical product with many features.",
			Price:       20000,
			Stock:       20,
			Discounts:   []domain.Discount{{Quantity: 10, Rate: 0.15}},
			Recommended: true,
		},
		{
			ID:          "p3",
			Name:        "Product 3",
			Description: "High capacity, high performance product.",
			Price:       30000,
			Stock:       20,
			Discounts:   []domain.Discount{{Quantity: 10, Rate: 0.2}, {Quantity: 30, Rate: 0.25}},
		},
	}
}

// DefaultCoupons is the coupon list a shop starts with.
func DefaultCoupons() []domain.Coupon {
	return []domain.Coupon{
		{Code: "AMOUNT5000", Name: "5000 off", DiscountType: domain.DiscountAmount, DiscountValue: 5000},
		{Code: "PERCENT10", Name: "10% off", DiscountType: domain.DiscountPercentage, DiscountValue: 10},
	}
}

// Apply writes the default catalog and coupons into shopKey. Existing values
// are kept unless overwrite is set.
func Apply(ctx context.Context, repo state.Repository, shopKey string, overwrite bool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := put(ctx, repo, shopKey, state.KeyProducts, DefaultProducts(), overwrite, logger); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := put(ctx, repo, shopKey, state.KeyCoupons, DefaultCoupons(), overwrite, logger); err != nil {
		return fmt.Errorf("seed coupons: %w", err)
	}
	return nil
}

func put(ctx context.Context, repo state.Repository, shopKey, key string, value any, overwrite bool, logger *zap.Logger) error {
	if !overwrite {
		var existing any
		ok, err := repo.Get(ctx, shopKey, key, &existing)
		if err != nil {
			return err
		}
		if ok {
			logger.Info("seed skipped, value present", zap.String("shop_key", shopKey), zap.String("key", key))
			return nil
		}
	}
	if err := repo.Set(ctx, shopKey, key, value); err != nil {
		return err
	}
	logger.Info("seeded", zap.String("shop_key", shopKey), zap.String("key", key))
	return nil
}
