package shop

import (
	"context"

	"shopcart/internal/domain"
	"shopcart/internal/repository/state"
	cartengine "shopcart/internal/service/cart"
	"shopcart/internal/service/catalog"
)

// Products lists the catalog filtered by term. A blank term lists everything.
func (s *Service) Products(ctx context.Context, shopKey, term string) (out []domain.Product, err error) {
	ctx, done := s.begin(ctx, "products", shopKey)
	defer func() { done(err) }()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return nil, err
	}
	return catalog.Search(snap.Products, term), nil
}

func (s *Service) Product(ctx context.Context, shopKey, productID string) (p domain.Product, err error) {
	ctx, done := s.begin(ctx, "product", shopKey)
	defer func() { done(err) }()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return domain.Product{}, err
	}
	p, ok := catalog.Find(snap.Products, productID)
	if !ok {
		return domain.Product{}, notFound("product", productID)
	}
	return p, nil
}

// AddProduct validates p and appends it under a fresh id.
func (s *Service) AddProduct(ctx context.Context, shopKey string, p domain.Product) (created domain.Product, err error) {
	ctx, done := s.begin(ctx, "add_product", shopKey)
	defer func() { done(err) }()

	if _, err := s.limits.Validate(p); err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return domain.Product{}, err
	}
	products, created := catalog.Add(snap.Products, p, s.newID)
	if err := s.save(ctx, shopKey, write{Key: state.KeyProducts, Value: products}); err != nil {
		return domain.Product{}, err
	}
	return created, nil
}

// UpdateProduct merges updates into the product. The merged product must
// still pass validation.
func (s *Service) UpdateProduct(ctx context.Context, shopKey, productID string, updates domain.ProductUpdate) (updated domain.Product, err error) {
	ctx, done := s.begin(ctx, "update_product", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return domain.Product{}, err
	}
	products, ok := catalog.Update(snap.Products, productID, updates)
	if !ok {
		return domain.Product{}, notFound("product", productID)
	}
	updated, _ = catalog.Find(products, productID)
	if _, err := s.limits.Validate(updated); err != nil {
		return domain.Product{}, err
	}
	if err := s.save(ctx, shopKey, write{Key: state.KeyProducts, Value: products}); err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes the product and its cart line, if any. An unknown id
// is a no-op.
func (s *Service) DeleteProduct(ctx context.Context, shopKey, productID string) (err error) {
	ctx, done := s.begin(ctx, "delete_product", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return err
	}
	if _, ok := catalog.Find(snap.Products, productID); !ok {
		return nil
	}
	products := catalog.Delete(snap.Products, productID)
	cart := cartengine.RemoveItem(snap.Cart, productID)
	return s.save(ctx, shopKey,
		write{Key: state.KeyProducts, Value: products},
		write{Key: state.KeyCart, Value: cart},
	)
}

// StockStatus reports what is left of a product after the current cart,
// with its stock level and best quantity discount.
func (s *Service) StockStatus(ctx context.Context, shopKey, productID string) (status domain.StockStatus, err error) {
	ctx, done := s.begin(ctx, "stock_status", shopKey)
	defer func() { done(err) }()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return domain.StockStatus{}, err
	}
	p, ok := catalog.Find(snap.Products, productID)
	if !ok {
		return domain.StockStatus{}, notFound("product", productID)
	}
	status = cartengine.StockStatus(p, snap.Cart)
	status.Level = string(catalog.Level(status.RemainingStock))
	status.MaxDiscountPercent = catalog.MaxDiscountPercentage(p)
	return status, nil
}

// ImportReport summarises ImportProducts.
type ImportReport struct {
	Added   []domain.Product `json:"added"`
	Skipped []SkippedProduct `json:"skipped"`
}

type SkippedProduct struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ImportProducts adds every valid product in one write. Invalid entries are
// reported and skipped.
func (s *Service) ImportProducts(ctx context.Context, shopKey string, incoming []domain.Product) (report ImportReport, err error) {
	ctx, done := s.begin(ctx, "import_products", shopKey)
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx, shopKey)
	if err != nil {
		return ImportReport{}, err
	}
	products := snap.Products
	report = ImportReport{Added: []domain.Product{}, Skipped: []SkippedProduct{}}
	for i, p := range incoming {
		if _, err := s.limits.Validate(p); err != nil {
			report.Skipped = append(report.Skipped, SkippedProduct{Index: i, Name: p.Name, Reason: err.Error()})
			continue
		}
		var created domain.Product
		products, created = catalog.Add(products, p, s.newID)
		report.Added = append(report.Added, created)
	}
	if len(report.Added) == 0 {
		return report, nil
	}
	if err := s.save(ctx, shopKey, write{Key: state.KeyProducts, Value: products}); err != nil {
		return ImportReport{}, err
	}
	return report, nil
}
