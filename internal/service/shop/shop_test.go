package shop

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"shopcart/internal/domain"
	"shopcart/internal/metrics"
	"shopcart/internal/repository/state"
)

type stubPublisher struct {
	events []domain.OrderCompleted
	err    error
}

func (p *stubPublisher) PublishOrderCompleted(_ context.Context, evt domain.OrderCompleted) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evt)
	return nil
}

// failingRepo fails any write that touches failKey, or every write when
// failKey is empty.
type failingRepo struct {
	state.Repository
	err     error
	failKey string
}

func (r failingRepo) fails(key string) bool {
	return r.failKey == "" || r.failKey == key
}

func (r failingRepo) Set(ctx context.Context, shopKey, key string, value any) error {
	if r.fails(key) {
		return r.err
	}
	return r.Repository.Set(ctx, shopKey, key, value)
}

func (r failingRepo) SetMany(ctx context.Context, shopKey string, entries ...state.Entry) error {
	for _, e := range entries {
		if r.fails(e.Key) {
			return r.err
		}
	}
	return r.Repository.SetMany(ctx, shopKey, entries...)
}

func newTestService(t *testing.T, pub Publisher) *Service {
	t.Helper()
	return newTestServiceWithRepo(t, state.NewMemory(), pub)
}

func newTestServiceWithRepo(t *testing.T, repo state.Repository, pub Publisher) *Service {
	t.Helper()
	ids, orders := 0, 0
	return New(repo, Options{
		Metrics:   metrics.New(),
		Publisher: pub,
		NewProductID: func() string {
			ids++
			return fmt.Sprintf("p-new-%d", ids)
		},
		NewOrderNumber: func() string {
			orders++
			return fmt.Sprintf("ORD-test-%d", orders)
		},
		Now: func() time.Time { return time.Unix(1700000000, 0) },
	})
}

func addLine(t *testing.T, s *Service, shopKey, productID string, quantity int) CartView {
	t.Helper()
	v, err := s.UpdateCart(context.Background(), shopKey, UpdateInput{
		Actions: []UpdateAction{{Action: "addLineItem", ProductID: productID, Quantity: quantity}},
	})
	if err != nil {
		t.Fatalf("add %d x %s: %v", quantity, productID, err)
	}
	return v
}

func TestSnapshot_FreshShopHasDefaults(t *testing.T) {
	s := newTestService(t, nil)
	snap, err := s.Snapshot(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Products) != 3 || len(snap.Coupons) != 2 {
		t.Fatalf("unexpected defaults: %d products, %d coupons", len(snap.Products), len(snap.Coupons))
	}
	if len(snap.Cart) != 0 || snap.SelectedCoupon != nil {
		t.Fatalf("expected empty cart and no coupon, got %+v / %+v", snap.Cart, snap.SelectedCoupon)
	}
	if snap.Preferences.IsAdmin || snap.Preferences.SearchTerm != "" {
		t.Fatalf("unexpected preferences %+v", snap.Preferences)
	}
}

func TestAddToCart_BulkLinePricing(t *testing.T) {
	s := newTestService(t, nil)
	v := addLine(t, s, "shop", "p1", 10)
	if len(v.Lines) != 1 || v.Lines[0].Item.Quantity != 10 {
		t.Fatalf("unexpected lines %+v", v.Lines)
	}
	// 10% tier plus the 5% bulk bonus earned by the line itself.
	if v.Lines[0].Total != 85000 {
		t.Fatalf("line total = %d, want 85000", v.Lines[0].Total)
	}
	if v.Totals.TotalBeforeDiscount != 100000 || v.Totals.TotalAfterDiscount != 85000 {
		t.Fatalf("unexpected totals %+v", v.Totals)
	}
	if v.ItemCount != 10 {
		t.Fatalf("item count = %d", v.ItemCount)
	}
}

func TestAddToCart_BulkBonusReachesOtherLines(t *testing.T) {
	s := newTestService(t, nil)
	addLine(t, s, "shop", "p1", 10)
	v := addLine(t, s, "shop", "p2", 1)
	if v.Lines[1].Total != 19000 {
		t.Fatalf("p2 line total = %d, want 19000", v.Lines[1].Total)
	}
	if v.Totals.TotalBeforeDiscount != 120000 || v.Totals.TotalAfterDiscount != 104000 {
		t.Fatalf("unexpected totals %+v", v.Totals)
	}
}

func TestAddToCart_OutOfStock(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	addLine(t, s, "shop", "p1", 20)

	_, err := s.AddToCart(ctx, "shop", "p1")
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected OutOfStock, got %v", err)
	}
	status, err := s.StockStatus(ctx, "shop", "p1")
	if err != nil {
		t.Fatalf("StockStatus: %v", err)
	}
	if status.RemainingStock != 0 || !status.IsOutOfStock || status.Level != "out" || status.MaxDiscountPercent != 20 {
		t.Fatalf("unexpected status %+v", status)
	}
	v, _ := s.Cart(ctx, "shop")
	if v.Lines[0].Item.Quantity != 20 {
		t.Fatalf("rejected add changed the cart: %+v", v.Lines)
	}
}

func TestAddToCart_UnknownProduct(t *testing.T) {
	_, err := newTestService(t, nil).AddToCart(context.Background(), "shop", "nope")
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	addLine(t, s, "shop", "p1", 2)

	if _, err := s.UpdateQuantity(ctx, "shop", "p1", 21); !errors.Is(err, domain.ErrStockExceeded) {
		t.Fatalf("expected StockExceeded, got %v", err)
	}
	v, err := s.UpdateQuantity(ctx, "shop", "p1", 5)
	if err != nil || v.Lines[0].Item.Quantity != 5 {
		t.Fatalf("set quantity: %v %+v", err, v.Lines)
	}
	v, err = s.UpdateQuantity(ctx, "shop", "p1", 0)
	if err != nil || len(v.Lines) != 0 {
		t.Fatalf("zero quantity should remove the line: %v %+v", err, v.Lines)
	}
	if _, err := s.UpdateQuantity(ctx, "shop", "p1", 3); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected NotFound for absent line, got %v", err)
	}
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	addLine(t, s, "shop", "p1", 1)
	addLine(t, s, "shop", "p2", 1)

	v, err := s.RemoveFromCart(ctx, "shop", "p1")
	if err != nil {
		t.Fatalf("RemoveFromCart: %v", err)
	}
	if len(v.Lines) != 1 || v.Lines[0].Item.Product.ID != "p2" {
		t.Fatalf("unexpected lines %+v", v.Lines)
	}
	if _, err := s.RemoveFromCart(ctx, "shop", "p1"); err != nil {
		t.Fatalf("removing an absent line should succeed: %v", err)
	}
}

func TestUpdateCart_IsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	_, err := s.UpdateCart(ctx, "shop", UpdateInput{Actions: []UpdateAction{
		{Action: "addLineItem", ProductID: "p1", Quantity: 2},
		{Action: "changeLineItemQuantity", ProductID: "p9", Quantity: 1},
	}})
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	v, _ := s.Cart(ctx, "shop")
	if len(v.Lines) != 0 {
		t.Fatalf("failed batch was partially saved: %+v", v.Lines)
	}
}

func TestUpdateCart_RejectsMalformedInput(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	cases := []UpdateInput{
		{},
		{Actions: []UpdateAction{{Action: "addLineItem"}}},
		{Actions: []UpdateAction{{Action: "explode", ProductID: "p1"}}},
	}
	for i, in := range cases {
		if _, err := s.UpdateCart(ctx, "shop", in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestUpdateCart_RemoveLineItem(t *testing.T) {
	s := newTestService(t, nil)
	addLine(t, s, "shop", "p1", 3)
	v, err := s.UpdateCart(context.Background(), "shop", UpdateInput{Actions: []UpdateAction{
		{Action: "removeLineItem", ProductID: "p1"},
	}})
	if err != nil || len(v.Lines) != 0 {
		t.Fatalf("remove: %v %+v", err, v.Lines)
	}
}

func TestAddProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	created, err := s.AddProduct(ctx, "shop", domain.Product{Name: "Keyboard", Price: 45000, Stock: 7})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if created.ID != "p-new-1" {
		t.Fatalf("id=%q", created.ID)
	}
	products, _ := s.Products(ctx, "shop", "")
	if len(products) != 4 || products[3].Name != "Keyboard" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestAddProduct_RejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	_, err := s.AddProduct(ctx, "shop", domain.Product{Name: "Crate", Price: 100, Stock: 10000})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected InvalidRange, got %v", err)
	}
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Limit != 9999 {
		t.Fatalf("expected clamped limit 9999, got %+v", derr)
	}
	_, err = s.AddProduct(ctx, "shop", domain.Product{Name: "Bad tier", Price: 100, Stock: 1,
		Discounts: []domain.Discount{{Quantity: 0, Rate: 0.1}}})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected InvalidRange for tier, got %v", err)
	}
	products, _ := s.Products(ctx, "shop", "")
	if len(products) != 3 {
		t.Fatalf("rejected product was stored")
	}
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	price := int64(12000)
	updated, err := s.UpdateProduct(ctx, "shop", "p1", domain.ProductUpdate{Price: &price})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Price != 12000 || updated.Name != "Product 1" {
		t.Fatalf("unexpected product %+v", updated)
	}
	got, _ := s.Product(ctx, "shop", "p1")
	if got.Price != 12000 {
		t.Fatalf("update not persisted: %+v", got)
	}

	if _, err := s.UpdateProduct(ctx, "shop", "missing", domain.ProductUpdate{Price: &price}); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	negative := int64(-1)
	if _, err := s.UpdateProduct(ctx, "shop", "p1", domain.ProductUpdate{Price: &negative}); !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected InvalidRange, got %v", err)
	}
}

func TestDeleteProduct_CascadesToCart(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	addLine(t, s, "shop", "p1", 1)
	addLine(t, s, "shop", "p2", 2)

	if err := s.DeleteProduct(ctx, "shop", "p2"); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	snap, _ := s.Snapshot(ctx, "shop")
	if len(snap.Products) != 2 {
		t.Fatalf("product not removed: %+v", snap.Products)
	}
	if len(snap.Cart) != 1 || snap.Cart[0].Product.ID != "p1" {
		t.Fatalf("cart line not removed: %+v", snap.Cart)
	}
	if err := s.DeleteProduct(ctx, "shop", "p2"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if err := s.DeleteProduct(ctx, "fresh", "missing"); err != nil {
		t.Fatalf("delete of unknown product: %v", err)
	}
	snap, _ = s.Snapshot(ctx, "shop")
	if len(snap.Products) != 2 || len(snap.Cart) != 1 {
		t.Fatalf("no-op delete changed state: %+v %+v", snap.Products, snap.Cart)
	}
}

func TestProducts_Search(t *testing.T) {
	s := newTestService(t, nil)
	got, err := s.Products(context.Background(), "shop", "product 2")
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("unexpected search result %+v", got)
	}
}

func TestImportProducts(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	report, err := s.ImportProducts(ctx, "shop", []domain.Product{
		{Name: "Mouse", Price: 15000, Stock: 30},
		{Name: "Broken", Price: -5, Stock: 1},
		{Name: "Pad", Price: 5000, Stock: 100, Discounts: []domain.Discount{{Quantity: 5, Rate: 0.1}}},
	})
	if err != nil {
		t.Fatalf("ImportProducts: %v", err)
	}
	if len(report.Added) != 2 || len(report.Skipped) != 1 || report.Skipped[0].Index != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	products, _ := s.Products(ctx, "shop", "")
	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}
}

func TestAddCoupon(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	created, err := s.AddCoupon(ctx, "shop", domain.Coupon{Code: "welcome 20", Name: "Welcome", DiscountType: domain.DiscountPercentage, DiscountValue: 20})
	if err != nil {
		t.Fatalf("AddCoupon: %v", err)
	}
	if created.Code != "WELCOME20" {
		t.Fatalf("code=%q", created.Code)
	}

	_, err = s.AddCoupon(ctx, "shop", domain.Coupon{Code: "percent10", DiscountType: domain.DiscountPercentage, DiscountValue: 5})
	if !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected DuplicateCode, got %v", err)
	}
	_, err = s.AddCoupon(ctx, "shop", domain.Coupon{Code: "HUGE", DiscountType: domain.DiscountPercentage, DiscountValue: 150})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected InvalidRange, got %v", err)
	}
	coupons, _ := s.Coupons(ctx, "shop")
	if len(coupons) != 3 {
		t.Fatalf("expected 3 coupons, got %+v", coupons)
	}
}

func TestApplyCoupon(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	if _, err := s.ApplyCoupon(ctx, "shop", "PERCENT10"); !errors.Is(err, domain.ErrCouponRejected) {
		t.Fatalf("expected rejection on empty cart, got %v", err)
	}
	if _, err := s.ApplyCoupon(ctx, "shop", "NOPE"); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	addLine(t, s, "shop", "p1", 10)
	v, err := s.ApplyCoupon(ctx, "shop", "AMOUNT5000")
	if err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	if v.Totals.TotalAfterDiscount != 80000 || v.Totals.CouponDiscount != 5000 {
		t.Fatalf("unexpected totals %+v", v.Totals)
	}
	v, err = s.ApplyCoupon(ctx, "shop", "PERCENT10")
	if err != nil {
		t.Fatalf("ApplyCoupon percent: %v", err)
	}
	if v.Totals.TotalAfterDiscount != 76500 {
		t.Fatalf("total after 10%% = %d, want 76500", v.Totals.TotalAfterDiscount)
	}
	v, err = s.ClearCoupon(ctx, "shop")
	if err != nil || v.SelectedCoupon != nil || v.Totals.TotalAfterDiscount != 85000 {
		t.Fatalf("ClearCoupon: %v %+v", err, v)
	}
}

func TestDeleteCoupon_ClearsSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	addLine(t, s, "shop", "p1", 1)
	if _, err := s.ApplyCoupon(ctx, "shop", "AMOUNT5000"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	if err := s.DeleteCoupon(ctx, "shop", "PERCENT10"); err != nil {
		t.Fatalf("DeleteCoupon other: %v", err)
	}
	v, _ := s.Cart(ctx, "shop")
	if v.SelectedCoupon == nil {
		t.Fatalf("deleting another coupon cleared the selection")
	}
	if err := s.DeleteCoupon(ctx, "shop", "AMOUNT5000"); err != nil {
		t.Fatalf("DeleteCoupon: %v", err)
	}
	v, _ = s.Cart(ctx, "shop")
	if v.SelectedCoupon != nil {
		t.Fatalf("selection not cleared: %+v", v.SelectedCoupon)
	}
	if err := s.DeleteCoupon(ctx, "shop", "AMOUNT5000"); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
	if err := s.DeleteCoupon(ctx, "fresh", "NOPE"); err != nil {
		t.Fatalf("delete of unknown coupon: %v", err)
	}
	coupons, _ := s.Coupons(ctx, "fresh")
	if len(coupons) != 2 {
		t.Fatalf("no-op delete changed coupons: %+v", coupons)
	}
}

func TestUpdateCoupon(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	addLine(t, s, "shop", "p1", 1)
	if _, err := s.ApplyCoupon(ctx, "shop", "AMOUNT5000"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}

	value := int64(3000)
	name := "3000 off"
	updated, err := s.UpdateCoupon(ctx, "shop", "AMOUNT5000", domain.CouponUpdate{Name: &name, DiscountValue: &value})
	if err != nil {
		t.Fatalf("UpdateCoupon: %v", err)
	}
	if updated.Code != "AMOUNT5000" || updated.Name != name || updated.DiscountValue != 3000 {
		t.Fatalf("unexpected coupon %+v", updated)
	}
	v, _ := s.Cart(ctx, "shop")
	if v.SelectedCoupon == nil || v.SelectedCoupon.DiscountValue != 3000 {
		t.Fatalf("selected coupon not refreshed: %+v", v.SelectedCoupon)
	}
	if v.Totals.TotalAfterDiscount != 7000 {
		t.Fatalf("total after update = %d", v.Totals.TotalAfterDiscount)
	}

	pct := domain.DiscountPercentage
	if _, err := s.UpdateCoupon(ctx, "shop", "AMOUNT5000", domain.CouponUpdate{DiscountType: &pct}); !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected InvalidRange for 3000%%, got %v", err)
	}
	coupons, _ := s.Coupons(ctx, "shop")
	if c := coupons[0]; c.DiscountType != domain.DiscountAmount || c.DiscountValue != 3000 {
		t.Fatalf("rejected update changed the coupon: %+v", c)
	}

	if _, err := s.UpdateCoupon(ctx, "shop", "NOPE", domain.CouponUpdate{Name: &name}); !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCompleteOrder(t *testing.T) {
	ctx := context.Background()
	pub := &stubPublisher{}
	s := newTestService(t, pub)

	if _, err := s.CompleteOrder(ctx, "shop"); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected EmptyCart, got %v", err)
	}

	addLine(t, s, "shop", "p1", 10)
	if _, err := s.ApplyCoupon(ctx, "shop", "AMOUNT5000"); err != nil {
		t.Fatalf("ApplyCoupon: %v", err)
	}
	conf, err := s.CompleteOrder(ctx, "shop")
	if err != nil {
		t.Fatalf("CompleteOrder: %v", err)
	}
	if conf.OrderNumber != "ORD-test-1" {
		t.Fatalf("order number=%q", conf.OrderNumber)
	}

	v, _ := s.Cart(ctx, "shop")
	if len(v.Lines) != 0 || v.SelectedCoupon != nil {
		t.Fatalf("cart not reset: %+v", v)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected one event, got %d", len(pub.events))
	}
	evt := pub.events[0]
	if evt.ShopKey != "shop" || evt.CouponCode != "AMOUNT5000" || evt.TotalAfterDiscount != 80000 || len(evt.Lines) != 1 {
		t.Fatalf("unexpected event %+v", evt)
	}
	if !evt.CompletedAt.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("completedAt=%v", evt.CompletedAt)
	}
}

func TestCompleteOrder_PublishFailureKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, &stubPublisher{err: errors.New("broker down")})
	addLine(t, s, "shop", "p3", 1)
	if _, err := s.CompleteOrder(ctx, "shop"); err != nil {
		t.Fatalf("CompleteOrder: %v", err)
	}
	v, _ := s.Cart(ctx, "shop")
	if len(v.Lines) != 0 {
		t.Fatalf("cart not reset after publish failure")
	}
}

func TestStoreFailureIsNotARejection(t *testing.T) {
	boom := errors.New("disk full")
	s := newTestServiceWithRepo(t, failingRepo{Repository: state.NewMemory(), err: boom}, nil)
	_, err := s.AddToCart(context.Background(), "shop", "p1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if domain.KindOf(err) != "" {
		t.Fatalf("store failure classified as %q", domain.KindOf(err))
	}
}

func TestCompleteOrder_FailedSaveKeepsCart(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	repo := failingRepo{Repository: state.NewMemory(), err: boom, failKey: state.KeySelectedCoupon}
	pub := &stubPublisher{}
	s := newTestServiceWithRepo(t, repo, pub)

	addLine(t, s, "shop", "p1", 1)
	if _, err := s.CompleteOrder(ctx, "shop"); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	v, err := s.Cart(ctx, "shop")
	if err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if len(v.Lines) != 1 || v.Lines[0].Item.Quantity != 1 {
		t.Fatalf("cart changed by failed order: %+v", v.Lines)
	}
	if len(pub.events) != 0 {
		t.Fatalf("failed order was published")
	}
}

func TestDeleteProduct_FailedSaveKeepsCatalog(t *testing.T) {
	ctx := context.Background()
	repo := failingRepo{Repository: state.NewMemory(), err: errors.New("boom"), failKey: state.KeyCart}
	s := newTestServiceWithRepo(t, repo, nil)

	if err := s.DeleteProduct(ctx, "shop", "p1"); err == nil {
		t.Fatalf("expected store error")
	}
	if _, err := s.Product(ctx, "shop", "p1"); err != nil {
		t.Fatalf("product removed by failed delete: %v", err)
	}
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	want := domain.Preferences{IsAdmin: true, SearchTerm: "mug"}
	if err := s.SetPreferences(ctx, "shop", want); err != nil {
		t.Fatalf("SetPreferences: %v", err)
	}
	got, err := s.Preferences(ctx, "shop")
	if err != nil || got != want {
		t.Fatalf("Preferences: %v %+v", err, got)
	}
}

func TestShopsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	addLine(t, s, "a", "p1", 2)
	v, _ := s.Cart(ctx, "b")
	if len(v.Lines) != 0 {
		t.Fatalf("shop b sees shop a cart")
	}
}
