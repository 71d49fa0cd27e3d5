// Package shop threads a shop's persisted state through the pure engines.
// Every operation loads the snapshot, calls an engine, and only then writes
// the returned values back.
package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"shopcart/internal/domain"
	"shopcart/internal/metrics"
	"shopcart/internal/repository/state"
	"shopcart/internal/seed"
	"shopcart/internal/service/catalog"
	"shopcart/internal/service/order"
)

// Publisher receives completed orders.
type Publisher interface {
	PublishOrderCompleted(ctx context.Context, evt domain.OrderCompleted) error
}

type Options struct {
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	Publisher       Publisher
	Limits          catalog.Limits
	NewProductID    catalog.IDFunc
	NewOrderNumber  order.NumberFunc
	Now             func() time.Time
	DefaultProducts func() []domain.Product
	DefaultCoupons  func() []domain.Coupon
}

type Service struct {
	repo      state.Repository
	logger    *zap.Logger
	metrics   *metrics.Metrics
	publisher Publisher
	tracer    trace.Tracer
	limits    catalog.Limits
	newID     catalog.IDFunc
	newNumber order.NumberFunc
	now       func() time.Time
	products  func() []domain.Product
	coupons   func() []domain.Coupon

	// mu serializes read-modify-write cycles against the store.
	mu sync.Mutex
}

func New(repo state.Repository, opts Options) *Service {
	s := &Service{
		repo:      repo,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		publisher: opts.Publisher,
		tracer:    otel.Tracer("shopcart/shop"),
		limits:    opts.Limits,
		newID:     opts.NewProductID,
		newNumber: opts.NewOrderNumber,
		now:       opts.Now,
		products:  opts.DefaultProducts,
		coupons:   opts.DefaultCoupons,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.limits == (catalog.Limits{}) {
		s.limits = catalog.DefaultLimits()
	}
	if s.newID == nil {
		s.newID = catalog.NewID
	}
	if s.newNumber == nil {
		s.newNumber = order.NewNumber
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.products == nil {
		s.products = seed.DefaultProducts
	}
	if s.coupons == nil {
		s.coupons = seed.DefaultCoupons
	}
	return s
}

// Limits returns the bounds applied to product input.
func (s *Service) Limits() catalog.Limits {
	return s.limits
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Snapshot is everything persisted for one shop.
type Snapshot struct {
	Products       []domain.Product   `json:"products"`
	Coupons        []domain.Coupon    `json:"coupons"`
	Cart           domain.Cart        `json:"cart"`
	SelectedCoupon *domain.Coupon     `json:"selectedCoupon"`
	Preferences    domain.Preferences `json:"preferences"`
}

func (s *Service) Snapshot(ctx context.Context, shopKey string) (snap Snapshot, err error) {
	ctx, done := s.begin(ctx, "snapshot", shopKey)
	defer func() { done(err) }()
	return s.load(ctx, shopKey)
}

func (s *Service) load(ctx context.Context, shopKey string) (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)
	if snap.Products, err = get(ctx, s.repo, shopKey, state.KeyProducts, s.products); err != nil {
		return Snapshot{}, err
	}
	if snap.Coupons, err = get(ctx, s.repo, shopKey, state.KeyCoupons, s.coupons); err != nil {
		return Snapshot{}, err
	}
	if snap.Cart, err = get(ctx, s.repo, shopKey, state.KeyCart, func() domain.Cart { return domain.Cart{} }); err != nil {
		return Snapshot{}, err
	}
	if snap.SelectedCoupon, err = get[*domain.Coupon](ctx, s.repo, shopKey, state.KeySelectedCoupon, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Preferences.IsAdmin, err = get[bool](ctx, s.repo, shopKey, state.KeyIsAdmin, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Preferences.SearchTerm, err = get[string](ctx, s.repo, shopKey, state.KeySearchTerm, nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Products == nil {
		snap.Products = []domain.Product{}
	}
	if snap.Coupons == nil {
		snap.Coupons = []domain.Coupon{}
	}
	if snap.Cart == nil {
		snap.Cart = domain.Cart{}
	}
	return snap, nil
}

// get decodes key into a fresh value, falling back to def (or the zero
// value when def is nil) when nothing is stored.
func get[T any](ctx context.Context, repo state.Repository, shopKey, key string, def func() T) (T, error) {
	var v T
	ok, err := repo.Get(ctx, shopKey, key, &v)
	if err != nil {
		return v, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok && def != nil {
		return def(), nil
	}
	return v, nil
}

type write = state.Entry

// save stores every write in one atomic step, so a failed operation leaves
// the shop as it was.
func (s *Service) save(ctx context.Context, shopKey string, writes ...write) error {
	if err := s.repo.SetMany(ctx, shopKey, writes...); err != nil {
		return fmt.Errorf("save %s: %w", writeKeys(writes), err)
	}
	return nil
}

func writeKeys(writes []write) string {
	keys := make([]string, len(writes))
	for i, w := range writes {
		keys[i] = w.Key
	}
	return strings.Join(keys, ",")
}

// begin opens a span for op and returns the matching completion callback,
// which records the outcome in metrics, logs and the span.
func (s *Service) begin(ctx context.Context, op, shopKey string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "shop."+op, trace.WithAttributes(
		attribute.String("shop.key", shopKey),
	))
	start := s.now()
	return ctx, func(err error) {
		defer span.End()
		outcome := metrics.OutcomeOK
		switch {
		case err == nil:
		case domain.KindOf(err) != "" || errors.Is(err, domain.ErrInvalidInput):
			outcome = metrics.OutcomeRejected
			span.SetAttributes(attribute.String("shop.rejection", string(domain.KindOf(err))))
			s.logger.Info("operation rejected",
				zap.String("op", op),
				zap.String("shop_key", shopKey),
				zap.String("kind", string(domain.KindOf(err))),
				zap.String("reason", err.Error()),
			)
		default:
			outcome = metrics.OutcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error("operation failed",
				zap.String("op", op),
				zap.String("shop_key", shopKey),
				zap.Duration("elapsed", s.now().Sub(start)),
				zap.Error(err),
			)
		}
		s.metrics.Observe(op, outcome)
	}
}

func notFound(what, id string) error {
	return domain.NewError(domain.KindNotFound, 0, "%s %q not found", what, id)
}
