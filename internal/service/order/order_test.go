package order

import (
	"errors"
	"strings"
	"testing"

	"shopcart/internal/domain"
)

func TestCompleteEmptyCart(t *testing.T) {
	_, err := Complete(nil, nil)
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestCompleteIssuesNumber(t *testing.T) {
	c := domain.Cart{{Product: domain.Product{ID: "p1", Price: 100, Stock: 1}, Quantity: 1}}
	got, err := Complete(c, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got.OrderNumber, "ORD-") {
		t.Fatalf("unexpected order number %q", got.OrderNumber)
	}
	if !strings.Contains(got.Message, got.OrderNumber) {
		t.Fatalf("message should mention the order number: %q", got.Message)
	}
	if !got.ResetCart || !got.ResetCoupon {
		t.Fatalf("expected reset signals, got %+v", got)
	}
}

func TestCompleteUsesGenerator(t *testing.T) {
	c := domain.Cart{{Product: domain.Product{ID: "p1"}, Quantity: 1}}
	got, err := Complete(c, func() string { return "ORD-1" })
	if err != nil || got.OrderNumber != "ORD-1" {
		t.Fatalf("unexpected result %+v %v", got, err)
	}
}

func TestNewNumberIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := NewNumber()
		if seen[n] {
			t.Fatalf("duplicate order number %s", n)
		}
		seen[n] = true
	}
}
