package state

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys under which a shop's state is stored.
const (
	KeyProducts       = "products"
	KeyCoupons        = "coupons"
	KeyCart           = "cart"
	KeySelectedCoupon = "selectedCoupon"
	KeyIsAdmin        = "isAdmin"
	KeySearchTerm     = "searchTerm"
)

// Repository is a JSON key-value store partitioned by shop key.
type Repository interface {
	// Get decodes the value stored under key into dst. It reports false,
	// leaving dst untouched, when nothing is stored.
	Get(ctx context.Context, shopKey, key string, dst any) (bool, error)
	Set(ctx context.Context, shopKey, key string, value any) error
	// SetMany writes all entries or none of them.
	SetMany(ctx context.Context, shopKey string, entries ...Entry) error
	Ping(ctx context.Context) error
}

// Entry is one key and the value to store under it.
type Entry struct {
	Key   string
	Value any
}

type encoded struct {
	key string
	raw []byte
}

// encodeAll marshals every entry up front so a bad value aborts the write
// before anything reaches the store.
func encodeAll(backend, shopKey string, entries []Entry) ([]encoded, error) {
	out := make([]encoded, 0, len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("state %s: encode %s/%s: %w", backend, shopKey, e.Key, err)
		}
		out = append(out, encoded{key: e.Key, raw: raw})
	}
	return out, nil
}
