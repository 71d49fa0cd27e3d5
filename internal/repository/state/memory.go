package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type memoryRepo struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemory returns a process-local Repository. Values are stored encoded so
// callers never share memory with the store.
func NewMemory() Repository {
	return &memoryRepo{data: make(map[string]map[string][]byte)}
}

func (r *memoryRepo) Get(_ context.Context, shopKey, key string, dst any) (bool, error) {
	r.mu.RLock()
	raw, ok := r.data[shopKey][key]
	r.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("state memory: decode %s/%s: %w", shopKey, key, err)
	}
	return true, nil
}

func (r *memoryRepo) Set(ctx context.Context, shopKey, key string, value any) error {
	return r.SetMany(ctx, shopKey, Entry{Key: key, Value: value})
}

func (r *memoryRepo) SetMany(_ context.Context, shopKey string, entries ...Entry) error {
	values, err := encodeAll("memory", shopKey, entries)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	shop, ok := r.data[shopKey]
	if !ok {
		shop = make(map[string][]byte)
		r.data[shopKey] = shop
	}
	for _, v := range values {
		shop[v.key] = v.raw
	}
	return nil
}

func (r *memoryRepo) Ping(context.Context) error {
	return nil
}
