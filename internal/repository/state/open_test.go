package state

import (
	"context"
	"testing"

	"shopcart/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	repo, closeFn, err := Open(context.Background(), config.Config{StoreBackend: config.StoreMemory}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closeFn()
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, _, err := Open(context.Background(), config.Config{StoreBackend: "etcd"}, nil); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
