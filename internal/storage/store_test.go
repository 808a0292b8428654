package storage_test

import (
	"context"
	"os"
	"testing"

	"storygeo/internal/storage"
	"storygeo/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.RunStoreTests(t, storage.NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	m := storage.NewMemory()
	ctx := context.Background()
	v := []byte("abc")
	m.Set(ctx, "k", v)
	v[0] = 'x'

	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value changed through caller slice: %s", got)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("Skipping redis test: REDIS_ADDR not set")
	}

	r, err := storage.NewRedis(context.Background(), storage.RedisConfig{Addr: addr, Prefix: "storygeo_test:"})
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer r.Close()

	storagetest.RunStoreTests(t, r)
}
