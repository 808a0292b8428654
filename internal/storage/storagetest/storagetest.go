// Package storagetest checks storage.Store implementations against the shared contract
package storagetest

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"storygeo/internal/storage"
)

// RunStoreTests exercises the Store contract against s
func RunStoreTests(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		if _, err := s.Get(ctx, "absent"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get() error = %v, want storage.ErrNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		want := []byte(`{"name":"Ana","totalScore":30}`)
		if err := s.Set(ctx, storage.ProfileKey, want); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Get(ctx, storage.ProfileKey)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Get() = %s, want %s", got, want)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Set(ctx, storage.ProfileKey, []byte("v2")); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, storage.ProfileKey)
		if err != nil || string(got) != "v2" {
			t.Errorf("Get() = %s, %v; want v2", got, err)
		}
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		if err := s.Remove(ctx, storage.ProfileKey); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if err := s.Remove(ctx, storage.ProfileKey); err != nil {
			t.Fatalf("second Remove() error = %v", err)
		}
		if _, err := s.Get(ctx, storage.ProfileKey); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get() after Remove error = %v, want storage.ErrNotFound", err)
		}
	})
}
