package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fsStore, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	return map[string]Store{
		"memory": NewMemory(),
		"fs":     fsStore,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			info, err := store.Put(ctx, "backups/clinic-2025-03-14.db", strings.NewReader("snapshot"))
			if err != nil {
				t.Fatalf("put: %v", err)
			}
			if info.Size != int64(len("snapshot")) {
				t.Fatalf("expected size %d, got %d", len("snapshot"), info.Size)
			}

			rc, err := store.Get(ctx, "backups/clinic-2025-03-14.db")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(data) != "snapshot" {
				t.Fatalf("unexpected content: %q", data)
			}
		})
	}
}

func TestPutReplacesExisting(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Put(ctx, "k", strings.NewReader("v1")); err != nil {
				t.Fatalf("put v1: %v", err)
			}
			if _, err := store.Put(ctx, "k", strings.NewReader("v2")); err != nil {
				t.Fatalf("put v2: %v", err)
			}
			rc, err := store.Get(ctx, "k")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			defer rc.Close()
			data, _ := io.ReadAll(rc)
			if string(data) != "v2" {
				t.Fatalf("expected v2, got %q", data)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Get(context.Background(), "nope"); err != ErrNotFound {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestListByPrefix(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, key := range []string{"backups/a.db", "backups/b.db", "reports/r.pdf"} {
				if _, err := store.Put(ctx, key, strings.NewReader("x")); err != nil {
					t.Fatalf("put %s: %v", key, err)
				}
			}
			infos, err := store.List(ctx, "backups/")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(infos) != 2 {
				t.Fatalf("expected 2 blobs, got %d", len(infos))
			}
			for _, info := range infos {
				if !strings.HasPrefix(info.Key, "backups/") {
					t.Fatalf("unexpected key: %s", info.Key)
				}
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Put(ctx, "k", strings.NewReader("v")); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := store.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := store.Get(ctx, "k"); err != ErrNotFound {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			if err := store.Delete(ctx, "k"); err != ErrNotFound {
				t.Fatalf("expected ErrNotFound for second delete, got %v", err)
			}
		})
	}
}

func TestRejectsBadKeys(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "/abs", "../escape"} {
				if _, err := store.Put(context.Background(), key, strings.NewReader("x")); err == nil {
					t.Fatalf("expected error for key %q", key)
				}
			}
		})
	}
}
