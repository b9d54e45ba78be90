package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sharedcode/geostore/fs"
	"github.com/sharedcode/geostore/redis"
)

// TestReadThroughCaches: within the refresh interval reads come from cache,
// so a backend mutation behind the cache's back stays invisible.
func TestReadThroughCaches(t *testing.T) {
	ctx := context.Background()
	sim := fs.NewFileIOSimulator()
	cfio := NewCachedFileIO(sim, redis.NewMockClient())

	if err := cfio.WriteFile(ctx, "root/a", []byte("v1"), fs.Permission); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ba, err := cfio.ReadFile(ctx, "root/a")
	if err != nil || string(ba) != "v1" {
		t.Fatalf("ReadFile: %v %s", err, string(ba))
	}

	// Mutate the backend directly; the cached copy should win until refresh.
	if err := sim.WriteFile(ctx, "root/a", []byte("v2"), fs.Permission); err != nil {
		t.Fatalf("backend WriteFile: %v", err)
	}
	ba, err = cfio.ReadFile(ctx, "root/a")
	if err != nil || string(ba) != "v1" {
		t.Fatalf("expected the cached copy, got: %v %s", err, string(ba))
	}
}

// TestRefreshIntervalElapsed: once the refresh interval passes, the backend
// is re-read and recached.
func TestRefreshIntervalElapsed(t *testing.T) {
	ctx := context.Background()
	sim := fs.NewFileIOSimulator()
	cfio := NewCachedFileIO(sim, redis.NewMockClient())

	if err := cfio.WriteFile(ctx, "root/a", []byte("v1"), fs.Permission); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := cfio.ReadFile(ctx, "root/a"); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := sim.WriteFile(ctx, "root/a", []byte("v2"), fs.Permission); err != nil {
		t.Fatalf("backend WriteFile: %v", err)
	}

	// Synthesize the clock past the default 5 minute refresh interval.
	Now = func() time.Time { return time.Now().Add(10 * time.Minute) }
	defer func() { Now = time.Now }()

	ba, err := cfio.ReadFile(ctx, "root/a")
	if err != nil || string(ba) != "v2" {
		t.Fatalf("expected a refreshed read, got: %v %s", err, string(ba))
	}
}

// TestWriteInvalidates: a write through the decorator drops the cached copy.
func TestWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	sim := fs.NewFileIOSimulator()
	cfio := NewCachedFileIO(sim, redis.NewMockClient())

	if err := cfio.WriteFile(ctx, "root/a", []byte("v1"), fs.Permission); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := cfio.ReadFile(ctx, "root/a"); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := cfio.WriteFile(ctx, "root/a", []byte("v2"), fs.Permission); err != nil {
		t.Fatalf("WriteFile 2: %v", err)
	}
	ba, err := cfio.ReadFile(ctx, "root/a")
	if err != nil || string(ba) != "v2" {
		t.Fatalf("expected the new value after invalidation, got: %v %s", err, string(ba))
	}
}

// TestRenameInvalidatesBothPaths mirrors the commit protocol's staged ->
// committed rename: both the old and the new path must read fresh.
func TestRenameInvalidatesBothPaths(t *testing.T) {
	ctx := context.Background()
	sim := fs.NewFileIOSimulator()
	cfio := NewCachedFileIO(sim, redis.NewMockClient())

	if err := cfio.WriteFile(ctx, "root/__a", []byte("staged"), fs.Permission); err != nil {
		t.Fatalf("WriteFile staged: %v", err)
	}
	if err := cfio.WriteFile(ctx, "root/a", []byte("committed"), fs.Permission); err != nil {
		t.Fatalf("WriteFile committed: %v", err)
	}
	if _, err := cfio.ReadFile(ctx, "root/a"); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if err := cfio.Rename(ctx, "root/__a", "root/a"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	ba, err := cfio.ReadFile(ctx, "root/a")
	if err != nil || !bytes.Equal(ba, []byte("staged")) {
		t.Fatalf("expected the renamed content, got: %v %s", err, string(ba))
	}
	if cfio.Exists(ctx, "root/__a") {
		t.Fatalf("staged path should be gone after rename")
	}
}

// TestRemoveInvalidates: a removed entry must not resurrect from cache.
func TestRemoveInvalidates(t *testing.T) {
	ctx := context.Background()
	sim := fs.NewFileIOSimulator()
	cfio := NewCachedFileIO(sim, redis.NewMockClient())

	if err := cfio.WriteFile(ctx, "root/a", []byte("v1"), fs.Permission); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := cfio.ReadFile(ctx, "root/a"); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if err := cfio.Remove(ctx, "root/a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := cfio.ReadFile(ctx, "root/a"); err == nil {
		t.Fatalf("expected a read error after remove")
	}
}
