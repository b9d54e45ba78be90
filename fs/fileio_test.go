package fs

import (
	"context"
	"testing"
)

// TestDefaultFileIOBasic exercises write/read/exists/rename/readdir/remove on
// a real temp dir.
func TestDefaultFileIOBasic(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fio := NewFileIO()
	sep := fio.Separator()

	fn := dir + sep + "entry1"
	if err := fio.WriteFile(ctx, fn, []byte("v1"), Permission); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !fio.Exists(ctx, fn) {
		t.Fatalf("Exists should see the written file")
	}
	ba, err := fio.ReadFile(ctx, fn)
	if err != nil || string(ba) != "v1" {
		t.Fatalf("ReadFile: %v %s", err, string(ba))
	}

	fn2 := dir + sep + "entry2"
	if err := fio.Rename(ctx, fn, fn2); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if fio.Exists(ctx, fn) || !fio.Exists(ctx, fn2) {
		t.Fatalf("Rename should have moved the file")
	}

	entries, err := fio.ReadDir(ctx, dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "entry2" {
		t.Fatalf("ReadDir returned %v, want [entry2]", entries)
	}

	if err := fio.Remove(ctx, fn2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fio.Exists(ctx, fn2) {
		t.Fatalf("removed file should be gone")
	}
}

// TestDefaultFileIOWriteCreatesFolder: writing into a missing folder creates
// it and retries the write.
func TestDefaultFileIOWriteCreatesFolder(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fio := NewFileIO()
	sep := fio.Separator()

	fn := dir + sep + "sub" + sep + "entry"
	if err := fio.WriteFile(ctx, fn, []byte("v"), Permission); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ba, err := fio.ReadFile(ctx, fn)
	if err != nil || string(ba) != "v" {
		t.Fatalf("ReadFile: %v %s", err, string(ba))
	}

	if err := fio.RemoveAll(ctx, dir+sep+"sub"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if fio.Exists(ctx, fn) {
		t.Fatalf("RemoveAll should have deleted the folder contents")
	}
}

func TestDefaultFileIOReadMissing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	fio := NewFileIO()

	if _, err := fio.ReadFile(ctx, dir+fio.Separator()+"nope"); err == nil {
		t.Fatalf("expected error reading a missing file")
	}
}
