package fs

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type simFileInfo struct {
	name string
}

func (fi simFileInfo) Name() string    { return fi.name }
func (simFileInfo) Size() int64        { return 0 }
func (simFileInfo) Mode() os.FileMode  { return 0 }
func (simFileInfo) ModTime() time.Time { return time.Now() }
func (simFileInfo) IsDir() bool        { return false }
func (simFileInfo) Sys() any           { return nil }

type simDirEntry struct {
	name string
}

func (de simDirEntry) Name() string               { return de.name }
func (simDirEntry) IsDir() bool                   { return false }
func (simDirEntry) Type() os.FileMode             { return 0 }
func (de simDirEntry) Info() (os.FileInfo, error) { return simFileInfo{name: de.name}, nil }

// FileIOSimulator is an in-memory FileIO used by tests. It keys entries by
// full path and can induce an error on any operation whose path contains a
// given fragment, which the store tests use for partial-commit coverage.
type FileIOSimulator struct {
	lookup map[string][]byte
	dirs   map[string]struct{}
	locker sync.Mutex

	// Fragment matched against paths; "" disables error induction.
	errorOnNameContains string
}

// NewFileIOSimulator returns an empty in-memory FileIO.
func NewFileIOSimulator() *FileIOSimulator {
	return &FileIOSimulator{
		lookup: make(map[string][]byte),
		dirs:   make(map[string]struct{}),
	}
}

// SetErrorOnNameContains makes every subsequent operation fail whose path
// contains fragment. Pass "" to clear.
func (sim *FileIOSimulator) SetErrorOnNameContains(fragment string) {
	sim.locker.Lock()
	sim.errorOnNameContains = fragment
	sim.locker.Unlock()
}

func (sim *FileIOSimulator) induceError(name string) error {
	if sim.errorOnNameContains != "" && strings.Contains(name, sim.errorOnNameContains) {
		return fmt.Errorf("induced error on %s", name)
	}
	return nil
}

func (sim *FileIOSimulator) WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error {
	sim.locker.Lock()
	defer sim.locker.Unlock()
	if err := sim.induceError(name); err != nil {
		return err
	}
	sim.lookup[name] = data
	return nil
}

func (sim *FileIOSimulator) ReadFile(ctx context.Context, name string) ([]byte, error) {
	sim.locker.Lock()
	defer sim.locker.Unlock()
	if err := sim.induceError(name); err != nil {
		return nil, err
	}
	ba, ok := sim.lookup[name]
	if !ok {
		return nil, fmt.Errorf("file %s not found", name)
	}
	return ba, nil
}

func (sim *FileIOSimulator) Remove(ctx context.Context, name string) error {
	sim.locker.Lock()
	defer sim.locker.Unlock()
	if err := sim.induceError(name); err != nil {
		return err
	}
	delete(sim.lookup, name)
	return nil
}

func (sim *FileIOSimulator) Rename(ctx context.Context, src string, dst string) error {
	sim.locker.Lock()
	defer sim.locker.Unlock()
	if err := sim.induceError(src); err != nil {
		return err
	}
	ba, ok := sim.lookup[src]
	if !ok {
		return fmt.Errorf("file %s not found", src)
	}
	sim.lookup[dst] = ba
	delete(sim.lookup, src)
	return nil
}

func (sim *FileIOSimulator) Exists(ctx context.Context, path string) bool {
	sim.locker.Lock()
	defer sim.locker.Unlock()
	if _, ok := sim.lookup[path]; ok {
		return true
	}
	if _, ok := sim.dirs[path]; ok {
		return true
	}
	return false
}

// Directory API.
func (sim *FileIOSimulator) RemoveAll(ctx context.Context, path string) error {
	sim.locker.Lock()
	defer sim.locker.Unlock()
	if err := sim.induceError(path); err != nil {
		return err
	}
	delete(sim.lookup, path)
	for k := range sim.lookup {
		if strings.HasPrefix(k, path+sim.sep()) {
			delete(sim.lookup, k)
		}
	}
	delete(sim.dirs, path)
	return nil
}

func (sim *FileIOSimulator) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	sim.locker.Lock()
	defer sim.locker.Unlock()
	if err := sim.induceError(path); err != nil {
		return err
	}
	sim.dirs[path] = struct{}{}
	return nil
}

func (sim *FileIOSimulator) ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error) {
	sim.locker.Lock()
	defer sim.locker.Unlock()
	if err := sim.induceError(sourceDir); err != nil {
		return nil, err
	}
	prefix := sourceDir + sim.sep()
	names := make([]string, 0)
	for k := range sim.lookup {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := strings.TrimPrefix(k, prefix)
		// Only direct children.
		if strings.Contains(rest, sim.sep()) {
			continue
		}
		names = append(names, rest)
	}
	sort.Strings(names)
	r := make([]os.DirEntry, len(names))
	for i, n := range names {
		r[i] = simDirEntry{name: n}
	}
	return r, nil
}

func (sim *FileIOSimulator) Separator() string {
	return sim.sep()
}

func (sim *FileIOSimulator) sep() string {
	return "/"
}
