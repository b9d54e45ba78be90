// Package fs contains the backend filesystem abstraction the store persists
// entries onto, together with the default local-disk implementation and an
// in-memory simulator for tests. A backend offers a hierarchical namespace
// with per-entry atomic move and delete; no cross-entry atomicity is assumed.
package fs

import (
	"context"
	"os"
	"path/filepath"

	retry "github.com/sethvargo/go-retry"
	"github.com/sharedcode/geostore"
)

// FileIO defines the filesystem operations used by the store. The default
// implementation delegates to the standard library's os package with retry
// semantics for transient errors.
type FileIO interface {
	WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error
	ReadFile(ctx context.Context, name string) ([]byte, error)
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, path string) bool

	// Rename moves src onto dst. Each rename is assumed atomic at the backend
	// level; the store builds its commit protocol on that assumption.
	Rename(ctx context.Context, src string, dst string) error

	// Directory API.
	RemoveAll(ctx context.Context, path string) error
	MkdirAll(ctx context.Context, path string, perm os.FileMode) error
	ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error)

	// Separator returns the path separator used to join a folder and an entry name.
	Separator() string
}

// Directory/File permission.
const Permission os.FileMode = os.ModeSticky | os.ModePerm

type defaultFileIO struct {
}

// NewFileIO returns a FileIO that performs I/O via the os package with basic
// retry handling for transient errors.
func NewFileIO() FileIO {
	return &defaultFileIO{}
}

func (dio defaultFileIO) WriteFile(ctx context.Context, name string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(name, data, perm); err != nil {
		dirPath := filepath.Dir(name)
		if derr := dio.MkdirAll(ctx, dirPath, perm); derr == nil {
			return geostore.Retry(ctx, func(context.Context) error {
				err := os.WriteFile(name, data, perm)
				if geostore.ShouldRetry(err) {
					return retry.RetryableError(
						geostore.Error{
							Code: geostore.FileIOError,
							Err:  err,
						})
				}
				return err
			}, nil)
		}
		return err
	}
	return nil
}
func (dio defaultFileIO) ReadFile(ctx context.Context, name string) ([]byte, error) {
	var ba []byte
	err := geostore.Retry(ctx, func(context.Context) error {
		var err error
		ba, err = os.ReadFile(name)
		if geostore.ShouldRetry(err) {
			return retry.RetryableError(
				geostore.Error{
					Code: geostore.FileIOError,
					Err:  err,
				})
		}
		return err
	}, nil)
	return ba, err
}
func (dio defaultFileIO) Remove(ctx context.Context, name string) error {
	return geostore.Retry(ctx, func(context.Context) error {
		err := os.Remove(name)
		if geostore.ShouldRetry(err) {
			return retry.RetryableError(
				geostore.Error{
					Code: geostore.FileIOError,
					Err:  err,
				})
		}
		return err
	}, nil)
}
func (dio defaultFileIO) Rename(ctx context.Context, src string, dst string) error {
	return geostore.Retry(ctx, func(context.Context) error {
		err := os.Rename(src, dst)
		if geostore.ShouldRetry(err) {
			return retry.RetryableError(
				geostore.Error{
					Code: geostore.FileIOError,
					Err:  err,
				})
		}
		return err
	}, nil)
}

func (dio defaultFileIO) MkdirAll(ctx context.Context, path string, perm os.FileMode) error {
	return geostore.Retry(ctx, func(context.Context) error {
		err := os.MkdirAll(path, perm)
		if geostore.ShouldRetry(err) {
			return retry.RetryableError(
				geostore.Error{
					Code: geostore.FileIOError,
					Err:  err,
				})
		}
		return err
	}, nil)
}
func (dio defaultFileIO) RemoveAll(ctx context.Context, path string) error {
	return geostore.Retry(ctx, func(context.Context) error {
		err := os.RemoveAll(path)
		if geostore.ShouldRetry(err) {
			return retry.RetryableError(
				geostore.Error{
					Code: geostore.FileIOError,
					Err:  err,
				})
		}
		return err
	}, nil)
}
func (dio defaultFileIO) Exists(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return true
	}
	return false
}
func (dio defaultFileIO) ReadDir(ctx context.Context, sourceDir string) ([]os.DirEntry, error) {
	var r []os.DirEntry
	err := geostore.Retry(ctx, func(context.Context) error {
		var err error
		r, err = os.ReadDir(sourceDir)
		if geostore.ShouldRetry(err) {
			return retry.RetryableError(geostore.Error{
				Code: geostore.FileIOError,
				Err:  err,
			})
		}
		return err
	}, nil)
	return r, err
}

func (dio defaultFileIO) Separator() string {
	return string(os.PathSeparator)
}
