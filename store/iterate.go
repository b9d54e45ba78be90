package store

import (
	"context"
	"strings"

	"github.com/sharedcode/geostore"
)

// Keys lists the logical keys under the store's root, re-querying the backend
// on every call. Physical names are reported with their leading reserved
// prefix characters stripped, so a staged entry left behind by a crashed
// writer is indistinguishable from a committed key here.
func (s *Store[T]) Keys(ctx context.Context) ([][]byte, error) {
	entries, err := s.fileIO.ReadDir(ctx, s.root)
	if err != nil {
		return nil, err
	}
	r := make([][]byte, 0, len(entries))
	for _, entry := range entries {
		r = append(r, []byte(strings.TrimLeft(entry.Name(), "_")))
	}
	return r, nil
}

// Values reads the record sequences for the given keys, or for all current
// keys when none are given.
func (s *Store[T]) Values(ctx context.Context, keys ...[]byte) ([][]T, error) {
	if len(keys) == 0 {
		var err error
		keys, err = s.Keys(ctx)
		if err != nil {
			return nil, err
		}
	}
	r := make([][]T, len(keys))
	for i, key := range keys {
		records, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		r[i] = records
	}
	return r, nil
}

// Items pairs each key with its record sequence, for the given keys or for
// all current keys when none are given.
func (s *Store[T]) Items(ctx context.Context, keys ...[]byte) ([]geostore.KeyValuePair[[]byte, []T], error) {
	if len(keys) == 0 {
		var err error
		keys, err = s.Keys(ctx)
		if err != nil {
			return nil, err
		}
	}
	r := make([]geostore.KeyValuePair[[]byte, []T], len(keys))
	for i, key := range keys {
		records, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		r[i] = geostore.KeyValuePair[[]byte, []T]{
			Key:   key,
			Value: records,
		}
	}
	return r, nil
}
