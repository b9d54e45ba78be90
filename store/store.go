// Package store implements the staged, transactional entry store. A Store
// persists batches of records under byte-string keys, one backend object per
// key, holding compress(serialize(records)). Writes and deletes accumulate in
// an in-memory ledger and only reach the committed namespace on Commit;
// Rollback discards staged entries untouched.
//
// A Store is a single-writer staging area: run exactly one instance per root
// folder at a time. It does not defend against concurrent external writers
// and gives no cross-key atomicity on commit.
package store

import (
	"context"
	"fmt"

	"github.com/sharedcode/geostore"
	"github.com/sharedcode/geostore/compress"
	"github.com/sharedcode/geostore/encoding"
	"github.com/sharedcode/geostore/fs"
)

// StagingPrefix marks an uncommitted entry in the store's root folder.
// Logical keys must not begin with it, otherwise committed and staged
// physical names become ambiguous.
const StagingPrefix = "__"

// Store is a staged entry store for records of type T bound to one root
// folder on a backend. All operations are synchronous and issue blocking
// backend I/O; timeout/cancellation semantics are whatever the backend does
// with the passed context.
type Store[T any] struct {
	fileIO     fs.FileIO
	root       string
	marshaler  encoding.Marshaler
	compressor compress.Codec

	// The staging ledger, scoped to the open transaction.
	pendingWrites  map[string]struct{}
	pendingDeletes map[string]struct{}

	// Transaction ID, for log correlation only. Rotated on commit/rollback.
	tid geostore.UUID
}

// Options carries the replaceable codec pair of a Store.
type Options struct {
	// Marshaler serializes the record sequence. When nil, the store captures
	// encoding.BlobMarshaler at open time; a non-nil Marshaler takes
	// precedence over that global for the life of the store. Byte-array
	// records bypass the marshaler either way and are stored as-is.
	Marshaler encoding.Marshaler
	// Compressor wraps serialized bytes for storage. Defaults to Snappy.
	Compressor compress.Codec
}

// NewStore opens a store on root with default codecs, creating root if absent.
func NewStore[T any](ctx context.Context, fileIO fs.FileIO, root string) (*Store[T], error) {
	return NewStoreExt[T](ctx, fileIO, root, Options{})
}

// NewStoreExt is synonymous to NewStore but lets the caller swap the value
// marshaler and the compression codec.
func NewStoreExt[T any](ctx context.Context, fileIO fs.FileIO, root string, options Options) (*Store[T], error) {
	if fileIO == nil {
		fileIO = fs.NewFileIO()
	}
	if options.Marshaler == nil {
		options.Marshaler = encoding.BlobMarshaler
	}
	if options.Compressor == nil {
		options.Compressor = compress.NewSnappyCodec()
	}
	if err := fileIO.MkdirAll(ctx, root, fs.Permission); err != nil {
		return nil, err
	}
	return &Store[T]{
		fileIO:         fileIO,
		root:           root,
		marshaler:      options.Marshaler,
		compressor:     options.Compressor,
		pendingWrites:  make(map[string]struct{}),
		pendingDeletes: make(map[string]struct{}),
		tid:            geostore.NewUUID(),
	}, nil
}

// TransactionID returns the ID of the currently open transaction.
func (s *Store[T]) TransactionID() geostore.UUID {
	return s.tid
}

func (s *Store[T]) isPending(key []byte) bool {
	if _, ok := s.pendingWrites[string(key)]; ok {
		return true
	}
	_, ok := s.pendingDeletes[string(key)]
	return ok
}

func stagedName(key []byte) string {
	return StagingPrefix + string(key)
}

func (s *Store[T]) committedPath(key []byte) string {
	return s.root + s.fileIO.Separator() + string(key)
}

func (s *Store[T]) stagedPath(key []byte) string {
	return s.root + s.fileIO.Separator() + stagedName(key)
}

// entryPath resolves a key to its physical path. A key touched in the open
// transaction resolves to its staged path so the transaction reads its own
// writes; everything else resolves to the committed path. Existence at the
// returned path is the caller's concern.
func (s *Store[T]) entryPath(key []byte) string {
	if s.isPending(key) {
		return s.stagedPath(key)
	}
	return s.committedPath(key)
}

func (s *Store[T]) readEntry(ctx context.Context, entry string) ([]T, error) {
	ba, err := s.fileIO.ReadFile(ctx, entry)
	if err != nil {
		return nil, err
	}
	raw, err := s.compressor.Decode(ba)
	if err != nil {
		return nil, geostore.Error{
			Code:     geostore.ValueCodecError,
			Err:      err,
			UserData: entry,
		}
	}
	var records []T
	if err := encoding.UnmarshalWith(s.marshaler, raw, &records); err != nil {
		return nil, geostore.Error{
			Code:     geostore.ValueCodecError,
			Err:      err,
			UserData: entry,
		}
	}
	return records, nil
}

func (s *Store[T]) writeEntry(ctx context.Context, entry string, records []T) error {
	ba, err := encoding.MarshalWith(s.marshaler, records)
	if err != nil {
		return geostore.Error{
			Code:     geostore.ValueCodecError,
			Err:      err,
			UserData: entry,
		}
	}
	ba, err = s.compressor.Encode(ba)
	if err != nil {
		return geostore.Error{
			Code:     geostore.ValueCodecError,
			Err:      err,
			UserData: entry,
		}
	}
	return s.fileIO.WriteFile(ctx, entry, ba, fs.Permission)
}

// Contains reports whether the key's resolved address exists on the backend.
// No side effect.
func (s *Store[T]) Contains(ctx context.Context, key []byte) bool {
	return s.fileIO.Exists(ctx, s.entryPath(key))
}

// Get reads the record sequence stored for key. Returns a KeyNotFound coded
// error if the key's resolved address does not exist.
func (s *Store[T]) Get(ctx context.Context, key []byte) ([]T, error) {
	entry := s.entryPath(key)
	if !s.fileIO.Exists(ctx, entry) {
		return nil, geostore.Error{
			Code:     geostore.KeyNotFound,
			Err:      fmt.Errorf("entry %s not found", entry),
			UserData: string(key),
		}
	}
	return s.readEntry(ctx, entry)
}

// Set marks key pending-write and writes records to the key's staged entry,
// overwriting prior staged content. The write is visible to this store's own
// reads immediately, and to the committed namespace only after Commit.
func (s *Store[T]) Set(ctx context.Context, key []byte, records []T) error {
	s.pendingWrites[string(key)] = struct{}{}
	return s.writeEntry(ctx, s.entryPath(key), records)
}

// SetOne is Set for a single record, stored as a one-element sequence.
// A record written alone and a singleton batch are indistinguishable on read.
func (s *Store[T]) SetOne(ctx context.Context, key []byte, record T) error {
	return s.Set(ctx, key, []T{record})
}

// Extend appends each pair's records after whatever the key's currently
// resolved entry holds, writing back to that same resolved address. Unlike
// Set it does not mark the key pending: for a key untouched in the open
// transaction this appends straight into the committed namespace, visible
// immediately without a Commit. Callers that want the append staged must Set
// the key first. This fast-append path is intentional; append-heavy loaders
// depend on it.
func (s *Store[T]) Extend(ctx context.Context, pairs ...geostore.KeyValuePair[[]byte, []T]) error {
	for _, pair := range pairs {
		entry := s.entryPath(pair.Key)
		records := pair.Value
		if s.fileIO.Exists(ctx, entry) {
			existing, err := s.readEntry(ctx, entry)
			if err != nil {
				return err
			}
			records = append(existing, records...)
		}
		if err := s.writeEntry(ctx, entry, records); err != nil {
			return err
		}
	}
	return nil
}

// Update delegates each pair to Set, so every touched key is staged normally.
func (s *Store[T]) Update(ctx context.Context, pairs ...geostore.KeyValuePair[[]byte, []T]) error {
	for _, pair := range pairs {
		if err := s.Set(ctx, pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// Delete marks the keys pending-delete. No physical I/O happens until Commit;
// deleting an absent key is a no-op there.
func (s *Store[T]) Delete(ctx context.Context, keys ...[]byte) error {
	for _, key := range keys {
		s.pendingDeletes[string(key)] = struct{}{}
	}
	return nil
}
