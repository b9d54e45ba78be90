package store

import (
	"context"
	"fmt"
	log "log/slog"

	"github.com/sharedcode/geostore"
)

// Commit materializes the staging ledger into the committed namespace:
// pending deletes are removed first (absent entries tolerated), then each
// staged entry replaces its committed counterpart via rename. Each step is an
// independent backend operation; a backend failure partway through surfaces
// as a CommitIncomplete coded error with the ledger left as-is, and the
// caller has to reconcile backend state manually.
func (s *Store[T]) Commit(ctx context.Context) error {
	log.Debug("committing", "tid", s.tid.String(),
		"writes", len(s.pendingWrites), "deletes", len(s.pendingDeletes))

	for key := range s.pendingDeletes {
		entry := s.committedPath([]byte(key))
		if !s.fileIO.Exists(ctx, entry) {
			// Idempotent delete, nothing to remove.
			continue
		}
		if err := s.fileIO.RemoveAll(ctx, entry); err != nil {
			return geostore.Error{
				Code:     geostore.CommitIncomplete,
				Err:      err,
				UserData: key,
			}
		}
	}
	clear(s.pendingDeletes)

	for key := range s.pendingWrites {
		committed := s.committedPath([]byte(key))
		if s.fileIO.Exists(ctx, committed) {
			if err := s.fileIO.RemoveAll(ctx, committed); err != nil {
				return geostore.Error{
					Code:     geostore.CommitIncomplete,
					Err:      err,
					UserData: key,
				}
			}
		}
		if err := s.fileIO.Rename(ctx, s.stagedPath([]byte(key)), committed); err != nil {
			return geostore.Error{
				Code:     geostore.CommitIncomplete,
				Err:      err,
				UserData: key,
			}
		}
	}
	clear(s.pendingWrites)

	s.tid = geostore.NewUUID()
	return nil
}

// Rollback removes the staged entries of all pending writes and clears the
// ledger. Pending deletes need no physical action since they were never
// applied; the committed namespace is left exactly as it was, except for
// whatever Extend wrote directly to committed entries.
func (s *Store[T]) Rollback(ctx context.Context) error {
	log.Debug("rolling back", "tid", s.tid.String(),
		"writes", len(s.pendingWrites), "deletes", len(s.pendingDeletes))

	for key := range s.pendingWrites {
		if err := s.fileIO.RemoveAll(ctx, s.stagedPath([]byte(key))); err != nil {
			return err
		}
	}
	clear(s.pendingWrites)
	clear(s.pendingDeletes)

	s.tid = geostore.NewUUID()
	return nil
}

// Apply runs block as a transactional scope: Commit on a nil return,
// Rollback on error. The block's error wins; a rollback failure on top of it
// is only logged.
func (s *Store[T]) Apply(ctx context.Context, block func(ctx context.Context) error) error {
	if err := block(ctx); err != nil {
		if rerr := s.Rollback(ctx); rerr != nil {
			log.Warn(fmt.Sprintf("rollback of transaction %s failed, details: %v", s.tid.String(), rerr))
		}
		return err
	}
	return s.Commit(ctx)
}
