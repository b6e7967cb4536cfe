package storage

import (
	"context"

	"github.com/zenzer0s/crawlbase/internal/domain"
)

// Repository stores the history of Crawlbase calls.
type Repository interface {
	// SaveRecord stores a call. A later call by the same user to the same
	// endpoint and target replaces the earlier one.
	SaveRecord(ctx context.Context, rec domain.Record) error

	// GetRecordsByUser returns a user's records, newest first.
	GetRecordsByUser(ctx context.Context, userID int64) ([]domain.Record, error)

	// DeleteRecord removes one record. Deleting a missing record is not an error.
	DeleteRecord(ctx context.Context, userID int64, variant, target string) error

	// Close releases the underlying store.
	Close() error
}
