package seasondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository handles database operations for season snapshots and banner
// dismissals.
type Repository interface {
	InsertSnapshot(ctx context.Context, db bun.IDB, snapshot *GroupSeason) error

	// GetLatestSnapshot returns the most recently ended season of a group,
	// or a NotFound error when none exists.
	GetLatestSnapshot(ctx context.Context, db bun.IDB, groupID int64) (*GroupSeason, error)

	ListSnapshots(ctx context.Context, db bun.IDB, groupID int64) ([]GroupSeason, error)

	// UpsertDismissal records a banner dismissal; repeating it is a no-op.
	UpsertDismissal(ctx context.Context, db bun.IDB, seasonID uuid.UUID, userID string) error

	HasDismissal(ctx context.Context, db bun.IDB, seasonID uuid.UUID, userID string) (bool, error)
}
