package seasondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/commander-league/backend/app/shared"
)

// SeasonDBImpl handles database operations for season snapshots.
type SeasonDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*SeasonDBImpl)(nil)

// InsertSnapshot stores an immutable season snapshot.
func (r *SeasonDBImpl) InsertSnapshot(ctx context.Context, db bun.IDB, snapshot *GroupSeason) error {
	if _, err := db.NewInsert().Model(snapshot).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert season snapshot: %w", err)
	}
	return nil
}

// GetLatestSnapshot returns the most recently ended season of a group.
func (r *SeasonDBImpl) GetLatestSnapshot(ctx context.Context, db bun.IDB, groupID int64) (*GroupSeason, error) {
	snapshot := new(GroupSeason)
	err := db.NewSelect().
		Model(snapshot).
		Where("gs.group_id = ?", groupID).
		OrderExpr("gs.ended_at DESC, gs.created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NewNotFoundError("group %d has no finished seasons", groupID)
		}
		return nil, fmt.Errorf("failed to get latest season snapshot for group %d: %w", groupID, err)
	}
	return snapshot, nil
}

// ListSnapshots returns all snapshots of a group, newest first.
func (r *SeasonDBImpl) ListSnapshots(ctx context.Context, db bun.IDB, groupID int64) ([]GroupSeason, error) {
	var snapshots []GroupSeason
	err := db.NewSelect().
		Model(&snapshots).
		Where("gs.group_id = ?", groupID).
		OrderExpr("gs.ended_at DESC, gs.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list season snapshots for group %d: %w", groupID, err)
	}
	return snapshots, nil
}

// UpsertDismissal records a banner dismissal idempotently.
func (r *SeasonDBImpl) UpsertDismissal(ctx context.Context, db bun.IDB, seasonID uuid.UUID, userID string) error {
	dismissal := &BannerDismissal{
		SeasonID:    seasonID,
		UserID:      userID,
		DismissedAt: time.Now().UTC(),
	}
	_, err := db.NewInsert().
		Model(dismissal).
		On("CONFLICT (season_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record banner dismissal: %w", err)
	}
	return nil
}

// HasDismissal reports whether the user already dismissed the banner.
func (r *SeasonDBImpl) HasDismissal(ctx context.Context, db bun.IDB, seasonID uuid.UUID, userID string) (bool, error) {
	exists, err := db.NewSelect().
		Model((*BannerDismissal)(nil)).
		Where("season_id = ?", seasonID).
		Where("user_id = ?", userID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check banner dismissal: %w", err)
	}
	return exists, nil
}
