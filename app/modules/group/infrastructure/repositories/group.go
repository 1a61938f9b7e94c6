package groupdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/commander-league/backend/app/shared"
)

// GroupDBImpl handles database operations for groups.
type GroupDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*GroupDBImpl)(nil)

// GetGroup retrieves a group by ID.
func (r *GroupDBImpl) GetGroup(ctx context.Context, db bun.IDB, groupID int64) (*Group, error) {
	group := new(Group)
	err := db.NewSelect().
		Model(group).
		Where("g.id = ?", groupID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NewNotFoundError("group %d not found", groupID)
		}
		return nil, fmt.Errorf("failed to get group %d: %w", groupID, err)
	}
	return group, nil
}

// UpdateSeasonFields persists only the season columns of a group.
func (r *GroupDBImpl) UpdateSeasonFields(ctx context.Context, db bun.IDB, group *Group) error {
	_, err := db.NewUpdate().
		Model(group).
		Column(
			"active_season_name",
			"active_season_started_at",
			"active_season_ends_at",
			"season_pause_until",
			"season_pause_days",
			"next_season_name",
			"next_season_starts_at",
			"next_season_ends_at",
			"next_season_is_successive",
			"next_season_interval",
			"next_season_intermission_days",
		).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update season fields for group %d: %w", group.ID, err)
	}
	return nil
}

// GetMembership retrieves a user's membership in a group.
func (r *GroupDBImpl) GetMembership(ctx context.Context, db bun.IDB, groupID int64, userID string) (*Membership, error) {
	membership := new(Membership)
	err := db.NewSelect().
		Model(membership).
		Where("gm.group_id = ?", groupID).
		Where("gm.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NewPermissionError("user %s is not a member of group %d", userID, groupID)
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return membership, nil
}

// ListMemberships retrieves all memberships of a group.
func (r *GroupDBImpl) ListMemberships(ctx context.Context, db bun.IDB, groupID int64) ([]Membership, error) {
	var memberships []Membership
	err := db.NewSelect().
		Model(&memberships).
		Where("gm.group_id = ?", groupID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships for group %d: %w", groupID, err)
	}
	return memberships, nil
}

// InsertEvent appends an entry to the group's audit history.
func (r *GroupDBImpl) InsertEvent(ctx context.Context, db bun.IDB, event *GroupEvent) error {
	if _, err := db.NewInsert().Model(event).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert group event: %w", err)
	}
	return nil
}

// ListEvents returns the newest audit entries for a group.
func (r *GroupDBImpl) ListEvents(ctx context.Context, db bun.IDB, groupID int64, limit int) ([]GroupEvent, error) {
	var events []GroupEvent
	err := db.NewSelect().
		Model(&events).
		Where("ge.group_id = ?", groupID).
		Order("ge.created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for group %d: %w", groupID, err)
	}
	return events, nil
}
