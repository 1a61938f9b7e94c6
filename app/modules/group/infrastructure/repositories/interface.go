package groupdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository handles database operations for groups, memberships and the
// group event log. Methods take a bun.IDB so callers control transaction
// scope.
type Repository interface {
	GetGroup(ctx context.Context, db bun.IDB, groupID int64) (*Group, error)
	UpdateSeasonFields(ctx context.Context, db bun.IDB, group *Group) error
	GetMembership(ctx context.Context, db bun.IDB, groupID int64, userID string) (*Membership, error)
	ListMemberships(ctx context.Context, db bun.IDB, groupID int64) ([]Membership, error)
	InsertEvent(ctx context.Context, db bun.IDB, event *GroupEvent) error
	ListEvents(ctx context.Context, db bun.IDB, groupID int64, limit int) ([]GroupEvent, error)
}
