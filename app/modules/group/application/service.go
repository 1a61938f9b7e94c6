package groupservice

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// GroupService exposes group reads and membership checks used by the other
// modules and the HTTP layer.
type GroupService struct {
	db     *bun.DB
	repo   groupdb.Repository
	logger *slog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(db *bun.DB, repo groupdb.Repository, logger *slog.Logger) *GroupService {
	return &GroupService{db: db, repo: repo, logger: logger}
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID int64) (*groupdb.Group, error) {
	return s.repo.GetGroup(ctx, s.db, groupID)
}

// RequireMember returns the caller's membership or a PermissionError.
func (s *GroupService) RequireMember(ctx context.Context, groupID int64, userID string) (*groupdb.Membership, error) {
	return s.repo.GetMembership(ctx, s.db, groupID, userID)
}

// RequireAdmin returns the caller's membership if it carries the admin role.
func (s *GroupService) RequireAdmin(ctx context.Context, groupID int64, userID string) (*groupdb.Membership, error) {
	membership, err := s.repo.GetMembership(ctx, s.db, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !membership.IsAdmin() {
		return nil, shared.NewPermissionError("user %s is not an admin of group %d", userID, groupID)
	}
	return membership, nil
}

// ListMembers returns the group's roster, visible to members only.
func (s *GroupService) ListMembers(ctx context.Context, groupID int64, userID string) ([]groupdb.Membership, error) {
	if _, err := s.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMemberships(ctx, s.db, groupID)
}

// ListEvents returns the newest audit history entries for a group.
func (s *GroupService) ListEvents(ctx context.Context, groupID int64, userID string, limit int) ([]groupdb.GroupEvent, error) {
	if _, err := s.RequireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListEvents(ctx, s.db, groupID, limit)
}
