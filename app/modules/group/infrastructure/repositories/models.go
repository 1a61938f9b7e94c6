package groupdb

import (
	"time"

	"github.com/uptrace/bun"

	seasondomain "github.com/commander-league/backend/app/modules/season/domain"
	"github.com/commander-league/backend/app/shared"
)

// Group is a playgroup. The active/next season columns form the group's
// season state; activeSeasonStartedAt is immutable once set and only the
// season service writes these columns.
type Group struct {
	bun.BaseModel `bun:"table:groups,alias:g"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	ActiveSeasonName      *string    `bun:"active_season_name"`
	ActiveSeasonStartedAt *time.Time `bun:"active_season_started_at"`
	ActiveSeasonEndsAt    *time.Time `bun:"active_season_ends_at"`
	SeasonPauseUntil      *time.Time `bun:"season_pause_until"`
	SeasonPauseDays       int        `bun:"season_pause_days,notnull,default:0"`

	NextSeasonName             *string                `bun:"next_season_name"`
	NextSeasonStartsAt         *time.Time             `bun:"next_season_starts_at"`
	NextSeasonEndsAt           *time.Time             `bun:"next_season_ends_at"`
	NextSeasonIsSuccessive     bool                   `bun:"next_season_is_successive,notnull,default:false"`
	NextSeasonInterval         *seasondomain.Interval `bun:"next_season_interval"`
	NextSeasonIntermissionDays *int                   `bun:"next_season_intermission_days"`
}

// SeasonState maps the group's season columns into the domain snapshot used
// by transition resolution.
func (g *Group) SeasonState() seasondomain.State {
	return seasondomain.State{
		ActiveName:           g.ActiveSeasonName,
		ActiveStartedAt:      g.ActiveSeasonStartedAt,
		ActiveEndsAt:         g.ActiveSeasonEndsAt,
		PauseUntil:           g.SeasonPauseUntil,
		PauseDays:            g.SeasonPauseDays,
		NextName:             g.NextSeasonName,
		NextStartsAt:         g.NextSeasonStartsAt,
		NextEndsAt:           g.NextSeasonEndsAt,
		NextIsSuccessive:     g.NextSeasonIsSuccessive,
		NextInterval:         g.NextSeasonInterval,
		NextIntermissionDays: g.NextSeasonIntermissionDays,
	}
}

// Role is a member's role within a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Membership links a user to a group. DisplayName is what shows up in
// standings and snapshots.
type Membership struct {
	bun.BaseModel `bun:"table:group_members,alias:gm"`

	GroupID     int64     `bun:"group_id,pk"`
	UserID      string    `bun:"user_id,pk"`
	DisplayName string    `bun:"display_name,notnull"`
	Role        Role      `bun:"role,notnull,default:'member'"`
	JoinedAt    time.Time `bun:"joined_at,nullzero,notnull,default:current_timestamp"`
}

// IsAdmin reports whether the membership carries the admin role.
func (m *Membership) IsAdmin() bool { return m.Role == RoleAdmin }

// GroupEvent is one entry in a group's audit history.
type GroupEvent struct {
	bun.BaseModel `bun:"table:group_events,alias:ge"`

	ID        int64            `bun:"id,pk,autoincrement"`
	GroupID   int64            `bun:"group_id,notnull"`
	EventType shared.EventType `bun:"event_type,notnull"`
	Message   string           `bun:"message,notnull"`
	CreatedAt time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
