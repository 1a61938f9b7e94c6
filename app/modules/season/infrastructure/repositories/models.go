package seasondb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FrozenStanding is one deck's final result inside a season snapshot. The
// deck attributes are copied at snapshot time so later renames, deletions or
// membership changes cannot rewrite history.
type FrozenStanding struct {
	Position    int     `json:"position"`
	DeckID      int64   `json:"deck_id"`
	DeckName    string  `json:"deck_name"`
	Colors      string  `json:"colors"`
	OwnerName   string  `json:"owner_name"`
	Performance float64 `json:"performance"`
	GamesPlayed int     `json:"games_played"`
}

// FrozenStandings is the ordered list stored on a snapshot row.
type FrozenStandings []FrozenStanding

// GroupSeason is an immutable snapshot of a finished season.
type GroupSeason struct {
	bun.BaseModel `bun:"table:group_seasons,alias:gs"`

	ID        uuid.UUID       `bun:"id,pk,type:uuid"`
	GroupID   int64           `bun:"group_id,notnull"`
	Name      string          `bun:"name,notnull"`
	StartedAt time.Time       `bun:"started_at,notnull"`
	EndedAt   time.Time       `bun:"ended_at,notnull"`
	Standings FrozenStandings `bun:"standings,type:jsonb,notnull"`
	CreatedAt time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeInsertHook = (*GroupSeason)(nil)

func (s *GroupSeason) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// BannerDismissal records that a user dismissed the winners banner of a
// season. The composite key makes dismissal idempotent.
type BannerDismissal struct {
	bun.BaseModel `bun:"table:group_season_dismissals,alias:gsd"`

	SeasonID    uuid.UUID `bun:"season_id,pk,type:uuid"`
	UserID      string    `bun:"user_id,pk"`
	DismissedAt time.Time `bun:"dismissed_at,nullzero,notnull,default:current_timestamp"`
}
