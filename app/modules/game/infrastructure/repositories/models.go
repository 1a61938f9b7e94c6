package gamedb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Game is an immutable record of one played match. It is created atomically
// with its placements and the deck performance updates; the only way it ever
// changes is being deleted by undo.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:gg"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	GroupID     int64     `bun:"group_id,notnull"`
	PlayedAt    time.Time `bun:"played_at,notnull"`
	PlayerCount int       `bun:"player_count,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`

	Placements []*GamePlacement `bun:"rel:has-many,join:id=game_id"`
}

var _ bun.BeforeInsertHook = (*Game)(nil)

func (g *Game) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// GamePlacement is one player's result within a game. DeckID is nil for
// guest players and for placements whose deck was later hard-deleted;
// DeckName is frozen at record time so history survives deck renames and
// deletions.
type GamePlacement struct {
	bun.BaseModel `bun:"table:game_placements,alias:gp"`

	ID         int64     `bun:"id,pk,autoincrement"`
	GameID     uuid.UUID `bun:"game_id,type:uuid,notnull"`
	Rank       int       `bun:"rank,notnull"`
	Points     float64   `bun:"points,notnull"`
	DeckID     *int64    `bun:"deck_id"`
	DeckName   string    `bun:"deck_name,notnull,default:''"`
	PlayerName *string   `bun:"player_name"`
}
