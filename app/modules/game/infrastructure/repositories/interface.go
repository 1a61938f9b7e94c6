package gamedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository handles database operations for games and placements.
type Repository interface {
	// InsertGame creates a game together with its placements.
	InsertGame(ctx context.Context, db bun.IDB, game *Game) error

	// GetLatestGame returns the most recently created game of a group with
	// its placements, or sql.ErrNoRows wrapped as NotFound when the group
	// has no games.
	GetLatestGame(ctx context.Context, db bun.IDB, groupID int64) (*Game, error)

	// DeleteGame removes a game and its placements.
	DeleteGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) error

	// ListGames returns a group's games newest first, placements included.
	ListGames(ctx context.Context, db bun.IDB, groupID int64, limit int) ([]Game, error)
}
