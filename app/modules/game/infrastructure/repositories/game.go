package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/commander-league/backend/app/shared"
)

// GameDBImpl handles database operations for games.
type GameDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*GameDBImpl)(nil)

// InsertGame creates a game and its placements.
func (r *GameDBImpl) InsertGame(ctx context.Context, db bun.IDB, game *Game) error {
	if _, err := db.NewInsert().Model(game).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}
	for _, placement := range game.Placements {
		placement.GameID = game.ID
	}
	if len(game.Placements) > 0 {
		if _, err := db.NewInsert().Model(&game.Placements).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert placements: %w", err)
		}
	}
	return nil
}

// GetLatestGame returns the newest game by creation time, with placements.
func (r *GameDBImpl) GetLatestGame(ctx context.Context, db bun.IDB, groupID int64) (*Game, error) {
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		Relation("Placements").
		Where("gg.group_id = ?", groupID).
		OrderExpr("gg.created_at DESC, gg.id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NewNotFoundError("group %d has no recorded games", groupID)
		}
		return nil, fmt.Errorf("failed to get latest game for group %d: %w", groupID, err)
	}
	return game, nil
}

// DeleteGame removes a game and its placements.
func (r *GameDBImpl) DeleteGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) error {
	if _, err := db.NewDelete().
		Model((*GamePlacement)(nil)).
		Where("game_id = ?", gameID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete placements for game %s: %w", gameID, err)
	}
	if _, err := db.NewDelete().
		Model((*Game)(nil)).
		Where("id = ?", gameID).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", gameID, err)
	}
	return nil
}

// ListGames returns a group's games newest first.
func (r *GameDBImpl) ListGames(ctx context.Context, db bun.IDB, groupID int64, limit int) ([]Game, error) {
	var games []Game
	err := db.NewSelect().
		Model(&games).
		Relation("Placements").
		Where("gg.group_id = ?", groupID).
		OrderExpr("gg.created_at DESC, gg.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for group %d: %w", groupID, err)
	}
	return games, nil
}
