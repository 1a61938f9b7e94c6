package gamemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	gamedb "github.com/commander-league/backend/app/modules/game/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating games and game_placements tables...")

		if _, err := db.NewCreateTable().Model((*gamedb.Game)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*gamedb.GamePlacement)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		// Undo scans newest-first by creation time.
		_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_games_group_created ON games (group_id, created_at DESC)").Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewRaw("CREATE INDEX IF NOT EXISTS idx_game_placements_game_id ON game_placements (game_id)").Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewRaw("CREATE INDEX IF NOT EXISTS idx_game_placements_deck_id ON game_placements (deck_id)").Exec(ctx)
		if err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping games and game_placements tables...")

		if _, err := db.NewDropTable().Model((*gamedb.GamePlacement)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*gamedb.Game)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
