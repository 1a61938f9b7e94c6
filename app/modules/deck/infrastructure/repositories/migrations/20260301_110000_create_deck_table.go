package deckmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating decks table...")

		if _, err := db.NewCreateTable().Model((*deckdb.Deck)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		// Case-insensitive name uniqueness among live decks only.
		_, err := db.NewRaw("CREATE UNIQUE INDEX IF NOT EXISTS idx_decks_group_name ON decks (group_id, LOWER(name)) WHERE deleted_at IS NULL").Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewRaw("CREATE INDEX IF NOT EXISTS idx_decks_group_performance ON decks (group_id, performance DESC, games_played DESC)").Exec(ctx)
		if err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping decks table...")
		_, err := db.NewDropTable().Model((*deckdb.Deck)(nil)).IfExists().Exec(ctx)
		return err
	})
}
