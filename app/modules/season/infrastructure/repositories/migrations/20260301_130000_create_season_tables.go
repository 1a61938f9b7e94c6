package seasonmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	seasondb "github.com/commander-league/backend/app/modules/season/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating group_seasons and group_season_dismissals tables...")

		if _, err := db.NewCreateTable().Model((*seasondb.GroupSeason)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*seasondb.BannerDismissal)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_group_seasons_group_ended ON group_seasons (group_id, ended_at DESC)").Exec(ctx)
		if err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping group_seasons and group_season_dismissals tables...")

		if _, err := db.NewDropTable().Model((*seasondb.BannerDismissal)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*seasondb.GroupSeason)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
