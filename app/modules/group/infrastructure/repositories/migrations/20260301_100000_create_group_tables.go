package groupmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating groups, group_members and group_events tables...")

		if _, err := db.NewCreateTable().Model((*groupdb.Group)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*groupdb.Membership)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateTable().Model((*groupdb.GroupEvent)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_group_events_group_created ON group_events (group_id, created_at DESC)").Exec(ctx)
		if err != nil {
			return err
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping groups, group_members and group_events tables...")

		if _, err := db.NewDropTable().Model((*groupdb.GroupEvent)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*groupdb.Membership)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewDropTable().Model((*groupdb.Group)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
