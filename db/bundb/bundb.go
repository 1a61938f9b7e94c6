package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	gamedb "github.com/commander-league/backend/app/modules/game/infrastructure/repositories"
	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	seasondb "github.com/commander-league/backend/app/modules/season/infrastructure/repositories"
	"github.com/commander-league/backend/config"
)

// DBService bundles the bun connection with the module repositories.
type DBService struct {
	GroupDB  *groupdb.GroupDBImpl
	DeckDB   *deckdb.DeckDBImpl
	GameDB   *gamedb.GameDBImpl
	SeasonDB *seasondb.SeasonDBImpl

	db *bun.DB
}

// GetDB returns the underlying connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and wires the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel(
		(*groupdb.Group)(nil),
		(*groupdb.Membership)(nil),
		(*groupdb.GroupEvent)(nil),
		(*deckdb.Deck)(nil),
		(*gamedb.Game)(nil),
		(*gamedb.GamePlacement)(nil),
		(*seasondb.GroupSeason)(nil),
		(*seasondb.BannerDismissal)(nil),
	)

	logger.InfoContext(ctx, "Database connection established")

	return &DBService{
		GroupDB:  &groupdb.GroupDBImpl{DB: db},
		DeckDB:   &deckdb.DeckDBImpl{DB: db},
		GameDB:   &gamedb.GameDBImpl{DB: db},
		SeasonDB: &seasondb.SeasonDBImpl{DB: db},
		db:       db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return sqldb, nil
}
