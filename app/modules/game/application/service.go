package gameservice

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	gamedb "github.com/commander-league/backend/app/modules/game/infrastructure/repositories"
	groupservice "github.com/commander-league/backend/app/modules/group/application"
	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	"github.com/commander-league/backend/app/metrics"
	"github.com/commander-league/backend/app/shared"
)

// SeasonGuard rolls a group's season state forward before reads and writes
// that depend on it. Implemented by the season service; declared here so the
// game module does not import it.
type SeasonGuard interface {
	EnsureSeasonUpToDate(ctx context.Context, groupID int64) error
}

// GameService records and undoes games and serves the live ranking.
type GameService struct {
	db       *bun.DB
	repo     gamedb.Repository
	decks    deckdb.Repository
	groups   groupdb.Repository
	seasons  SeasonGuard
	eventLog groupservice.EventLogger
	clock    shared.Clock
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *metrics.Metrics
}

// NewGameService creates a new GameService.
func NewGameService(
	db *bun.DB,
	repo gamedb.Repository,
	decks deckdb.Repository,
	groups groupdb.Repository,
	seasons SeasonGuard,
	eventLog groupservice.EventLogger,
	clock shared.Clock,
	logger *slog.Logger,
	tracer trace.Tracer,
	m *metrics.Metrics,
) *GameService {
	return &GameService{
		db:       db,
		repo:     repo,
		decks:    decks,
		groups:   groups,
		seasons:  seasons,
		eventLog: eventLog,
		clock:    clock,
		logger:   logger,
		tracer:   tracer,
		metrics:  m,
	}
}

// runInTx runs fn within a transaction. A nil db (unit tests) runs fn
// directly against the fakes.
func (s *GameService) runInTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}
