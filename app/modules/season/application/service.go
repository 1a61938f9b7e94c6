package seasonservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/commander-league/backend/app/metrics"
	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	groupservice "github.com/commander-league/backend/app/modules/group/application"
	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	seasondb "github.com/commander-league/backend/app/modules/season/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// DefaultBannerWindow is how long the winners banner stays visible after a
// season ends.
const DefaultBannerWindow = 14 * 24 * time.Hour

// AdminGate checks the caller's role before season mutations. The group
// service implements it.
type AdminGate interface {
	RequireAdmin(ctx context.Context, groupID int64, userID string) (*groupdb.Membership, error)
}

// SeasonService drives the season lifecycle: lazy rollover, snapshots,
// successor planning, settings validation and the winners banner.
type SeasonService struct {
	db           *bun.DB
	repo         seasondb.Repository
	groups       groupdb.Repository
	decks        deckdb.Repository
	admins       AdminGate
	eventLog     groupservice.EventLogger
	clock        shared.Clock
	logger       *slog.Logger
	tracer       trace.Tracer
	metrics      *metrics.Metrics
	bannerWindow time.Duration
}

// NewSeasonService creates a new SeasonService.
func NewSeasonService(
	db *bun.DB,
	repo seasondb.Repository,
	groups groupdb.Repository,
	decks deckdb.Repository,
	admins AdminGate,
	eventLog groupservice.EventLogger,
	clock shared.Clock,
	logger *slog.Logger,
	tracer trace.Tracer,
	m *metrics.Metrics,
	bannerWindow time.Duration,
) *SeasonService {
	if bannerWindow <= 0 {
		bannerWindow = DefaultBannerWindow
	}
	return &SeasonService{
		db:           db,
		repo:         repo,
		groups:       groups,
		decks:        decks,
		admins:       admins,
		eventLog:     eventLog,
		clock:        clock,
		logger:       logger,
		tracer:       tracer,
		metrics:      m,
		bannerWindow: bannerWindow,
	}
}

// runInTx runs fn within a transaction. A nil db (unit tests) runs fn
// directly against the fakes.
func (s *SeasonService) runInTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// pendingEvent is an audit event collected during a transaction and emitted
// only after a successful commit, preserving order.
type pendingEvent struct {
	eventType shared.EventType
	message   string
}

func (s *SeasonService) emit(ctx context.Context, groupID int64, events []pendingEvent) {
	for _, e := range events {
		s.eventLog.Log(ctx, groupID, e.eventType, e.message)
	}
}
