package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/commander-league/backend/app/eventbus"
	"github.com/commander-league/backend/app/handlers"
	"github.com/commander-league/backend/app/metrics"
	deckservice "github.com/commander-league/backend/app/modules/deck/application"
	gameservice "github.com/commander-league/backend/app/modules/game/application"
	groupservice "github.com/commander-league/backend/app/modules/group/application"
	seasonservice "github.com/commander-league/backend/app/modules/season/application"
	"github.com/commander-league/backend/app/shared"
	"github.com/commander-league/backend/config"
	"github.com/commander-league/backend/db/bundb"
)

// App wires the services together.
type App struct {
	Cfg      *config.Config
	Handlers *handlers.Handlers
	Registry *prometheus.Registry

	GroupService  *groupservice.GroupService
	DeckService   *deckservice.DeckService
	GameService   *gameservice.GameService
	SeasonService *seasonservice.SeasonService

	db       *bundb.DBService
	eventBus shared.EventBus
	logger   *slog.Logger
}

// NewApp initializes the application: database, event bus, metrics and the
// module services.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	var bus shared.EventBus
	if cfg.NATS.URL != "" {
		bus, err = eventbus.NewNatsEventBus(ctx, cfg.NATS.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize event bus: %w", err)
		}
	} else {
		logger.InfoContext(ctx, "No NATS URL configured, using in-process event bus")
		bus = eventbus.NewChannelEventBus(logger)
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	tracer := otel.Tracer("commander-league")
	clock := shared.RealClock{}
	db := dbService.GetDB()

	eventLog := groupservice.NewEventLog(db, dbService.GroupDB, bus, logger, clock)
	groupService := groupservice.NewGroupService(db, dbService.GroupDB, logger)
	deckService := deckservice.NewDeckService(db, dbService.DeckDB, dbService.GroupDB, eventLog, logger, tracer)
	seasonService := seasonservice.NewSeasonService(
		db,
		dbService.SeasonDB,
		dbService.GroupDB,
		dbService.DeckDB,
		groupService,
		eventLog,
		clock,
		logger,
		tracer,
		m,
		time.Duration(cfg.Season.WinnersBannerDays)*24*time.Hour,
	)
	gameService := gameservice.NewGameService(
		db,
		dbService.GameDB,
		dbService.DeckDB,
		dbService.GroupDB,
		seasonService,
		eventLog,
		clock,
		logger,
		tracer,
		m,
	)

	h := handlers.New(groupService, deckService, gameService, seasonService, logger)

	return &App{
		Cfg:           cfg,
		Handlers:      h,
		Registry:      registry,
		GroupService:  groupService,
		DeckService:   deckService,
		GameService:   gameService,
		SeasonService: seasonService,
		db:            dbService,
		eventBus:      bus,
		logger:        logger,
	}, nil
}

// DB returns the database service.
func (a *App) DB() *bundb.DBService {
	return a.db
}

// Close releases the event bus and database connections.
func (a *App) Close() {
	if err := a.eventBus.Close(); err != nil {
		a.logger.Error("Failed to close event bus", slog.Any("error", err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database", slog.Any("error", err))
	}
}
