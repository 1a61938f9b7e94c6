package groupservice

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// EventLogger is the fire-and-forget audit log contract the game and season
// services depend on. Logging failures never fail the calling operation.
type EventLogger interface {
	Log(ctx context.Context, groupID int64, eventType shared.EventType, message string)
}

// EventLog persists group audit entries and publishes them on the event bus.
type EventLog struct {
	db       *bun.DB
	repo     groupdb.Repository
	eventBus shared.EventBus
	logger   *slog.Logger
	clock    shared.Clock
}

// NewEventLog creates a new EventLog.
func NewEventLog(db *bun.DB, repo groupdb.Repository, eventBus shared.EventBus, logger *slog.Logger, clock shared.Clock) *EventLog {
	return &EventLog{
		db:       db,
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		clock:    clock,
	}
}

var _ EventLogger = (*EventLog)(nil)

// Log records an audit entry. Persistence and publishing are best-effort;
// failures are logged and swallowed so season and game transactions never
// roll back over audit plumbing.
func (l *EventLog) Log(ctx context.Context, groupID int64, eventType shared.EventType, message string) {
	event := &groupdb.GroupEvent{
		GroupID:   groupID,
		EventType: eventType,
		Message:   message,
		CreatedAt: l.clock.NowUTC(),
	}

	if err := l.repo.InsertEvent(ctx, l.db, event); err != nil {
		l.logger.ErrorContext(ctx, "Failed to persist group event",
			slog.Int64("group_id", groupID),
			slog.String("event_type", string(eventType)),
			slog.Any("error", err),
		)
	}

	payload := shared.GroupEventPayload{
		GroupID:    groupID,
		EventType:  eventType,
		Message:    message,
		OccurredAt: event.CreatedAt,
	}
	if err := l.eventBus.Publish(ctx, shared.TopicGroupEvents, payload); err != nil {
		l.logger.ErrorContext(ctx, "Failed to publish group event",
			slog.Int64("group_id", groupID),
			slog.String("event_type", string(eventType)),
			slog.Any("error", err),
		)
	}
}
