package seasonservice

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// ResetSeason is the admin's manual season end. A full active season is
// completed exactly like a scheduled rollover, except the snapshot's end date
// is the moment of the reset and a future next-season plan is left planned
// instead of being promoted early. Partial configurations are cleaned up
// without a snapshot.
func (s *SeasonService) ResetSeason(ctx context.Context, groupID int64, userID string) (err error) {
	ctx, span := s.tracer.Start(ctx, "ResetSeason")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveDuration("season_reset", time.Now())
		defer func() {
			if err != nil {
				s.metrics.ObserveFailure("season_reset")
			}
		}()
	}

	if _, err = s.admins.RequireAdmin(ctx, groupID, userID); err != nil {
		return err
	}

	var pending []pendingEvent
	err = s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		group, err := s.groups.GetGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		state := group.SeasonState()
		now := s.clock.NowUTC()

		switch {
		case !state.Configured() && !state.HasNextPlan():
			return shared.NewValidationError("group %d has no season to reset", groupID)

		case !state.Configured():
			// Only a planned season exists: drop the plan.
			clearNextPlan(group)
			if err := s.groups.UpdateSeasonFields(ctx, tx, group); err != nil {
				return err
			}
			pending = append(pending, pendingEvent{
				eventType: shared.EventSeasonReset,
				message:   "Season planning was cleared",
			})
			return nil

		case !state.HasActiveSeason():
			// Partial active data (a pause, or an incomplete window): nothing
			// accumulated, so clear it without a snapshot. A future plan stays
			// planned behind a pause until its start date.
			group.ActiveSeasonName = nil
			group.ActiveSeasonStartedAt = nil
			group.ActiveSeasonEndsAt = nil
			group.SeasonPauseUntil = nil
			if state.HasNextPlan() && group.NextSeasonStartsAt.After(now) {
				until := *group.NextSeasonStartsAt
				group.SeasonPauseUntil = &until
			}
			if err := s.groups.UpdateSeasonFields(ctx, tx, group); err != nil {
				return err
			}
			pending = append(pending, pendingEvent{
				eventType: shared.EventSeasonReset,
				message:   "Season configuration was reset",
			})
			return nil

		default:
			events, err := s.completeSeason(ctx, tx, group, now, true)
			if err != nil {
				return err
			}
			pending = append(pending, events...)
			return nil
		}
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.SeasonResets.Inc()
	}
	s.emit(ctx, groupID, pending)
	return nil
}

func clearNextPlan(group *groupdb.Group) {
	group.NextSeasonName = nil
	group.NextSeasonStartsAt = nil
	group.NextSeasonEndsAt = nil
	group.NextSeasonIsSuccessive = false
	group.NextSeasonInterval = nil
	group.NextSeasonIntermissionDays = nil
}
