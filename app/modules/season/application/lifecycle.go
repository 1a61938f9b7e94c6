package seasonservice

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	seasondomain "github.com/commander-league/backend/app/modules/season/domain"
	seasondb "github.com/commander-league/backend/app/modules/season/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// maxTransitionSteps bounds the catch-up loop. Clearing a pause can expose an
// already elapsed season end, so a single ensure call may settle two
// transitions; anything beyond that indicates a bug.
const maxTransitionSteps = 3

// EnsureSeasonUpToDate lazily applies every season transition that became due
// since the last write. It is called before rankings, game recording and the
// winners banner, so the stored state is only ever stale between requests.
func (s *SeasonService) EnsureSeasonUpToDate(ctx context.Context, groupID int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "EnsureSeasonUpToDate")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveDuration("season_rollover", time.Now())
		defer func() {
			if err != nil {
				s.metrics.ObserveFailure("season_rollover")
			}
		}()
	}

	var pending []pendingEvent
	err = s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		group, err := s.groups.GetGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}

		for step := 0; step < maxTransitionSteps; step++ {
			now := s.clock.NowUTC()
			kind := seasondomain.ResolveDueTransition(group.SeasonState(), now)
			if kind == seasondomain.TransitionNone {
				break
			}

			events, err := s.applyTransition(ctx, tx, group, kind)
			if err != nil {
				return err
			}
			pending = append(pending, events...)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(ctx, groupID, pending)
	return nil
}

// applyTransition mutates the group's season columns for one transition and
// persists them. Returned events are emitted by the caller after commit.
func (s *SeasonService) applyTransition(ctx context.Context, tx bun.IDB, group *groupdb.Group, kind seasondomain.TransitionKind) ([]pendingEvent, error) {
	switch kind {
	case seasondomain.TransitionActivateNext:
		events := promoteNextSeason(group, s.clock.NowUTC())
		if err := s.groups.UpdateSeasonFields(ctx, tx, group); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "activated planned season",
			"group_id", group.ID, "season", derefOr(group.ActiveSeasonName, ""))
		return events, nil

	case seasondomain.TransitionClearPause:
		group.SeasonPauseUntil = nil
		if err := s.groups.UpdateSeasonFields(ctx, tx, group); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "pause elapsed, season resumed", "group_id", group.ID)
		if !group.SeasonState().HasActiveSeason() {
			// An idle pause parked ahead of a planned season; the activation
			// step announces the start.
			return nil, nil
		}
		return []pendingEvent{{
			eventType: shared.EventSeasonStarted,
			message:   fmt.Sprintf("Season %q has started", *group.ActiveSeasonName),
		}}, nil

	case seasondomain.TransitionComplete:
		// The scheduled boundary, not the detection time, goes into the
		// snapshot so late detection does not stretch the season.
		endedAt := *group.ActiveSeasonEndsAt
		return s.completeSeason(ctx, tx, group, endedAt, false)

	default:
		return nil, fmt.Errorf("unknown season transition %d", kind)
	}
}

// completeSeason ends the active season: freeze standings into a snapshot,
// zero every deck's counters and install the successor. With manual=true the
// next plan is only promoted when it starts today; the automatic path always
// promotes a due-or-future plan rather than inventing a successor.
func (s *SeasonService) completeSeason(ctx context.Context, tx bun.IDB, group *groupdb.Group, endedAt time.Time, manual bool) ([]pendingEvent, error) {
	now := s.clock.NowUTC()
	endedName := derefOr(group.ActiveSeasonName, "Season")

	standings, err := s.decks.ListStandings(ctx, tx, group.ID)
	if err != nil {
		return nil, err
	}

	snapshot := &seasondb.GroupSeason{
		GroupID:   group.ID,
		Name:      endedName,
		StartedAt: *group.ActiveSeasonStartedAt,
		EndedAt:   endedAt,
		Standings: freezeStandings(standings),
	}
	if err := s.repo.InsertSnapshot(ctx, tx, snapshot); err != nil {
		return nil, err
	}

	if err := s.decks.ResetPerformance(ctx, tx, group.ID); err != nil {
		return nil, err
	}

	events := []pendingEvent{{
		eventType: shared.EventSeasonEnded,
		message:   fmt.Sprintf("Season %q has ended", endedName),
	}}

	state := group.SeasonState()
	switch {
	case state.HasNextPlan() && (!manual || seasondomain.SameUTCDay(*group.NextSeasonStartsAt, now)):
		events = append(events, promoteNextSeason(group, now)...)

	case state.HasNextPlan():
		// Manual reset with a future plan: go idle until the plan is due.
		group.ActiveSeasonName = nil
		group.ActiveSeasonStartedAt = nil
		group.ActiveSeasonEndsAt = nil
		if group.NextSeasonStartsAt.After(now) {
			until := *group.NextSeasonStartsAt
			group.SeasonPauseUntil = &until
		} else {
			group.SeasonPauseUntil = nil
		}

	default:
		// No plan: restart with the same name and duration, delayed by the
		// configured pause days.
		duration := group.ActiveSeasonEndsAt.Sub(*group.ActiveSeasonStartedAt)
		start := seasondomain.AddDays(now, group.SeasonPauseDays)
		end := start.Add(duration)
		group.ActiveSeasonStartedAt = &start
		group.ActiveSeasonEndsAt = &end
		if group.SeasonPauseDays > 0 {
			group.SeasonPauseUntil = &start
		} else {
			group.SeasonPauseUntil = nil
			events = append(events, pendingEvent{
				eventType: shared.EventSeasonStarted,
				message:   fmt.Sprintf("Season %q has started", endedName),
			})
		}
	}

	if err := s.groups.UpdateSeasonFields(ctx, tx, group); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SeasonsCompleted.Inc()
	}
	s.logger.InfoContext(ctx, "season completed",
		"group_id", group.ID, "season", endedName, "ended_at", endedAt, "manual", manual)
	return events, nil
}

// promoteNextSeason moves the next-season plan into the active slot. For a
// successive plan the following plan is computed immediately so the schedule
// keeps rolling without admin input.
func promoteNextSeason(group *groupdb.Group, now time.Time) []pendingEvent {
	name := derefOr(group.NextSeasonName, "Season")
	startedAt := *group.NextSeasonStartsAt
	endsAt := group.NextSeasonEndsAt

	group.ActiveSeasonName = &name
	group.ActiveSeasonStartedAt = &startedAt
	group.ActiveSeasonEndsAt = endsAt
	if startedAt.After(now) {
		// Not begun yet, e.g. a successive plan with intermission days. Park
		// the gap behind a pause so the start is announced when it clears.
		until := startedAt
		group.SeasonPauseUntil = &until
	} else {
		group.SeasonPauseUntil = nil
	}

	if group.NextSeasonIsSuccessive && group.NextSeasonInterval != nil {
		intermission := 0
		if group.NextSeasonIntermissionDays != nil {
			intermission = *group.NextSeasonIntermissionDays
		}
		start, end := seasondomain.PlanSuccessor(startedAt, endsAt, *group.NextSeasonInterval, intermission)
		group.NextSeasonStartsAt = &start
		group.NextSeasonEndsAt = &end
	} else {
		clearNextPlan(group)
	}

	var events []pendingEvent
	if !startedAt.After(now) {
		events = append(events, pendingEvent{
			eventType: shared.EventSeasonStarted,
			message:   fmt.Sprintf("Season %q has started", name),
		})
	}
	return events
}

// freezeStandings copies live standings into the immutable snapshot shape.
func freezeStandings(standings []deckdb.Standing) seasondb.FrozenStandings {
	frozen := make(seasondb.FrozenStandings, 0, len(standings))
	for i, st := range standings {
		frozen = append(frozen, seasondb.FrozenStanding{
			Position:    i + 1,
			DeckID:      st.Deck.ID,
			DeckName:    st.Deck.Name,
			Colors:      st.Deck.Colors,
			OwnerName:   st.OwnerName,
			Performance: st.Deck.Performance,
			GamesPlayed: st.Deck.GamesPlayed,
		})
	}
	return frozen
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}
