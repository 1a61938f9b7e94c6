package seasonservice

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	seasondomain "github.com/commander-league/backend/app/modules/season/domain"
	"github.com/commander-league/backend/app/shared"
)

// maxSeasonDays caps an active season window; anything longer is almost
// certainly a typo in the year.
const maxSeasonDays = 365

// SeasonSettingsInput is the tri-state patch for season settings. An unset
// field is untouched, an explicit null clears, a value overwrites. Dates are
// normalized to UTC midnight before validation and storage.
type SeasonSettingsInput struct {
	ActiveSeasonName   shared.Patch[string]    `json:"activeSeasonName"`
	ActiveSeasonStart  shared.Patch[time.Time] `json:"activeSeasonStartedAt"`
	ActiveSeasonEnd    shared.Patch[time.Time] `json:"activeSeasonEndsAt"`
	SeasonPauseDays    shared.Patch[int]       `json:"seasonPauseDays"`
	NextSeasonName     shared.Patch[string]    `json:"nextSeasonName"`
	NextSeasonStart    shared.Patch[time.Time] `json:"nextSeasonStartsAt"`
	NextSeasonEnd      shared.Patch[time.Time] `json:"nextSeasonEndsAt"`
	NextIsSuccessive   shared.Patch[bool]      `json:"nextSeasonIsSuccessive"`
	NextInterval       shared.Patch[string]    `json:"nextSeasonInterval"`
	NextIntermission   shared.Patch[int]       `json:"nextSeasonIntermissionDays"`
}

// UpdateSeasonSettings applies an admin's partial season settings update. The
// stored state is rolled forward first so validation runs against current
// reality, then the patch is applied and the combined result validated as a
// whole.
func (s *SeasonService) UpdateSeasonSettings(ctx context.Context, groupID int64, userID string, input SeasonSettingsInput) (updated *groupdb.Group, err error) {
	ctx, span := s.tracer.Start(ctx, "UpdateSeasonSettings")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveDuration("season_settings", time.Now())
		defer func() {
			if err != nil {
				s.metrics.ObserveFailure("season_settings")
			}
		}()
	}

	if _, err = s.admins.RequireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if err = s.EnsureSeasonUpToDate(ctx, groupID); err != nil {
		return nil, err
	}

	err = s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		group, err := s.groups.GetGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}

		if err := applySeasonSettings(group, input, s.clock.NowUTC()); err != nil {
			return err
		}
		if err := s.groups.UpdateSeasonFields(ctx, tx, group); err != nil {
			return err
		}
		updated = group
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventLog.Log(ctx, groupID, shared.EventSeasonUpdated, "Season settings were updated")
	return updated, nil
}

// applySeasonSettings mutates group in place after validating the patch
// against the existing state.
func applySeasonSettings(group *groupdb.Group, input SeasonSettingsInput, now time.Time) error {
	today := seasondomain.TruncateToUTCDay(now)

	if input.ActiveSeasonStart.Set {
		if group.ActiveSeasonStartedAt != nil {
			v, ok := input.ActiveSeasonStart.Get()
			if !ok || !seasondomain.SameUTCDay(v, *group.ActiveSeasonStartedAt) {
				return shared.NewValidationError("the start date of a running season cannot be changed")
			}
		} else if v, ok := input.ActiveSeasonStart.Get(); ok {
			start := seasondomain.TruncateToUTCDay(v)
			group.ActiveSeasonStartedAt = &start
		}
	}

	if input.ActiveSeasonName.Set {
		if v, ok := input.ActiveSeasonName.Get(); ok {
			name := strings.TrimSpace(v)
			if name == "" {
				return shared.NewValidationError("season name must not be empty")
			}
			group.ActiveSeasonName = &name
		} else {
			group.ActiveSeasonName = nil
		}
	}

	if input.ActiveSeasonEnd.Set {
		if v, ok := input.ActiveSeasonEnd.Get(); ok {
			end := seasondomain.TruncateToUTCDay(v)
			group.ActiveSeasonEndsAt = &end
		} else {
			group.ActiveSeasonEndsAt = nil
		}
	}

	if input.SeasonPauseDays.Set {
		v, ok := input.SeasonPauseDays.Get()
		if !ok {
			v = 0
		}
		if v < 0 || v > maxSeasonDays {
			return shared.NewValidationError("pause days must be between 0 and %d", maxSeasonDays)
		}
		group.SeasonPauseDays = v
	}

	if input.NextSeasonName.Set {
		if v, ok := input.NextSeasonName.Get(); ok {
			name := strings.TrimSpace(v)
			if name == "" {
				return shared.NewValidationError("next season name must not be empty")
			}
			group.NextSeasonName = &name
		} else {
			group.NextSeasonName = nil
		}
	}

	if input.NextSeasonStart.Set {
		if v, ok := input.NextSeasonStart.Get(); ok {
			start := seasondomain.TruncateToUTCDay(v)
			group.NextSeasonStartsAt = &start
		} else {
			group.NextSeasonStartsAt = nil
		}
	}

	if input.NextSeasonEnd.Set {
		if v, ok := input.NextSeasonEnd.Get(); ok {
			end := seasondomain.TruncateToUTCDay(v)
			group.NextSeasonEndsAt = &end
		} else {
			group.NextSeasonEndsAt = nil
		}
	}

	if input.NextIsSuccessive.Set {
		v, _ := input.NextIsSuccessive.Get()
		group.NextSeasonIsSuccessive = v
	}

	if input.NextInterval.Set {
		if v, ok := input.NextInterval.Get(); ok {
			interval := seasondomain.Interval(v)
			if !interval.Valid() {
				return shared.NewValidationError("invalid season interval %q", v)
			}
			group.NextSeasonInterval = &interval
		} else {
			group.NextSeasonInterval = nil
		}
	}

	if input.NextIntermission.Set {
		if v, ok := input.NextIntermission.Get(); ok {
			if v < 0 || v > maxSeasonDays {
				return shared.NewValidationError("intermission days must be between 0 and %d", maxSeasonDays)
			}
			group.NextSeasonIntermissionDays = &v
		} else {
			group.NextSeasonIntermissionDays = nil
		}
	}

	return validateSeasonState(group, today)
}

// validateSeasonState checks the combined season configuration. It runs after
// the patch is applied so cross-field rules see the final values.
func validateSeasonState(group *groupdb.Group, today time.Time) error {
	if group.ActiveSeasonEndsAt != nil {
		if group.ActiveSeasonStartedAt == nil {
			return shared.NewValidationError("a season end date requires a start date")
		}
		if !group.ActiveSeasonEndsAt.After(*group.ActiveSeasonStartedAt) {
			return shared.NewValidationError("season end must be after the season start")
		}
		if group.ActiveSeasonEndsAt.Sub(*group.ActiveSeasonStartedAt) > maxSeasonDays*24*time.Hour {
			return shared.NewValidationError("a season cannot be longer than %d days", maxSeasonDays)
		}
	}

	hasNextData := group.NextSeasonName != nil || group.NextSeasonEndsAt != nil ||
		group.NextSeasonIsSuccessive || group.NextSeasonInterval != nil ||
		group.NextSeasonIntermissionDays != nil
	if hasNextData && group.NextSeasonStartsAt == nil {
		return shared.NewValidationError("a planned next season requires a start date")
	}

	if group.NextSeasonStartsAt != nil {
		start := *group.NextSeasonStartsAt
		if start.Before(today) {
			return shared.NewValidationError("the next season cannot start in the past")
		}
		if group.ActiveSeasonEndsAt != nil {
			earliest := seasondomain.AddDays(*group.ActiveSeasonEndsAt, group.SeasonPauseDays)
			if start.Before(earliest) {
				return shared.NewValidationError("the next season cannot start before the current season ends plus the pause")
			}
		}
		if group.SeasonPauseUntil != nil && start.Before(seasondomain.TruncateToUTCDay(*group.SeasonPauseUntil)) {
			return shared.NewValidationError("the next season cannot start during the pause")
		}
		if group.NextSeasonEndsAt != nil && !group.NextSeasonEndsAt.After(start) {
			return shared.NewValidationError("the next season must end after it starts")
		}
	}

	if group.NextSeasonIsSuccessive && group.NextSeasonInterval == nil {
		return shared.NewValidationError("a successive season requires an interval")
	}

	return nil
}
