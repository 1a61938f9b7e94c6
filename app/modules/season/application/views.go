package seasonservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	seasondb "github.com/commander-league/backend/app/modules/season/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// WinnersBanner is the celebratory view of the most recently ended season,
// shown until the window elapses or the user dismisses it.
type WinnersBanner struct {
	SeasonID   string                    `json:"seasonId"`
	SeasonName string                    `json:"seasonName"`
	EndedAt    string                    `json:"endedAt"`
	Podium     []seasondb.FrozenStanding `json:"podium"`
}

// podiumSize is how many standings the banner shows.
const podiumSize = 3

// GetLastSeasonRanking returns the frozen standings of the most recently
// ended season.
func (s *SeasonService) GetLastSeasonRanking(ctx context.Context, groupID int64, userID string) (*seasondb.GroupSeason, error) {
	ctx, span := s.tracer.Start(ctx, "GetLastSeasonRanking")
	defer span.End()

	if err := s.EnsureSeasonUpToDate(ctx, groupID); err != nil {
		return nil, err
	}

	var snapshot *seasondb.GroupSeason
	err := s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := s.groups.GetMembership(ctx, tx, groupID, userID); err != nil {
			return err
		}
		var err error
		snapshot, err = s.repo.GetLatestSnapshot(ctx, tx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// ListSeasons returns every finished season of a group, newest first.
func (s *SeasonService) ListSeasons(ctx context.Context, groupID int64, userID string) ([]seasondb.GroupSeason, error) {
	ctx, span := s.tracer.Start(ctx, "ListSeasons")
	defer span.End()

	var snapshots []seasondb.GroupSeason
	err := s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := s.groups.GetMembership(ctx, tx, groupID, userID); err != nil {
			return err
		}
		var err error
		snapshots, err = s.repo.ListSnapshots(ctx, tx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetWinnersBanner returns the banner for the latest finished season, or nil
// when there is nothing to show: no finished season, the window elapsed, the
// user dismissed it, or the season ended without any games.
func (s *SeasonService) GetWinnersBanner(ctx context.Context, groupID int64, userID string) (*WinnersBanner, error) {
	ctx, span := s.tracer.Start(ctx, "GetWinnersBanner")
	defer span.End()

	if err := s.EnsureSeasonUpToDate(ctx, groupID); err != nil {
		return nil, err
	}

	var banner *WinnersBanner
	err := s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := s.groups.GetMembership(ctx, tx, groupID, userID); err != nil {
			return err
		}

		snapshot, err := s.repo.GetLatestSnapshot(ctx, tx, groupID)
		if err != nil {
			var notFound *shared.NotFoundError
			if errors.As(err, &notFound) {
				return nil
			}
			return err
		}

		now := s.clock.NowUTC()
		if now.Sub(snapshot.EndedAt) > s.bannerWindow {
			return nil
		}
		if len(snapshot.Standings) == 0 || snapshot.Standings[0].GamesPlayed == 0 {
			return nil
		}

		dismissed, err := s.repo.HasDismissal(ctx, tx, snapshot.ID, userID)
		if err != nil {
			return err
		}
		if dismissed {
			return nil
		}

		podium := snapshot.Standings
		if len(podium) > podiumSize {
			podium = podium[:podiumSize]
		}
		banner = &WinnersBanner{
			SeasonID:   snapshot.ID.String(),
			SeasonName: snapshot.Name,
			EndedAt:    snapshot.EndedAt.Format("2006-01-02"),
			Podium:     podium,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return banner, nil
}

// DismissWinnersBanner hides the current banner for one user. Dismissing an
// already dismissed banner is a no-op.
func (s *SeasonService) DismissWinnersBanner(ctx context.Context, groupID int64, userID string) error {
	ctx, span := s.tracer.Start(ctx, "DismissWinnersBanner")
	defer span.End()

	return s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := s.groups.GetMembership(ctx, tx, groupID, userID); err != nil {
			return err
		}
		snapshot, err := s.repo.GetLatestSnapshot(ctx, tx, groupID)
		if err != nil {
			return err
		}
		return s.repo.UpsertDismissal(ctx, tx, snapshot.ID, userID)
	})
}
