package gameservice

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/bun"

	gamedomain "github.com/commander-league/backend/app/modules/game/domain"
	"github.com/commander-league/backend/app/shared"
)

// UndoLastGame deletes the most recently recorded game of a group and reverts
// every affected deck's rolling average and game counter in the same
// transaction. Only the latest game can be undone; without that restriction
// the rolling average could not be reverted exactly.
func (s *GameService) UndoLastGame(ctx context.Context, groupID int64, userID string) (err error) {
	ctx, span := s.tracer.Start(ctx, "UndoLastGame")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveDuration("undo_game", time.Now())
		defer func() {
			if err != nil {
				s.metrics.ObserveFailure("undo_game")
			}
		}()
	}

	// Settle any due rollover first: once a season has ended, its final game
	// belongs to the frozen snapshot and must not be undone retroactively.
	if err = s.seasons.EnsureSeasonUpToDate(ctx, groupID); err != nil {
		return err
	}

	err = s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := s.groups.GetMembership(ctx, tx, groupID, userID); err != nil {
			return err
		}

		game, err := s.repo.GetLatestGame(ctx, tx, groupID)
		if err != nil {
			return err
		}

		for _, p := range game.Placements {
			if p.DeckID == nil {
				continue
			}
			deck, err := s.decks.GetDeck(ctx, tx, *p.DeckID)
			if err != nil {
				// A soft-deleted deck keeps its placement rows but has no
				// counters left to revert.
				var notFound *shared.NotFoundError
				if errors.As(err, &notFound) {
					continue
				}
				return err
			}
			reverted := gamedomain.CalculatePreviousPerformance(deck.Performance, deck.GamesPlayed, p.Points)
			gamesPlayed := deck.GamesPlayed - 1
			if gamesPlayed < 0 {
				gamesPlayed = 0
			}
			if err := s.decks.UpdatePerformance(ctx, tx, deck.ID, reverted, gamesPlayed); err != nil {
				return err
			}
		}

		return s.repo.DeleteGame(ctx, tx, game.ID)
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.GamesUndone.Inc()
	}
	s.eventLog.Log(ctx, groupID, shared.EventGameUndone, "The last game was undone")
	s.logger.InfoContext(ctx, "last game undone", "group_id", groupID)
	return nil
}
