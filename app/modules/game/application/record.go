package gameservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	gamedomain "github.com/commander-league/backend/app/modules/game/domain"
	gamedb "github.com/commander-league/backend/app/modules/game/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// PlacementEntry is one submitted placement. Exactly one of DeckID (a group
// member's deck) or PlayerName (a guest) must be set.
type PlacementEntry struct {
	Rank       float64 `json:"rank"`
	DeckID     *int64  `json:"deckId"`
	PlayerName *string `json:"playerName"`
}

// RecordGameInput is the payload for recording a game. A nil PlayedAt
// defaults to the current time.
type RecordGameInput struct {
	PlayedAt   *time.Time       `json:"playedAt"`
	Placements []PlacementEntry `json:"placements"`
}

// RecordGame validates, scores and persists a game, folding each deck's
// points into its rolling average in the same transaction.
func (s *GameService) RecordGame(ctx context.Context, groupID int64, userID string, input RecordGameInput) (game *gamedb.Game, err error) {
	ctx, span := s.tracer.Start(ctx, "RecordGame")
	defer span.End()
	if s.metrics != nil {
		defer s.metrics.ObserveDuration("record_game", time.Now())
		defer func() {
			if err != nil {
				s.metrics.ObserveFailure("record_game")
			}
		}()
	}

	if err = s.seasons.EnsureSeasonUpToDate(ctx, groupID); err != nil {
		return nil, err
	}

	playerCount := len(input.Placements)
	if playerCount < gamedomain.MinPlayers || playerCount > gamedomain.MaxPlayers {
		return nil, shared.NewValidationError("a game needs between %d and %d players, got %d",
			gamedomain.MinPlayers, gamedomain.MaxPlayers, playerCount)
	}

	scored, err := scoreEntries(input.Placements)
	if err != nil {
		return nil, err
	}

	playedAt := s.clock.NowUTC()
	if input.PlayedAt != nil {
		playedAt = input.PlayedAt.UTC()
	}

	err = s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := s.groups.GetMembership(ctx, tx, groupID, userID); err != nil {
			return err
		}

		placements, deckUpdates, err := s.resolvePlacements(ctx, tx, groupID, scored)
		if err != nil {
			return err
		}

		game = &gamedb.Game{
			GroupID:     groupID,
			PlayedAt:    playedAt,
			PlayerCount: playerCount,
			Placements:  placements,
		}
		if err := s.repo.InsertGame(ctx, tx, game); err != nil {
			return err
		}

		for _, u := range deckUpdates {
			if err := s.decks.UpdatePerformance(ctx, tx, u.deckID, u.performance, u.gamesPlayed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.GamesRecorded.Inc()
	}
	s.eventLog.Log(ctx, groupID, shared.EventGameRecorded,
		fmt.Sprintf("A %d-player game was recorded", playerCount))
	s.logger.InfoContext(ctx, "game recorded",
		"group_id", groupID, "game_id", game.ID, "players", playerCount)
	return game, nil
}

// scoreEntries validates the deck/guest shape of each entry and runs the
// scoring.
func scoreEntries(entries []PlacementEntry) ([]gamedomain.ScoredPlacement, error) {
	in := make([]gamedomain.PlacementInput, len(entries))
	for i, e := range entries {
		switch {
		case e.DeckID != nil && e.PlayerName != nil:
			return nil, shared.NewValidationError("placement %d names both a deck and a guest", i+1)
		case e.DeckID == nil && (e.PlayerName == nil || strings.TrimSpace(*e.PlayerName) == ""):
			return nil, shared.NewValidationError("placement %d needs a deck or a guest name", i+1)
		}
		in[i] = gamedomain.PlacementInput{
			Rank:       e.Rank,
			DeckID:     e.DeckID,
			PlayerName: e.PlayerName,
		}
	}
	return gamedomain.ScorePlacements(in)
}

// deckUpdate carries one deck's new rolling average out of placement
// resolution.
type deckUpdate struct {
	deckID      int64
	performance float64
	gamesPlayed int
}

// resolvePlacements turns scored placements into persistence rows, verifying
// every referenced deck belongs to the group, is active and appears at most
// once. Deck names are frozen onto the rows; guest points are computed but
// not tracked anywhere.
func (s *GameService) resolvePlacements(ctx context.Context, tx bun.IDB, groupID int64, scored []gamedomain.ScoredPlacement) ([]*gamedb.GamePlacement, []deckUpdate, error) {
	placements := make([]*gamedb.GamePlacement, 0, len(scored))
	updates := make([]deckUpdate, 0, len(scored))
	seen := make(map[int64]bool, len(scored))

	for _, sp := range scored {
		row := &gamedb.GamePlacement{
			Rank:       sp.Rank,
			Points:     sp.Points,
			DeckID:     sp.DeckID,
			PlayerName: sp.PlayerName,
		}

		if sp.DeckID != nil {
			id := *sp.DeckID
			if seen[id] {
				return nil, nil, shared.NewValidationError("deck %d appears more than once", id)
			}
			seen[id] = true

			deck, err := s.decks.GetDeck(ctx, tx, id)
			if err != nil {
				return nil, nil, err
			}
			if deck.GroupID != groupID {
				return nil, nil, shared.NewValidationError("deck %d does not belong to this group", id)
			}
			if !deck.Active {
				return nil, nil, shared.NewValidationError("deck %q is retired", deck.Name)
			}

			row.DeckName = deck.Name
			updates = append(updates, deckUpdate{
				deckID:      id,
				performance: gamedomain.CalculateNewPerformance(deck.Performance, deck.GamesPlayed, sp.Points),
				gamesPlayed: deck.GamesPlayed + 1,
			})
		}

		placements = append(placements, row)
	}
	return placements, updates, nil
}
