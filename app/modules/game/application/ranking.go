package gameservice

import (
	"context"

	"github.com/uptrace/bun"

	gamedb "github.com/commander-league/backend/app/modules/game/infrastructure/repositories"
)

// RankedDeck is one row of the live ranking.
type RankedDeck struct {
	Position    int     `json:"position"`
	DeckID      int64   `json:"deckId"`
	DeckName    string  `json:"deckName"`
	Colors      string  `json:"colors"`
	OwnerName   string  `json:"ownerName"`
	Performance float64 `json:"performance"`
	GamesPlayed int     `json:"gamesPlayed"`
}

// GetRanking returns the current season's live standings. The season state is
// rolled forward first so a ranking read never shows a season that should
// already have ended.
func (s *GameService) GetRanking(ctx context.Context, groupID int64, userID string) ([]RankedDeck, error) {
	ctx, span := s.tracer.Start(ctx, "GetRanking")
	defer span.End()

	if err := s.seasons.EnsureSeasonUpToDate(ctx, groupID); err != nil {
		return nil, err
	}

	var ranking []RankedDeck
	err := s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := s.groups.GetMembership(ctx, tx, groupID, userID); err != nil {
			return err
		}

		standings, err := s.decks.ListStandings(ctx, tx, groupID)
		if err != nil {
			return err
		}

		ranking = make([]RankedDeck, 0, len(standings))
		for i, st := range standings {
			ranking = append(ranking, RankedDeck{
				Position:    i + 1,
				DeckID:      st.Deck.ID,
				DeckName:    st.Deck.Name,
				Colors:      st.Deck.Colors,
				OwnerName:   st.OwnerName,
				Performance: st.Deck.Performance,
				GamesPlayed: st.Deck.GamesPlayed,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranking, nil
}

// defaultGameListLimit caps the game history page size.
const defaultGameListLimit = 50

// ListGames returns a group's recent games, newest first.
func (s *GameService) ListGames(ctx context.Context, groupID int64, userID string, limit int) ([]gamedb.Game, error) {
	ctx, span := s.tracer.Start(ctx, "ListGames")
	defer span.End()

	if limit <= 0 || limit > defaultGameListLimit {
		limit = defaultGameListLimit
	}

	var games []gamedb.Game
	err := s.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if _, err := s.groups.GetMembership(ctx, tx, groupID, userID); err != nil {
			return err
		}
		var err error
		games, err = s.repo.ListGames(ctx, tx, groupID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}
