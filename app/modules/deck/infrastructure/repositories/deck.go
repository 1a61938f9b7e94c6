package deckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/commander-league/backend/app/shared"
)

// DeckDBImpl handles database operations for decks.
type DeckDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*DeckDBImpl)(nil)

// GetDeck retrieves a deck by ID. Soft-deleted decks are not returned.
func (r *DeckDBImpl) GetDeck(ctx context.Context, db bun.IDB, deckID int64) (*Deck, error) {
	deck := new(Deck)
	err := db.NewSelect().
		Model(deck).
		Where("d.id = ?", deckID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NewNotFoundError("deck %d not found", deckID)
		}
		return nil, fmt.Errorf("failed to get deck %d: %w", deckID, err)
	}
	return deck, nil
}

// ListDecks retrieves all live decks in a group.
func (r *DeckDBImpl) ListDecks(ctx context.Context, db bun.IDB, groupID int64) ([]Deck, error) {
	var decks []Deck
	err := db.NewSelect().
		Model(&decks).
		Where("d.group_id = ?", groupID).
		Order("d.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks for group %d: %w", groupID, err)
	}
	return decks, nil
}

// standingRow scans the deck columns together with the owner's display name.
type standingRow struct {
	Deck      `bun:",extend"`
	OwnerName string `bun:"owner_name"`
}

// ListStandings returns the group's active decks with owner names, ordered
// by performance desc, then games played desc.
func (r *DeckDBImpl) ListStandings(ctx context.Context, db bun.IDB, groupID int64) ([]Standing, error) {
	var rows []standingRow
	err := db.NewSelect().
		Model(&rows).
		ModelTableExpr("decks AS d").
		ColumnExpr("d.*").
		ColumnExpr("COALESCE(gm.display_name, '') AS owner_name").
		Join("LEFT JOIN group_members AS gm ON gm.group_id = d.group_id AND gm.user_id = d.owner_id").
		Where("d.group_id = ?", groupID).
		Where("d.active = ?", true).
		Where("d.deleted_at IS NULL").
		OrderExpr("d.performance DESC, d.games_played DESC, d.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings for group %d: %w", groupID, err)
	}

	standings := make([]Standing, 0, len(rows))
	for _, row := range rows {
		standings = append(standings, Standing{Deck: row.Deck, OwnerName: row.OwnerName})
	}
	return standings, nil
}

// InsertDeck creates a new deck.
func (r *DeckDBImpl) InsertDeck(ctx context.Context, db bun.IDB, deck *Deck) error {
	if _, err := db.NewInsert().Model(deck).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert deck: %w", err)
	}
	return nil
}

// UpdateDeck persists a deck's editable attributes.
func (r *DeckDBImpl) UpdateDeck(ctx context.Context, db bun.IDB, deck *Deck) error {
	_, err := db.NewUpdate().
		Model(deck).
		Column("name", "colors", "archetype", "active").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update deck %d: %w", deck.ID, err)
	}
	return nil
}

// UpdatePerformance writes the rolling average and counter together.
func (r *DeckDBImpl) UpdatePerformance(ctx context.Context, db bun.IDB, deckID int64, performance float64, gamesPlayed int) error {
	_, err := db.NewUpdate().
		Model((*Deck)(nil)).
		Set("performance = ?", performance).
		Set("games_played = ?", gamesPlayed).
		Where("id = ?", deckID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update performance for deck %d: %w", deckID, err)
	}
	return nil
}

// ResetPerformance zeroes every deck's counters in the group, including
// soft-deleted decks so a restored deck does not resurrect stale numbers.
func (r *DeckDBImpl) ResetPerformance(ctx context.Context, db bun.IDB, groupID int64) error {
	_, err := db.NewUpdate().
		Model((*Deck)(nil)).
		Set("performance = 0").
		Set("games_played = 0").
		Where("group_id = ?", groupID).
		WhereAllWithDeleted().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to reset deck performance for group %d: %w", groupID, err)
	}
	return nil
}

// NameTaken reports whether another live deck in the group uses the name
// (case-insensitive).
func (r *DeckDBImpl) NameTaken(ctx context.Context, db bun.IDB, groupID int64, name string, excludeDeckID int64) (bool, error) {
	q := db.NewSelect().
		Model((*Deck)(nil)).
		Where("group_id = ?", groupID).
		Where("LOWER(name) = LOWER(?)", name)
	if excludeDeckID != 0 {
		q = q.Where("id != ?", excludeDeckID)
	}
	exists, err := q.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check deck name: %w", err)
	}
	return exists, nil
}

// HasGameHistory reports whether any game placement references the deck.
func (r *DeckDBImpl) HasGameHistory(ctx context.Context, db bun.IDB, deckID int64) (bool, error) {
	exists, err := db.NewSelect().
		Table("game_placements").
		Where("deck_id = ?", deckID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check game history for deck %d: %w", deckID, err)
	}
	return exists, nil
}

// SoftDeleteDeck marks a deck deleted while keeping the row for history.
func (r *DeckDBImpl) SoftDeleteDeck(ctx context.Context, db bun.IDB, deckID int64) error {
	_, err := db.NewDelete().
		Model((*Deck)(nil)).
		Where("id = ?", deckID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to soft-delete deck %d: %w", deckID, err)
	}
	return nil
}

// HardDeleteDeck removes a deck row entirely. Only used for decks with no
// game history.
func (r *DeckDBImpl) HardDeleteDeck(ctx context.Context, db bun.IDB, deckID int64) error {
	_, err := db.NewDelete().
		Model((*Deck)(nil)).
		Where("id = ?", deckID).
		ForceDelete().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete deck %d: %w", deckID, err)
	}
	return nil
}
