package deckdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository handles database operations for decks.
type Repository interface {
	GetDeck(ctx context.Context, db bun.IDB, deckID int64) (*Deck, error)
	ListDecks(ctx context.Context, db bun.IDB, groupID int64) ([]Deck, error)

	// ListStandings returns the group's active decks joined with owner
	// display names, ordered by performance desc then games played desc.
	ListStandings(ctx context.Context, db bun.IDB, groupID int64) ([]Standing, error)

	InsertDeck(ctx context.Context, db bun.IDB, deck *Deck) error
	UpdateDeck(ctx context.Context, db bun.IDB, deck *Deck) error

	// UpdatePerformance writes a deck's rolling average and game counter in
	// one statement; the two columns always move together.
	UpdatePerformance(ctx context.Context, db bun.IDB, deckID int64, performance float64, gamesPlayed int) error

	// ResetPerformance zeroes performance and games played for every deck in
	// the group. Part of the season completion transaction.
	ResetPerformance(ctx context.Context, db bun.IDB, groupID int64) error

	// NameTaken reports whether another deck in the group already uses name.
	NameTaken(ctx context.Context, db bun.IDB, groupID int64, name string, excludeDeckID int64) (bool, error)

	// HasGameHistory reports whether any placement references the deck.
	HasGameHistory(ctx context.Context, db bun.IDB, deckID int64) (bool, error)

	SoftDeleteDeck(ctx context.Context, db bun.IDB, deckID int64) error
	HardDeleteDeck(ctx context.Context, db bun.IDB, deckID int64) error
}
