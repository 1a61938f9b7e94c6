package deckdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Deck is a player's entry in a group. Performance and GamesPlayed are only
// ever written together, by the scoring rolling-average functions; the
// season rollover resets both to zero. Decks with game history are
// soft-deleted so historical placements stay intact.
type Deck struct {
	bun.BaseModel `bun:"table:decks,alias:d"`

	ID        int64   `bun:"id,pk,autoincrement"`
	GroupID   int64   `bun:"group_id,notnull"`
	OwnerID   string  `bun:"owner_id,notnull"`
	Name      string  `bun:"name,notnull"`
	Colors    string  `bun:"colors,notnull,default:''"`
	Archetype *string `bun:"archetype"`
	Active    bool    `bun:"active,notnull,default:true"`

	Performance float64 `bun:"performance,notnull,default:0"`
	GamesPlayed int     `bun:"games_played,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	DeletedAt time.Time `bun:"deleted_at,soft_delete,nullzero"`
}

// Standing is a deck with its owner's display name, as surfaced in rankings
// and frozen into season snapshots.
type Standing struct {
	Deck      Deck
	OwnerName string
}
