package gameservice

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	gamedb "github.com/commander-league/backend/app/modules/game/infrastructure/repositories"
	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	"github.com/commander-league/backend/app/metrics"
	"github.com/commander-league/backend/app/shared"
)

// fakeGroupRepo serves memberships from memory.
type fakeGroupRepo struct {
	memberships map[string]*groupdb.Membership
}

var _ groupdb.Repository = (*fakeGroupRepo)(nil)

func (f *fakeGroupRepo) GetGroup(_ context.Context, _ bun.IDB, groupID int64) (*groupdb.Group, error) {
	return &groupdb.Group{ID: groupID, Name: "Tuesday Pod"}, nil
}

func (f *fakeGroupRepo) UpdateSeasonFields(_ context.Context, _ bun.IDB, _ *groupdb.Group) error {
	return nil
}

func (f *fakeGroupRepo) GetMembership(_ context.Context, _ bun.IDB, groupID int64, userID string) (*groupdb.Membership, error) {
	if m, ok := f.memberships[userID]; ok && m.GroupID == groupID {
		return m, nil
	}
	return nil, shared.NewPermissionError("user %s is not a member of group %d", userID, groupID)
}

func (f *fakeGroupRepo) ListMemberships(_ context.Context, _ bun.IDB, _ int64) ([]groupdb.Membership, error) {
	return nil, nil
}

func (f *fakeGroupRepo) InsertEvent(_ context.Context, _ bun.IDB, _ *groupdb.GroupEvent) error {
	return nil
}

func (f *fakeGroupRepo) ListEvents(_ context.Context, _ bun.IDB, _ int64, _ int) ([]groupdb.GroupEvent, error) {
	return nil, nil
}

// perfWrite records one UpdatePerformance call.
type perfWrite struct {
	DeckID      int64
	Performance float64
	GamesPlayed int
}

// fakeDeckRepo serves decks from memory and records performance writes.
type fakeDeckRepo struct {
	decks      map[int64]*deckdb.Deck
	perfWrites []perfWrite
}

var _ deckdb.Repository = (*fakeDeckRepo)(nil)

func (f *fakeDeckRepo) GetDeck(_ context.Context, _ bun.IDB, deckID int64) (*deckdb.Deck, error) {
	if d, ok := f.decks[deckID]; ok {
		return d, nil
	}
	return nil, shared.NewNotFoundError("deck %d not found", deckID)
}

func (f *fakeDeckRepo) ListDecks(_ context.Context, _ bun.IDB, _ int64) ([]deckdb.Deck, error) {
	return nil, nil
}

func (f *fakeDeckRepo) ListStandings(_ context.Context, _ bun.IDB, groupID int64) ([]deckdb.Standing, error) {
	// Ordered like the real query: performance desc, games played desc.
	var out []deckdb.Standing
	for _, d := range f.decks {
		if d.GroupID == groupID && d.Active {
			out = append(out, deckdb.Standing{Deck: *d, OwnerName: d.OwnerID})
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			a, b := out[i].Deck, out[j].Deck
			if b.Performance > a.Performance ||
				(b.Performance == a.Performance && b.GamesPlayed > a.GamesPlayed) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeDeckRepo) InsertDeck(_ context.Context, _ bun.IDB, _ *deckdb.Deck) error { return nil }
func (f *fakeDeckRepo) UpdateDeck(_ context.Context, _ bun.IDB, _ *deckdb.Deck) error { return nil }

func (f *fakeDeckRepo) UpdatePerformance(_ context.Context, _ bun.IDB, deckID int64, performance float64, gamesPlayed int) error {
	f.perfWrites = append(f.perfWrites, perfWrite{DeckID: deckID, Performance: performance, GamesPlayed: gamesPlayed})
	if d, ok := f.decks[deckID]; ok {
		d.Performance = performance
		d.GamesPlayed = gamesPlayed
	}
	return nil
}

func (f *fakeDeckRepo) ResetPerformance(_ context.Context, _ bun.IDB, _ int64) error { return nil }

func (f *fakeDeckRepo) NameTaken(_ context.Context, _ bun.IDB, _ int64, _ string, _ int64) (bool, error) {
	return false, nil
}

func (f *fakeDeckRepo) HasGameHistory(_ context.Context, _ bun.IDB, _ int64) (bool, error) {
	return false, nil
}

func (f *fakeDeckRepo) SoftDeleteDeck(_ context.Context, _ bun.IDB, _ int64) error { return nil }
func (f *fakeDeckRepo) HardDeleteDeck(_ context.Context, _ bun.IDB, _ int64) error { return nil }

// fakeGameRepo keeps games in insertion order.
type fakeGameRepo struct {
	games   []*gamedb.Game
	deleted []uuid.UUID
}

var _ gamedb.Repository = (*fakeGameRepo)(nil)

func (f *fakeGameRepo) InsertGame(_ context.Context, _ bun.IDB, game *gamedb.Game) error {
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	for _, p := range game.Placements {
		p.GameID = game.ID
	}
	f.games = append(f.games, game)
	return nil
}

func (f *fakeGameRepo) GetLatestGame(_ context.Context, _ bun.IDB, groupID int64) (*gamedb.Game, error) {
	for i := len(f.games) - 1; i >= 0; i-- {
		if f.games[i].GroupID == groupID {
			return f.games[i], nil
		}
	}
	return nil, shared.NewNotFoundError("group %d has no recorded games", groupID)
}

func (f *fakeGameRepo) DeleteGame(_ context.Context, _ bun.IDB, gameID uuid.UUID) error {
	f.deleted = append(f.deleted, gameID)
	for i, g := range f.games {
		if g.ID == gameID {
			f.games = append(f.games[:i], f.games[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeGameRepo) ListGames(_ context.Context, _ bun.IDB, groupID int64, limit int) ([]gamedb.Game, error) {
	var out []gamedb.Game
	for i := len(f.games) - 1; i >= 0 && len(out) < limit; i-- {
		if f.games[i].GroupID == groupID {
			out = append(out, *f.games[i])
		}
	}
	return out, nil
}

// fakeSeasonGuard counts ensure calls and can fail them.
type fakeSeasonGuard struct {
	calls int
	err   error
}

func (f *fakeSeasonGuard) EnsureSeasonUpToDate(_ context.Context, _ int64) error {
	f.calls++
	return f.err
}

// fakeEventLog records the emitted audit events in order.
type fakeEventLog struct {
	entries []shared.EventType
}

func (f *fakeEventLog) Log(_ context.Context, _ int64, eventType shared.EventType, _ string) {
	f.entries = append(f.entries, eventType)
}

func testMemberships() map[string]*groupdb.Membership {
	return map[string]*groupdb.Membership{
		"mara": {GroupID: 1, UserID: "mara", DisplayName: "Mara", Role: groupdb.RoleAdmin},
		"ben":  {GroupID: 1, UserID: "ben", DisplayName: "Ben", Role: groupdb.RoleMember},
	}
}

func testDecks() map[int64]*deckdb.Deck {
	return map[int64]*deckdb.Deck{
		11: {ID: 11, GroupID: 1, OwnerID: "mara", Name: "Krenko Mob", Colors: "R", Active: true},
		12: {ID: 12, GroupID: 1, OwnerID: "ben", Name: "Atraxa Pile", Colors: "WUBG", Active: true},
		13: {ID: 13, GroupID: 1, OwnerID: "mara", Name: "Mono Blue", Colors: "U", Active: true},
		14: {ID: 14, GroupID: 1, OwnerID: "ben", Name: "Shelved", Colors: "", Active: false},
		21: {ID: 21, GroupID: 2, OwnerID: "kim", Name: "Elsewhere", Colors: "G", Active: true},
	}
}

// testService wires a GameService onto the fakes.
func testService(groups *fakeGroupRepo, decks *fakeDeckRepo, repo *fakeGameRepo, seasons *fakeSeasonGuard, events *fakeEventLog, clock shared.Clock) *GameService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	return NewGameService(nil, repo, decks, groups, seasons, events, clock, logger, tracer, metrics.NewUnregistered())
}
