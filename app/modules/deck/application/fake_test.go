package deckservice

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
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

// fakeDeckRepo is an in-memory deck store with case-insensitive name
// uniqueness, mirroring the partial index on the real table.
type fakeDeckRepo struct {
	decks       map[int64]*deckdb.Deck
	nextID      int64
	history     map[int64]bool
	softDeleted []int64
	hardDeleted []int64
}

var _ deckdb.Repository = (*fakeDeckRepo)(nil)

func newFakeDeckRepo() *fakeDeckRepo {
	return &fakeDeckRepo{decks: map[int64]*deckdb.Deck{}, history: map[int64]bool{}, nextID: 1}
}

func (f *fakeDeckRepo) GetDeck(_ context.Context, _ bun.IDB, deckID int64) (*deckdb.Deck, error) {
	if d, ok := f.decks[deckID]; ok {
		return d, nil
	}
	return nil, shared.NewNotFoundError("deck %d not found", deckID)
}

func (f *fakeDeckRepo) ListDecks(_ context.Context, _ bun.IDB, groupID int64) ([]deckdb.Deck, error) {
	var out []deckdb.Deck
	for _, d := range f.decks {
		if d.GroupID == groupID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDeckRepo) ListStandings(_ context.Context, _ bun.IDB, _ int64) ([]deckdb.Standing, error) {
	return nil, nil
}

func (f *fakeDeckRepo) InsertDeck(_ context.Context, _ bun.IDB, deck *deckdb.Deck) error {
	deck.ID = f.nextID
	f.nextID++
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeDeckRepo) UpdateDeck(_ context.Context, _ bun.IDB, deck *deckdb.Deck) error {
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeDeckRepo) UpdatePerformance(_ context.Context, _ bun.IDB, _ int64, _ float64, _ int) error {
	return nil
}

func (f *fakeDeckRepo) ResetPerformance(_ context.Context, _ bun.IDB, _ int64) error { return nil }

func (f *fakeDeckRepo) NameTaken(_ context.Context, _ bun.IDB, groupID int64, name string, excludeDeckID int64) (bool, error) {
	for _, d := range f.decks {
		if d.GroupID == groupID && d.ID != excludeDeckID && strings.EqualFold(d.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDeckRepo) HasGameHistory(_ context.Context, _ bun.IDB, deckID int64) (bool, error) {
	return f.history[deckID], nil
}

func (f *fakeDeckRepo) SoftDeleteDeck(_ context.Context, _ bun.IDB, deckID int64) error {
	f.softDeleted = append(f.softDeleted, deckID)
	delete(f.decks, deckID)
	return nil
}

func (f *fakeDeckRepo) HardDeleteDeck(_ context.Context, _ bun.IDB, deckID int64) error {
	f.hardDeleted = append(f.hardDeleted, deckID)
	delete(f.decks, deckID)
	return nil
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
		"iris": {GroupID: 1, UserID: "iris", DisplayName: "Iris", Role: groupdb.RoleMember},
	}
}

// testService wires a DeckService onto the fakes.
func testService(repo *fakeDeckRepo, events *fakeEventLog) *DeckService {
	groups := &fakeGroupRepo{memberships: testMemberships()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	return NewDeckService(nil, repo, groups, events, logger, tracer)
}
