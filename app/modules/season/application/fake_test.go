package seasonservice

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/commander-league/backend/app/metrics"
	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	groupservice "github.com/commander-league/backend/app/modules/group/application"
	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	seasondb "github.com/commander-league/backend/app/modules/season/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// fakeGroupRepo serves a single group from memory and counts season writes.
type fakeGroupRepo struct {
	group       *groupdb.Group
	memberships map[string]*groupdb.Membership
	updateCalls int
	updateErr   error
	events      []*groupdb.GroupEvent
}

var _ groupdb.Repository = (*fakeGroupRepo)(nil)

func (f *fakeGroupRepo) GetGroup(_ context.Context, _ bun.IDB, groupID int64) (*groupdb.Group, error) {
	if f.group == nil || f.group.ID != groupID {
		return nil, shared.NewNotFoundError("group %d not found", groupID)
	}
	return f.group, nil
}

func (f *fakeGroupRepo) UpdateSeasonFields(_ context.Context, _ bun.IDB, group *groupdb.Group) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.group = group
	return nil
}

func (f *fakeGroupRepo) GetMembership(_ context.Context, _ bun.IDB, groupID int64, userID string) (*groupdb.Membership, error) {
	if m, ok := f.memberships[userID]; ok && m.GroupID == groupID {
		return m, nil
	}
	return nil, shared.NewPermissionError("user %s is not a member of group %d", userID, groupID)
}

func (f *fakeGroupRepo) ListMemberships(_ context.Context, _ bun.IDB, _ int64) ([]groupdb.Membership, error) {
	var out []groupdb.Membership
	for _, m := range f.memberships {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeGroupRepo) InsertEvent(_ context.Context, _ bun.IDB, event *groupdb.GroupEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeGroupRepo) ListEvents(_ context.Context, _ bun.IDB, _ int64, _ int) ([]groupdb.GroupEvent, error) {
	var out []groupdb.GroupEvent
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, nil
}

// fakeDeckRepo serves standings and records performance resets.
type fakeDeckRepo struct {
	standings  []deckdb.Standing
	resetCalls int
}

var _ deckdb.Repository = (*fakeDeckRepo)(nil)

func (f *fakeDeckRepo) GetDeck(_ context.Context, _ bun.IDB, deckID int64) (*deckdb.Deck, error) {
	for i := range f.standings {
		if f.standings[i].Deck.ID == deckID {
			return &f.standings[i].Deck, nil
		}
	}
	return nil, shared.NewNotFoundError("deck %d not found", deckID)
}

func (f *fakeDeckRepo) ListDecks(_ context.Context, _ bun.IDB, _ int64) ([]deckdb.Deck, error) {
	var out []deckdb.Deck
	for _, st := range f.standings {
		out = append(out, st.Deck)
	}
	return out, nil
}

func (f *fakeDeckRepo) ListStandings(_ context.Context, _ bun.IDB, _ int64) ([]deckdb.Standing, error) {
	return f.standings, nil
}

func (f *fakeDeckRepo) InsertDeck(_ context.Context, _ bun.IDB, _ *deckdb.Deck) error { return nil }
func (f *fakeDeckRepo) UpdateDeck(_ context.Context, _ bun.IDB, _ *deckdb.Deck) error { return nil }

func (f *fakeDeckRepo) UpdatePerformance(_ context.Context, _ bun.IDB, deckID int64, performance float64, gamesPlayed int) error {
	for i := range f.standings {
		if f.standings[i].Deck.ID == deckID {
			f.standings[i].Deck.Performance = performance
			f.standings[i].Deck.GamesPlayed = gamesPlayed
		}
	}
	return nil
}

func (f *fakeDeckRepo) ResetPerformance(_ context.Context, _ bun.IDB, _ int64) error {
	f.resetCalls++
	for i := range f.standings {
		f.standings[i].Deck.Performance = 0
		f.standings[i].Deck.GamesPlayed = 0
	}
	return nil
}

func (f *fakeDeckRepo) NameTaken(_ context.Context, _ bun.IDB, _ int64, _ string, _ int64) (bool, error) {
	return false, nil
}

func (f *fakeDeckRepo) HasGameHistory(_ context.Context, _ bun.IDB, _ int64) (bool, error) {
	return false, nil
}

func (f *fakeDeckRepo) SoftDeleteDeck(_ context.Context, _ bun.IDB, _ int64) error { return nil }
func (f *fakeDeckRepo) HardDeleteDeck(_ context.Context, _ bun.IDB, _ int64) error { return nil }

// fakeSeasonRepo keeps snapshots and dismissals in memory.
type fakeSeasonRepo struct {
	snapshots  []*seasondb.GroupSeason
	dismissals map[string]bool
}

var _ seasondb.Repository = (*fakeSeasonRepo)(nil)

func (f *fakeSeasonRepo) InsertSnapshot(_ context.Context, _ bun.IDB, snapshot *seasondb.GroupSeason) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	f.snapshots = append(f.snapshots, snapshot)
	return nil
}

func (f *fakeSeasonRepo) GetLatestSnapshot(_ context.Context, _ bun.IDB, groupID int64) (*seasondb.GroupSeason, error) {
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		if f.snapshots[i].GroupID == groupID {
			return f.snapshots[i], nil
		}
	}
	return nil, shared.NewNotFoundError("group %d has no finished seasons", groupID)
}

func (f *fakeSeasonRepo) ListSnapshots(_ context.Context, _ bun.IDB, groupID int64) ([]seasondb.GroupSeason, error) {
	var out []seasondb.GroupSeason
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		if f.snapshots[i].GroupID == groupID {
			out = append(out, *f.snapshots[i])
		}
	}
	return out, nil
}

func (f *fakeSeasonRepo) UpsertDismissal(_ context.Context, _ bun.IDB, seasonID uuid.UUID, userID string) error {
	if f.dismissals == nil {
		f.dismissals = map[string]bool{}
	}
	f.dismissals[seasonID.String()+"/"+userID] = true
	return nil
}

func (f *fakeSeasonRepo) HasDismissal(_ context.Context, _ bun.IDB, seasonID uuid.UUID, userID string) (bool, error) {
	return f.dismissals[seasonID.String()+"/"+userID], nil
}

// fakeEventLog records the emitted audit events in order.
type fakeEventLog struct {
	entries []loggedEvent
}

type loggedEvent struct {
	EventType shared.EventType
	Message   string
}

func (f *fakeEventLog) Log(_ context.Context, _ int64, eventType shared.EventType, message string) {
	f.entries = append(f.entries, loggedEvent{EventType: eventType, Message: message})
}

func (f *fakeEventLog) types() []shared.EventType {
	out := make([]shared.EventType, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.EventType)
	}
	return out
}

// testService wires a SeasonService onto the fakes with a fixed clock. The
// admin gate is the real group service running against the fake repo.
func testService(groups *fakeGroupRepo, decks *fakeDeckRepo, repo *fakeSeasonRepo, events *fakeEventLog, clock shared.Clock) *SeasonService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	admins := groupservice.NewGroupService(nil, groups, logger)
	return NewSeasonService(nil, repo, groups, decks, admins, events, clock, logger, tracer, metrics.NewUnregistered(), 0)
}
