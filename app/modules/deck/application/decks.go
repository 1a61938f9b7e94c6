package deckservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// CreateDeck registers a new deck for the calling member.
func (s *DeckService) CreateDeck(ctx context.Context, groupID int64, userID string, input CreateDeckInput) (*deckdb.Deck, error) {
	ctx, span := s.tracer.Start(ctx, "deck.CreateDeck")
	defer span.End()

	if _, err := s.groups.GetMembership(ctx, s.db, groupID, userID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, shared.NewValidationError("deck name must not be empty")
	}
	if !validColors(input.Colors) {
		return nil, shared.NewValidationError("invalid color identity %q", input.Colors)
	}

	taken, err := s.repo.NameTaken(ctx, s.db, groupID, name, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateDeck: %w", err)
	}
	if taken {
		return nil, shared.NewConflictError("a deck named %q already exists in this group", name)
	}

	deck := &deckdb.Deck{
		GroupID:   groupID,
		OwnerID:   userID,
		Name:      name,
		Colors:    input.Colors,
		Archetype: input.Archetype,
		Active:    true,
	}
	if err := s.repo.InsertDeck(ctx, s.db, deck); err != nil {
		return nil, fmt.Errorf("CreateDeck: %w", err)
	}

	s.eventLog.Log(ctx, groupID, shared.EventDeckCreated, fmt.Sprintf("Deck %q was created", deck.Name))
	s.logger.InfoContext(ctx, "Deck created",
		slog.Int64("group_id", groupID),
		slog.Int64("deck_id", deck.ID),
	)
	return deck, nil
}

// UpdateDeck applies a partial update to a deck. Only the owner or a group
// admin may edit a deck.
func (s *DeckService) UpdateDeck(ctx context.Context, groupID int64, userID string, deckID int64, input UpdateDeckInput) (*deckdb.Deck, error) {
	ctx, span := s.tracer.Start(ctx, "deck.UpdateDeck")
	defer span.End()

	membership, err := s.groups.GetMembership(ctx, s.db, groupID, userID)
	if err != nil {
		return nil, err
	}

	deck, err := s.repo.GetDeck(ctx, s.db, deckID)
	if err != nil {
		return nil, err
	}
	if deck.GroupID != groupID {
		return nil, shared.NewNotFoundError("deck %d not found", deckID)
	}
	if deck.OwnerID != userID && !membership.IsAdmin() {
		return nil, shared.NewPermissionError("only the owner or an admin may edit this deck")
	}

	if name, ok := input.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, shared.NewValidationError("deck name must not be empty")
		}
		if !strings.EqualFold(name, deck.Name) {
			taken, err := s.repo.NameTaken(ctx, s.db, groupID, name, deckID)
			if err != nil {
				return nil, fmt.Errorf("UpdateDeck: %w", err)
			}
			if taken {
				return nil, shared.NewConflictError("a deck named %q already exists in this group", name)
			}
		}
		deck.Name = name
	} else if input.Name.IsNull() {
		return nil, shared.NewValidationError("deck name cannot be cleared")
	}

	if colors, ok := input.Colors.Get(); ok {
		if !validColors(colors) {
			return nil, shared.NewValidationError("invalid color identity %q", colors)
		}
		deck.Colors = colors
	}

	if input.Archetype.IsNull() {
		deck.Archetype = nil
	} else if archetype, ok := input.Archetype.Get(); ok {
		deck.Archetype = &archetype
	}

	if active, ok := input.Active.Get(); ok {
		deck.Active = active
	}

	if err := s.repo.UpdateDeck(ctx, s.db, deck); err != nil {
		return nil, fmt.Errorf("UpdateDeck: %w", err)
	}
	return deck, nil
}

// DeleteDeck removes a deck. Decks with recorded games are soft-deleted so
// historical placements keep their frozen names; decks without history are
// removed outright.
func (s *DeckService) DeleteDeck(ctx context.Context, groupID int64, userID string, deckID int64) error {
	ctx, span := s.tracer.Start(ctx, "deck.DeleteDeck")
	defer span.End()

	membership, err := s.groups.GetMembership(ctx, s.db, groupID, userID)
	if err != nil {
		return err
	}

	deck, err := s.repo.GetDeck(ctx, s.db, deckID)
	if err != nil {
		return err
	}
	if deck.GroupID != groupID {
		return shared.NewNotFoundError("deck %d not found", deckID)
	}
	if deck.OwnerID != userID && !membership.IsAdmin() {
		return shared.NewPermissionError("only the owner or an admin may delete this deck")
	}

	hasHistory, err := s.repo.HasGameHistory(ctx, s.db, deckID)
	if err != nil {
		return fmt.Errorf("DeleteDeck: %w", err)
	}

	if hasHistory {
		err = s.repo.SoftDeleteDeck(ctx, s.db, deckID)
	} else {
		err = s.repo.HardDeleteDeck(ctx, s.db, deckID)
	}
	if err != nil {
		return fmt.Errorf("DeleteDeck: %w", err)
	}

	s.eventLog.Log(ctx, groupID, shared.EventDeckDeleted, fmt.Sprintf("Deck %q was deleted", deck.Name))
	return nil
}

// ListDecks returns all live decks in the group.
func (s *DeckService) ListDecks(ctx context.Context, groupID int64, userID string) ([]deckdb.Deck, error) {
	ctx, span := s.tracer.Start(ctx, "deck.ListDecks")
	defer span.End()

	if _, err := s.groups.GetMembership(ctx, s.db, groupID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListDecks(ctx, s.db, groupID)
}
