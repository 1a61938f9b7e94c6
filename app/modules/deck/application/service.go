package deckservice

import (
	"log/slog"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	deckdb "github.com/commander-league/backend/app/modules/deck/infrastructure/repositories"
	groupservice "github.com/commander-league/backend/app/modules/group/application"
	groupdb "github.com/commander-league/backend/app/modules/group/infrastructure/repositories"
	"github.com/commander-league/backend/app/shared"
)

// DeckService handles deck management.
type DeckService struct {
	db       *bun.DB
	repo     deckdb.Repository
	groups   groupdb.Repository
	eventLog groupservice.EventLogger
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewDeckService creates a new DeckService.
func NewDeckService(
	db *bun.DB,
	repo deckdb.Repository,
	groups groupdb.Repository,
	eventLog groupservice.EventLogger,
	logger *slog.Logger,
	tracer trace.Tracer,
) *DeckService {
	return &DeckService{
		db:       db,
		repo:     repo,
		groups:   groups,
		eventLog: eventLog,
		logger:   logger,
		tracer:   tracer,
	}
}

// CreateDeckInput carries the attributes of a new deck.
type CreateDeckInput struct {
	Name      string  `json:"name"`
	Colors    string  `json:"colors"`
	Archetype *string `json:"archetype,omitempty"`
}

// UpdateDeckInput is a partial update; omitted fields stay untouched and
// explicit nulls clear optional attributes.
type UpdateDeckInput struct {
	Name      shared.Patch[string] `json:"name"`
	Colors    shared.Patch[string] `json:"colors"`
	Archetype shared.Patch[string] `json:"archetype"`
	Active    shared.Patch[bool]   `json:"active"`
}

const colorSymbols = "WUBRG"

// validColors accepts any combination of the five color symbols, or the
// empty string for colorless.
func validColors(colors string) bool {
	if len(colors) > 5 {
		return false
	}
	seen := map[rune]bool{}
	for _, c := range colors {
		found := false
		for _, s := range colorSymbols {
			if c == s {
				found = true
				break
			}
		}
		if !found || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
