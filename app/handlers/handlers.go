package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	deckservice "github.com/commander-league/backend/app/modules/deck/application"
	gameservice "github.com/commander-league/backend/app/modules/game/application"
	groupservice "github.com/commander-league/backend/app/modules/group/application"
	seasonservice "github.com/commander-league/backend/app/modules/season/application"
	"github.com/commander-league/backend/app/shared"
)

// userIDHeader carries the authenticated user, set by the gateway in front of
// this service. Authentication itself is out of scope here.
const userIDHeader = "X-User-ID"

// Handlers holds the services behind the HTTP surface.
type Handlers struct {
	groups  *groupservice.GroupService
	decks   *deckservice.DeckService
	games   *gameservice.GameService
	seasons *seasonservice.SeasonService
	logger  *slog.Logger
}

// New creates the HTTP handlers.
func New(
	groups *groupservice.GroupService,
	decks *deckservice.DeckService,
	games *gameservice.GameService,
	seasons *seasonservice.SeasonService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		groups:  groups,
		decks:   decks,
		games:   games,
		seasons: seasons,
		logger:  logger,
	}
}

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

func (h *Handlers) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// untyped is a 500 with a generic body; the details stay in the log.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *shared.ValidationError
		conflict   *shared.ConflictError
		notFound   *shared.NotFoundError
		permission *shared.PermissionError
	)
	switch {
	case errors.As(err, &validation):
		h.respond(w, http.StatusBadRequest, errorBody{Error: validation.Error()})
	case errors.As(err, &conflict):
		h.respond(w, http.StatusConflict, errorBody{Error: conflict.Error()})
	case errors.As(err, &notFound):
		h.respond(w, http.StatusNotFound, errorBody{Error: notFound.Error()})
	case errors.As(err, &permission):
		h.respond(w, http.StatusForbidden, errorBody{Error: permission.Error()})
	default:
		h.logger.ErrorContext(r.Context(), "Request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		h.respond(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func (h *Handlers) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		h.respond(w, http.StatusUnauthorized, errorBody{Error: "missing " + userIDHeader + " header"})
		return "", false
	}
	return userID, true
}

func (h *Handlers) groupID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "groupID"), 10, 64)
	if err != nil {
		h.respond(w, http.StatusBadRequest, errorBody{Error: "invalid group id"})
		return 0, false
	}
	return id, true
}

func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		h.respond(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}
