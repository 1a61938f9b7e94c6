package handlers

import (
	"net/http"
	"strconv"

	gameservice "github.com/commander-league/backend/app/modules/game/application"
)

// RecordGame validates, scores and stores a game.
func (h *Handlers) RecordGame(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input gameservice.RecordGameInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	game, err := h.games.RecordGame(r.Context(), groupID, userID, input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, game)
}

// UndoLastGame deletes the most recent game and reverts its effects.
func (h *Handlers) UndoLastGame(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.games.UndoLastGame(r.Context(), groupID, userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusNoContent, nil)
}

// ListGames returns the group's game history, newest first.
func (h *Handlers) ListGames(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	games, err := h.games.ListGames(r.Context(), groupID, userID, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, games)
}

// GetRanking returns the current season's live standings.
func (h *Handlers) GetRanking(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	ranking, err := h.games.GetRanking(r.Context(), groupID, userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, ranking)
}
