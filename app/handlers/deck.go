package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	deckservice "github.com/commander-league/backend/app/modules/deck/application"
)

func (h *Handlers) deckID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "deckID"), 10, 64)
	if err != nil {
		h.respond(w, http.StatusBadRequest, errorBody{Error: "invalid deck id"})
		return 0, false
	}
	return id, true
}

// ListDecks returns all live decks of the group.
func (h *Handlers) ListDecks(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	decks, err := h.decks.ListDecks(r.Context(), groupID, userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, decks)
}

// CreateDeck registers a new deck for the caller.
func (h *Handlers) CreateDeck(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input deckservice.CreateDeckInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	deck, err := h.decks.CreateDeck(r.Context(), groupID, userID, input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, deck)
}

// UpdateDeck applies a partial update to a deck.
func (h *Handlers) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	deckID, ok := h.deckID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input deckservice.UpdateDeckInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	deck, err := h.decks.UpdateDeck(r.Context(), groupID, userID, deckID, input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, deck)
}

// DeleteDeck removes a deck, soft-deleting when game history references it.
func (h *Handlers) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	deckID, ok := h.deckID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.decks.DeleteDeck(r.Context(), groupID, userID, deckID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusNoContent, nil)
}
