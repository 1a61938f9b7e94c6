package handlers

import (
	"net/http"
	"strconv"
)

// GetGroup returns the group with its season configuration.
func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if _, err := h.groups.RequireMember(r.Context(), groupID, userID); err != nil {
		h.respondError(w, r, err)
		return
	}

	group, err := h.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, group)
}

// ListGroupMembers returns the group's roster.
func (h *Handlers) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	members, err := h.groups.ListMembers(r.Context(), groupID, userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, members)
}

// ListGroupEvents returns the group's audit history, newest first.
func (h *Handlers) ListGroupEvents(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.groups.ListEvents(r.Context(), groupID, userID, limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, events)
}
