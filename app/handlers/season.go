package handlers

import (
	"net/http"

	seasonservice "github.com/commander-league/backend/app/modules/season/application"
)

// UpdateSeasonSettings applies an admin's partial season settings update.
func (h *Handlers) UpdateSeasonSettings(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input seasonservice.SeasonSettingsInput
	if !h.decodeBody(w, r, &input) {
		return
	}

	group, err := h.seasons.UpdateSeasonSettings(r.Context(), groupID, userID, input)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, group)
}

// ResetSeason ends the running season immediately.
func (h *Handlers) ResetSeason(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.seasons.ResetSeason(r.Context(), groupID, userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusNoContent, nil)
}

// ListSeasons returns every finished season, newest first.
func (h *Handlers) ListSeasons(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	seasons, err := h.seasons.ListSeasons(r.Context(), groupID, userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, seasons)
}

// GetLastSeasonRanking returns the frozen standings of the latest finished
// season.
func (h *Handlers) GetLastSeasonRanking(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.seasons.GetLastSeasonRanking(r.Context(), groupID, userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, snapshot)
}

// GetWinnersBanner returns the winners banner, or 204 when there is nothing
// to show.
func (h *Handlers) GetWinnersBanner(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	banner, err := h.seasons.GetWinnersBanner(r.Context(), groupID, userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if banner == nil {
		h.respond(w, http.StatusNoContent, nil)
		return
	}
	h.respond(w, http.StatusOK, banner)
}

// DismissWinnersBanner hides the banner for the calling user.
func (h *Handlers) DismissWinnersBanner(w http.ResponseWriter, r *http.Request) {
	groupID, ok := h.groupID(w, r)
	if !ok {
		return
	}
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.seasons.DismissWinnersBanner(r.Context(), groupID, userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respond(w, http.StatusNoContent, nil)
}
