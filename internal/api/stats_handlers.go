package api

import (
	"net/http"

	"rinklog/internal/models"
)

// All stats endpoints are read-only and require VIEWER.

func (h *Handler) TeamStats(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	stats, err := h.stats.TeamStats(r.Context(), teamID)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	rows, err := h.stats.PlayerRows(r.Context(), teamID)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"team_id": teamID, "players": rows})
}

func (h *Handler) PlayerCard(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	playerID, ok := requireQuery(w, r, "playerId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	card, err := h.stats.PlayerCard(r.Context(), teamID, playerID)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, card)
}

func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	points, err := h.stats.Trends(r.Context(), teamID)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"team_id": teamID, "games": points})
}
