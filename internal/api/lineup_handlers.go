package api

import (
	"net/http"

	"rinklog/internal/models"
	"rinklog/internal/repo"
)

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	gameID, ok := requireQuery(w, r, "gameId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	sheet, err := h.lineups.ForGame(r.Context(), teamID, gameID)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, sheet)
}

type lineupEntryRequest struct {
	PlayerID  string          `json:"player_id"`
	Position  models.Position `json:"position"`
	Line      *int            `json:"line,omitempty"`
	Goals     int             `json:"goals"`
	Assists   int             `json:"assists"`
	Penalties int             `json:"penalties"`
	Shutout   bool            `json:"shutout"`
}

type saveLineupRequest struct {
	TeamID  string               `json:"team_id"`
	GameID  string               `json:"game_id"`
	Entries []lineupEntryRequest `json:"entries"`
}

// SaveLineup replaces a game's whole lineup sheet atomically.
func (h *Handler) SaveLineup(w http.ResponseWriter, r *http.Request) {
	var req saveLineupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == "" {
		fieldProblem(w, "team_id", "team_id required")
		return
	}
	if req.GameID == "" {
		fieldProblem(w, "game_id", "game_id required")
		return
	}
	entries := make([]repo.LineupEntryInput, 0, len(req.Entries))
	seen := map[string]bool{}
	for _, e := range req.Entries {
		if e.PlayerID == "" {
			fieldProblem(w, "entries", "every entry needs a player_id")
			return
		}
		if seen[e.PlayerID] {
			fieldProblem(w, "entries", "duplicate player in lineup: "+e.PlayerID)
			return
		}
		seen[e.PlayerID] = true
		if !e.Position.Valid() {
			fieldProblem(w, "entries", "invalid position for player "+e.PlayerID)
			return
		}
		if e.Goals < 0 || e.Assists < 0 || e.Penalties < 0 {
			fieldProblem(w, "entries", "stat counts must not be negative")
			return
		}
		entries = append(entries, repo.LineupEntryInput{
			PlayerID:  e.PlayerID,
			Position:  e.Position,
			Line:      e.Line,
			Goals:     e.Goals,
			Assists:   e.Assists,
			Penalties: e.Penalties,
			Shutout:   e.Shutout,
		})
	}

	if _, err := h.guard.Authorize(r.Context(), req.TeamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}

	saved, err := h.lineups.Replace(r.Context(), req.TeamID, req.GameID, entries)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "entries": saved})
}
