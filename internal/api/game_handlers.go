package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rinklog/internal/models"
	"rinklog/internal/repo"
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	games, err := h.games.List(r.Context(), teamID)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, games)
}

type createGameRequest struct {
	TeamID         string            `json:"team_id"`
	Date           string            `json:"date"` // RFC 3339
	Opponent       string            `json:"opponent"`
	Location       string            `json:"location,omitempty"`
	League         string            `json:"league,omitempty"`
	Result         models.GameResult `json:"result"`
	GoalsFor       int               `json:"goals_for"`
	GoalsAgainst   int               `json:"goals_against"`
	PlayerOfGameID *string           `json:"player_of_game_id,omitempty"`
	JerseyColor    string            `json:"jersey_color,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == "" {
		fieldProblem(w, "team_id", "team_id required")
		return
	}
	if req.Opponent == "" {
		fieldProblem(w, "opponent", "opponent required")
		return
	}
	if !req.Result.Valid() {
		fieldProblem(w, "result", "result must be WIN, LOSS or TIE")
		return
	}
	if req.GoalsFor < 0 || req.GoalsAgainst < 0 {
		fieldProblem(w, "goals_for", "goal counts must not be negative")
		return
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		fieldProblem(w, "date", "date must be RFC 3339")
		return
	}

	if _, err := h.guard.Authorize(r.Context(), req.TeamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}

	g, err := h.games.Create(r.Context(), repo.CreateGameInput{
		TeamID:         req.TeamID,
		Date:           date,
		Opponent:       req.Opponent,
		Location:       req.Location,
		League:         req.League,
		Result:         req.Result,
		GoalsFor:       req.GoalsFor,
		GoalsAgainst:   req.GoalsAgainst,
		PlayerOfGameID: req.PlayerOfGameID,
		JerseyColor:    req.JerseyColor,
		Notes:          req.Notes,
	})
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, g)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	g, err := h.games.Get(r.Context(), teamID, mux.Vars(r)["id"])
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, g)
}

// Partial update: present fields are applied, absent fields stay untouched.
type updateGameRequest struct {
	TeamID         string             `json:"team_id"`
	Date           *string            `json:"date,omitempty"`
	Opponent       *string            `json:"opponent,omitempty"`
	Location       *string            `json:"location,omitempty"`
	League         *string            `json:"league,omitempty"`
	Result         *models.GameResult `json:"result,omitempty"`
	GoalsFor       *int               `json:"goals_for,omitempty"`
	GoalsAgainst   *int               `json:"goals_against,omitempty"`
	PlayerOfGameID *string            `json:"player_of_game_id,omitempty"`
	JerseyColor    *string            `json:"jersey_color,omitempty"`
	Notes          *string            `json:"notes,omitempty"`
}

func (h *Handler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	var req updateGameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == "" {
		fieldProblem(w, "team_id", "team_id required")
		return
	}
	if req.Opponent != nil && *req.Opponent == "" {
		fieldProblem(w, "opponent", "opponent must not be empty")
		return
	}
	if req.Result != nil && !req.Result.Valid() {
		fieldProblem(w, "result", "result must be WIN, LOSS or TIE")
		return
	}
	var date *time.Time
	if req.Date != nil {
		d, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			fieldProblem(w, "date", "date must be RFC 3339")
			return
		}
		date = &d
	}

	if _, err := h.guard.Authorize(r.Context(), req.TeamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}

	g, err := h.games.Update(r.Context(), req.TeamID, mux.Vars(r)["id"], repo.UpdateGameInput{
		Date:           date,
		Opponent:       req.Opponent,
		Location:       req.Location,
		League:         req.League,
		Result:         req.Result,
		GoalsFor:       req.GoalsFor,
		GoalsAgainst:   req.GoalsAgainst,
		PlayerOfGameID: req.PlayerOfGameID,
		JerseyColor:    req.JerseyColor,
		Notes:          req.Notes,
	})
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}
	if err := h.games.Delete(r.Context(), teamID, mux.Vars(r)["id"]); err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
