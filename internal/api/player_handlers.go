package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"rinklog/internal/models"
	"rinklog/internal/repo"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	players, err := h.players.List(r.Context(), teamID)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, players)
}

type createPlayerRequest struct {
	TeamID      string            `json:"team_id"`
	Name        string            `json:"name"`
	Number      *int              `json:"number,omitempty"`
	ShootSide   *models.ShootSide `json:"shoot_side,omitempty"`
	ParentsName string            `json:"parents_name,omitempty"`
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == "" {
		fieldProblem(w, "team_id", "team_id required")
		return
	}
	if req.Name == "" {
		fieldProblem(w, "name", "name required")
		return
	}
	if req.ShootSide != nil && !req.ShootSide.Valid() {
		fieldProblem(w, "shoot_side", "shoot_side must be LEFT or RIGHT")
		return
	}

	if _, err := h.guard.Authorize(r.Context(), req.TeamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}

	p, err := h.players.Create(r.Context(), repo.CreatePlayerInput{
		TeamID:      req.TeamID,
		Name:        req.Name,
		Number:      req.Number,
		ShootSide:   req.ShootSide,
		ParentsName: req.ParentsName,
	})
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	p, err := h.players.Get(r.Context(), teamID, mux.Vars(r)["id"])
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, p)
}

// Partial update: present fields are applied, absent fields stay untouched.
type updatePlayerRequest struct {
	TeamID      string            `json:"team_id"`
	Name        *string           `json:"name,omitempty"`
	Number      *int              `json:"number,omitempty"`
	ShootSide   *models.ShootSide `json:"shoot_side,omitempty"`
	ParentsName *string           `json:"parents_name,omitempty"`
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req updatePlayerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == "" {
		fieldProblem(w, "team_id", "team_id required")
		return
	}
	if req.Name != nil && *req.Name == "" {
		fieldProblem(w, "name", "name must not be empty")
		return
	}
	if req.ShootSide != nil && !req.ShootSide.Valid() {
		fieldProblem(w, "shoot_side", "shoot_side must be LEFT or RIGHT")
		return
	}

	if _, err := h.guard.Authorize(r.Context(), req.TeamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}

	p, err := h.players.Update(r.Context(), req.TeamID, mux.Vars(r)["id"], repo.UpdatePlayerInput{
		Name:        req.Name,
		Number:      req.Number,
		ShootSide:   req.ShootSide,
		ParentsName: req.ParentsName,
	})
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	teamID, ok := requireQuery(w, r, "teamId")
	if !ok {
		return
	}
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}
	if err := h.players.Delete(r.Context(), teamID, mux.Vars(r)["id"]); err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
