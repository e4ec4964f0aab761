package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"rinklog/internal/models"
)

// activeTeamCookie is a client convenience hint only; authorization never
// consults it — every handler re-verifies membership server-side.
const activeTeamCookie = "active_team"

func (h *Handler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	uid, err := h.guard.Identify(r.Context())
	if err != nil {
		h.problem(w, r, err)
		return
	}
	res, err := h.teams.Bootstrap(r.Context(), uid)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) GetActiveTeam(w http.ResponseWriter, r *http.Request) {
	var teamID *string
	if c, err := r.Cookie(activeTeamCookie); err == nil && c.Value != "" {
		teamID = &c.Value
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"team_id": teamID})
}

type setActiveTeamRequest struct {
	TeamID string `json:"team_id"`
}

func (h *Handler) SetActiveTeam(w http.ResponseWriter, r *http.Request) {
	var req setActiveTeamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == "" {
		fieldProblem(w, "team_id", "team_id required")
		return
	}
	// Membership check keeps the hint honest, nothing more.
	if _, err := h.guard.Authorize(r.Context(), req.TeamID, models.RoleViewer); err != nil {
		h.problem(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     activeTeamCookie,
		Value:    req.TeamID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	models.WriteJSON(w, http.StatusOK, map[string]any{"team_id": req.TeamID})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["id"]
	if _, err := h.guard.Authorize(r.Context(), teamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}
	members, err := h.teams.Members(r.Context(), teamID)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"team_id": teamID, "members": members})
}

type updateMemberRequest struct {
	Role models.TeamRole `json:"role"`
}

func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	teamID, userID := vars["id"], vars["userId"]

	actor, err := h.guard.Authorize(r.Context(), teamID, models.RoleAdmin)
	if err != nil {
		h.problem(w, r, err)
		return
	}

	var req updateMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Role != models.RoleViewer && req.Role != models.RoleAdmin {
		fieldProblem(w, "role", "role must be VIEWER or ADMIN")
		return
	}
	if userID == actor.UserID {
		fieldProblem(w, "userId", "cannot change own role")
		return
	}

	m, err := h.teams.UpdateMemberRole(r.Context(), teamID, userID, req.Role)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, m)
}
