package api

import (
	"net/http"
	"time"

	"rinklog/internal/models"
	"rinklog/internal/repo"
)

type createInviteRequest struct {
	TeamID string          `json:"team_id"`
	Email  string          `json:"email"`
	Role   models.TeamRole `json:"role"`
}

type createInviteResponse struct {
	InviteID   string    `json:"invite_id"`
	InviteLink string    `json:"invite_link"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// CreateInvite issues a single-use invite. The returned link carries only
// the token, never the team id or role.
func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.TeamID == "" {
		fieldProblem(w, "team_id", "team_id required")
		return
	}
	if !validEmail(req.Email) {
		fieldProblem(w, "email", "valid email required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleViewer
	}
	if req.Role != models.RoleViewer && req.Role != models.RoleAdmin {
		fieldProblem(w, "role", "role must be VIEWER or ADMIN")
		return
	}

	if _, err := h.guard.Authorize(r.Context(), req.TeamID, models.RoleAdmin); err != nil {
		h.problem(w, r, err)
		return
	}

	inv, err := h.invites.Create(r.Context(), repo.CreateInviteInput{
		TeamID: req.TeamID,
		Email:  req.Email,
		Role:   req.Role,
		TTL:    time.Duration(h.cfg.Invites.TTLDays) * 24 * time.Hour,
	})
	if err != nil {
		h.problem(w, r, err)
		return
	}

	models.WriteJSON(w, http.StatusCreated, createInviteResponse{
		InviteID:   inv.ID,
		InviteLink: h.cfg.Invites.BaseURL + "/accept-invite?token=" + inv.Token,
		ExpiresAt:  inv.ExpiresAt,
	})
}

type acceptInviteRequest struct {
	Token string `json:"token"`
}

func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	uid, err := h.guard.Identify(r.Context())
	if err != nil {
		h.problem(w, r, err)
		return
	}

	var req acceptInviteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Token) < 10 {
		fieldProblem(w, "token", "token required")
		return
	}

	u, err := h.users.GetByID(r.Context(), uid)
	if err != nil {
		h.problem(w, r, err)
		return
	}

	res, err := h.invites.Accept(r.Context(), uid, u.Email, req.Token)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, res)
}
