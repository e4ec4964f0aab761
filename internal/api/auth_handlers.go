package api

import (
	"net/http"

	"rinklog/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Image    string `json:"image,omitempty"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

const minPasswordLen = 8

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validEmail(req.Email) {
		fieldProblem(w, "email", "valid email required")
		return
	}
	if len(req.Password) < minPasswordLen {
		fieldProblem(w, "password", "password must be at least 8 characters")
		return
	}

	u, token, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, sessionResponse{User: u, Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		fieldProblem(w, "email", "email and password required")
		return
	}

	u, token, err := h.auth.Login(r.Context(), req.Email, req.Password, req.Name, req.Image)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, sessionResponse{User: u, Token: token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, err := h.guard.Identify(r.Context())
	if err != nil {
		h.problem(w, r, err)
		return
	}
	u, err := h.users.GetByID(r.Context(), uid)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	memberships, err := h.teams.MembershipsForUser(r.Context(), uid)
	if err != nil {
		h.problem(w, r, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"user":        u,
		"memberships": memberships,
	})
}
