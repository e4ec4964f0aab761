package api

import (
	"errors"
	"net/http"

	"rinklog/config"
	"rinklog/internal/auth"
	"rinklog/internal/logs"
	"rinklog/internal/middleware"
	"rinklog/internal/models"
	"rinklog/internal/rbac"
	"rinklog/internal/repo"
)

// Handler serves the roster API. All dependencies are injected; there is no
// package-level store handle.
type Handler struct {
	cfg     *config.Config
	auth    *auth.Service
	guard   *rbac.Guard
	users   *repo.UserStore
	teams   *repo.TeamStore
	invites *repo.InviteStore
	players *repo.PlayerStore
	games   *repo.GameStore
	lineups *repo.LineupStore
	stats   *repo.StatsStore
}

type Deps struct {
	Cfg     *config.Config
	Auth    *auth.Service
	Guard   *rbac.Guard
	Users   *repo.UserStore
	Teams   *repo.TeamStore
	Invites *repo.InviteStore
	Players *repo.PlayerStore
	Games   *repo.GameStore
	Lineups *repo.LineupStore
	Stats   *repo.StatsStore
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		cfg:     d.Cfg,
		auth:    d.Auth,
		guard:   d.Guard,
		users:   d.Users,
		teams:   d.Teams,
		invites: d.Invites,
		players: d.Players,
		games:   d.Games,
		lineups: d.Lineups,
		stats:   d.Stats,
	}
}

// problem maps domain errors onto RFC 7807 responses. Everything that is not
// a known domain error is a 500 with the request id for log correlation.
func (h *Handler) problem(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, rbac.ErrUnauthenticated):
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthenticated", "sign in required", nil)
	case errors.Is(err, rbac.ErrForbidden):
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "insufficient role for this team", nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		models.WriteProblem(w, http.StatusUnauthorized, "Unauthenticated", err.Error(), nil)
	case errors.Is(err, auth.ErrNotInvited):
		models.WriteProblem(w, http.StatusForbidden, "NotInvited", err.Error(), nil)
	case errors.Is(err, repo.ErrEmailTaken):
		models.WriteProblem(w, http.StatusConflict, "EmailTaken", err.Error(), nil)
	case errors.Is(err, repo.ErrInvalidToken):
		models.WriteProblem(w, http.StatusBadRequest, "InvalidToken", err.Error(), nil)
	case errors.Is(err, repo.ErrInviteUsed):
		models.WriteProblem(w, http.StatusBadRequest, "AlreadyUsed", err.Error(), nil)
	case errors.Is(err, repo.ErrInviteExpired):
		models.WriteProblem(w, http.StatusBadRequest, "Expired", err.Error(), nil)
	case errors.Is(err, repo.ErrNoEmail):
		models.WriteProblem(w, http.StatusBadRequest, "NoEmailOnAccount", err.Error(), nil)
	case errors.Is(err, repo.ErrEmailMismatch):
		models.WriteProblem(w, http.StatusForbidden, "EmailMismatch", err.Error(), nil)
	case errors.Is(err, repo.ErrPlayerInUse):
		models.WriteProblem(w, http.StatusConflict, "PlayerInUse", err.Error(), nil)
	case errors.Is(err, repo.ErrOwnerRole):
		models.WriteProblem(w, http.StatusBadRequest, "ValidationError", err.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		models.WriteProblem(w, http.StatusNotFound, "NotFound", "resource not found", nil)
	default:
		reqid := middleware.GetRequestID(r)
		logs.Logger.Errorf("api error: %v reqid=%s uri=%s", err, reqid, r.RequestURI)
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error",
			"unexpected server error (see logs by reqid)", map[string]any{"reqid": reqid})
	}
}
