package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"rinklog/internal/auth"
)

// Register mounts the roster API under /api/v1. Auth endpoints are public;
// everything else sits behind the session middleware.
func Register(r *mux.Router, h *Handler, tokens *auth.TokenIssuer) {
	pub := r.PathPrefix("/api/v1").Subrouter()
	pub.HandleFunc("/auth/register", h.RegisterUser).Methods(http.MethodPost)
	pub.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)

	priv := r.PathPrefix("/api/v1").Subrouter()
	priv.Use(auth.RequireSession(tokens))

	priv.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	priv.HandleFunc("/bootstrap", h.Bootstrap).Methods(http.MethodPost)
	priv.HandleFunc("/active-team", h.GetActiveTeam).Methods(http.MethodGet)
	priv.HandleFunc("/active-team", h.SetActiveTeam).Methods(http.MethodPost)

	priv.HandleFunc("/teams/{id}/members", h.ListMembers).Methods(http.MethodGet)
	priv.HandleFunc("/teams/{id}/members/{userId}", h.UpdateMemberRole).Methods(http.MethodPatch)

	priv.HandleFunc("/invites", h.CreateInvite).Methods(http.MethodPost)
	priv.HandleFunc("/invites/accept", h.AcceptInvite).Methods(http.MethodPost)

	priv.HandleFunc("/players", h.ListPlayers).Methods(http.MethodGet)
	priv.HandleFunc("/players", h.CreatePlayer).Methods(http.MethodPost)
	priv.HandleFunc("/players/{id}", h.GetPlayer).Methods(http.MethodGet)
	priv.HandleFunc("/players/{id}", h.UpdatePlayer).Methods(http.MethodPatch)
	priv.HandleFunc("/players/{id}", h.DeletePlayer).Methods(http.MethodDelete)

	priv.HandleFunc("/games", h.ListGames).Methods(http.MethodGet)
	priv.HandleFunc("/games", h.CreateGame).Methods(http.MethodPost)
	priv.HandleFunc("/games/{id}", h.GetGame).Methods(http.MethodGet)
	priv.HandleFunc("/games/{id}", h.UpdateGame).Methods(http.MethodPatch)
	priv.HandleFunc("/games/{id}", h.DeleteGame).Methods(http.MethodDelete)

	priv.HandleFunc("/lineups", h.GetLineup).Methods(http.MethodGet)
	priv.HandleFunc("/lineups", h.SaveLineup).Methods(http.MethodPut)

	priv.HandleFunc("/stats/team", h.TeamStats).Methods(http.MethodGet)
	priv.HandleFunc("/stats/players", h.PlayerStats).Methods(http.MethodGet)
	priv.HandleFunc("/stats/player", h.PlayerCard).Methods(http.MethodGet)
	priv.HandleFunc("/stats/trends", h.Trends).Methods(http.MethodGet)
}
