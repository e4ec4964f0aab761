package rbac

import (
	"context"
	"errors"

	"rinklog/internal/auth"
	"rinklog/internal/models"
	"rinklog/internal/repo"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Actor is a resolved caller with their recorded role on a team.
type Actor struct {
	UserID string
	Role   models.TeamRole
}

// Guard answers authorization questions. It never lets a caller act with
// privilege above their recorded role, and it never trusts client-supplied
// team context: every call re-reads the membership row.
type Guard struct{ teams *repo.TeamStore }

func NewGuard(teams *repo.TeamStore) *Guard { return &Guard{teams: teams} }

// Identify resolves the caller's user id from the authenticated session.
func (g *Guard) Identify(ctx context.Context) (string, error) {
	uid, ok := auth.UserID(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return uid, nil
}

// Authorize checks that the caller holds at least minRole on the team.
// Role ranks are totally ordered: VIEWER < ADMIN < OWNER.
func (g *Guard) Authorize(ctx context.Context, teamID string, minRole models.TeamRole) (*Actor, error) {
	uid, err := g.Identify(ctx)
	if err != nil {
		return nil, err
	}
	m, err := g.teams.Membership(ctx, teamID, uid)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !m.Role.AtLeast(minRole) {
		return nil, ErrForbidden
	}
	return &Actor{UserID: uid, Role: m.Role}, nil
}
