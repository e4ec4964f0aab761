package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rinklog/internal/models"
)

// DefaultTeamName is given to a team created through bootstrap.
const DefaultTeamName = "My Hockey Team"

type TeamStore struct{ db *gorm.DB }

func NewTeamStore(db *gorm.DB) *TeamStore { return &TeamStore{db: db} }

type BootstrapResult struct {
	TeamID   string          `json:"team_id"`
	TeamName string          `json:"team_name"`
	Role     models.TeamRole `json:"role"`
	Created  bool            `json:"created"`
}

// Bootstrap returns the user's first membership, creating a fresh team with
// an OWNER membership when none exists. The unique index on teams.owner_id
// turns a concurrent duplicate create into a constraint conflict, and the
// loser falls back to the read path, so a user starting with zero memberships
// ends up with exactly one first team.
func (s *TeamStore) Bootstrap(ctx context.Context, userID string) (*BootstrapResult, error) {
	if r, err := s.firstMembership(ctx, userID); err == nil {
		return r, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	team := models.Team{
		ID:      uuid.NewString(),
		Name:    DefaultTeamName,
		OwnerID: userID,
	}
	team.CreatedAt = now
	team.UpdatedAt = now
	member := models.TeamMember{
		ID:     uuid.NewString(),
		TeamID: team.ID,
		UserID: userID,
		Role:   models.RoleOwner,
	}
	member.CreatedAt = now
	member.UpdatedAt = now

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the bootstrap race; the winner's membership is ours too.
			return s.firstMembership(ctx, userID)
		}
		return nil, err
	}

	return &BootstrapResult{TeamID: team.ID, TeamName: team.Name, Role: models.RoleOwner, Created: true}, nil
}

func (s *TeamStore) firstMembership(ctx context.Context, userID string) (*BootstrapResult, error) {
	var m models.TeamMember
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var t models.Team
	if err := s.db.WithContext(ctx).Where("id = ?", m.TeamID).First(&t).Error; err != nil {
		return nil, err
	}
	return &BootstrapResult{TeamID: m.TeamID, TeamName: t.Name, Role: m.Role, Created: false}, nil
}

// Membership looks up the unique (team, user) row.
func (s *TeamStore) Membership(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
	var m models.TeamMember
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &m, err
}

type MembershipInfo struct {
	TeamID   string          `json:"team_id"`
	TeamName string          `json:"team_name"`
	Role     models.TeamRole `json:"role"`
}

// MembershipsForUser lists all teams the user belongs to, oldest first.
func (s *TeamStore) MembershipsForUser(ctx context.Context, userID string) ([]MembershipInfo, error) {
	var out []MembershipInfo
	err := s.db.WithContext(ctx).
		Table("team_members").
		Select("team_members.team_id, teams.name AS team_name, team_members.role").
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ?", userID).
		Order("team_members.created_at ASC, team_members.id ASC").
		Scan(&out).Error
	return out, err
}

type MemberInfo struct {
	UserID string          `json:"user_id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   models.TeamRole `json:"role"`
}

// Members lists a team's roster of accounts with their roles.
func (s *TeamStore) Members(ctx context.Context, teamID string) ([]MemberInfo, error) {
	var out []MemberInfo
	err := s.db.WithContext(ctx).
		Table("team_members").
		Select("team_members.user_id, users.name, users.email, team_members.role").
		Joins("JOIN users ON users.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order("team_members.created_at ASC").
		Scan(&out).Error
	return out, err
}

// UpdateMemberRole changes a member's role. The OWNER row is immutable
// and OWNER cannot be granted this way.
func (s *TeamStore) UpdateMemberRole(ctx context.Context, teamID, userID string, role models.TeamRole) (*models.TeamMember, error) {
	if role == models.RoleOwner {
		return nil, ErrOwnerRole
	}
	m, err := s.Membership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role == models.RoleOwner {
		return nil, ErrOwnerRole
	}
	m.Role = role
	m.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TeamStore) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	var t models.Team
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &t, err
}
