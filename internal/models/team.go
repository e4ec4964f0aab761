package models

import (
	"time"

	"gorm.io/datatypes"
)

// TeamRole governs what a member may do within a team.
type TeamRole string

const (
	RoleViewer TeamRole = "VIEWER"
	RoleAdmin  TeamRole = "ADMIN"
	RoleOwner  TeamRole = "OWNER"
)

// Rank gives the total order VIEWER < ADMIN < OWNER. Unknown roles rank 0.
func (r TeamRole) Rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleAdmin:
		return 2
	case RoleOwner:
		return 3
	default:
		return 0
	}
}

func (r TeamRole) Valid() bool { return r.Rank() > 0 }

// AtLeast reports whether r is at least as privileged as min.
func (r TeamRole) AtLeast(min TeamRole) bool { return r.Rank() >= min.Rank() }

// Team is a tenant. The unique index on OwnerID backs the bootstrap
// guarantee: at most one self-created first team per user.
type Team struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	OwnerID   string         `gorm:"uniqueIndex;size:36;not null" json:"owner_id"`
	Settings  datatypes.JSON `json:"settings,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TeamMember binds a user to a team with a role.
// At most one row per (team, user).
type TeamMember struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TeamID    string    `gorm:"size:36;not null;uniqueIndex:uniq_team_user,priority:1" json:"team_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:uniq_team_user,priority:2;index" json:"user_id"`
	Role      TeamRole  `gorm:"size:16;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamInvite is a single-use credential binding a team, a role and an email.
// PENDING (accepted_at null, now < expires_at) → ACCEPTED or implicitly EXPIRED.
type TeamInvite struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Token      string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	TeamID     string     `gorm:"size:36;not null;index" json:"team_id"`
	Email      string     `gorm:"size:255;not null;index" json:"email"` // stored lower-cased
	Role       TeamRole   `gorm:"size:16;not null" json:"role"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
