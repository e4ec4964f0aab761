package repo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rinklog/internal/models"
)

// inviteTokenBytes of entropy per token; guessing resistance rests on this,
// not on rate limiting.
const inviteTokenBytes = 24

type InviteStore struct{ db *gorm.DB }

func NewInviteStore(db *gorm.DB) *InviteStore { return &InviteStore{db: db} }

func newInviteToken() string {
	raw := make([]byte, inviteTokenBytes)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}

type CreateInviteInput struct {
	TeamID string
	Email  string
	Role   models.TeamRole
	TTL    time.Duration
}

// Create issues a fresh single-use invite. Re-inviting the same email is
// allowed and produces an independent token.
func (s *InviteStore) Create(ctx context.Context, in CreateInviteInput) (*models.TeamInvite, error) {
	now := time.Now().UTC()
	inv := models.TeamInvite{
		ID:        uuid.NewString(),
		Token:     newInviteToken(),
		TeamID:    in.TeamID,
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Role:      in.Role,
		ExpiresAt: now.Add(in.TTL),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

type AcceptResult struct {
	TeamID string          `json:"team_id"`
	Role   models.TeamRole `json:"role"`
}

// Accept redeems a token for the calling user. On success the membership
// upsert and the accepted_at mark commit in one transaction; the accepted_at
// write is a compare-and-swap on "still null", so of two concurrent accepts
// of the same token at most one succeeds and the other sees ErrInviteUsed.
func (s *InviteStore) Accept(ctx context.Context, userID, userEmail, token string) (*AcceptResult, error) {
	var inv models.TeamInvite
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if inv.AcceptedAt != nil {
		return nil, ErrInviteUsed
	}
	if !now.Before(inv.ExpiresAt) {
		return nil, ErrInviteExpired
	}
	if strings.TrimSpace(userEmail) == "" {
		return nil, ErrNoEmail
	}
	if !strings.EqualFold(strings.TrimSpace(userEmail), inv.Email) {
		return nil, ErrEmailMismatch
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TeamInvite{}).
			Where("id = ? AND accepted_at IS NULL", inv.ID).
			Update("accepted_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInviteUsed
		}

		// Existing member: role is overwritten to the invite's role.
		member := models.TeamMember{
			ID:        uuid.NewString(),
			TeamID:    inv.TeamID,
			UserID:    userID,
			Role:      inv.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{"role": inv.Role, "updated_at": now}),
		}).Create(&member).Error
	})
	if err != nil {
		return nil, err
	}
	return &AcceptResult{TeamID: inv.TeamID, Role: inv.Role}, nil
}

// HasPending reports whether a live (unaccepted, unexpired) invite exists
// for the given email. Backs the invite-only registration gate.
func (s *InviteStore) HasPending(ctx context.Context, email string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.TeamInvite{}).
		Where("email = ? AND accepted_at IS NULL AND expires_at > ?",
			strings.ToLower(strings.TrimSpace(email)), time.Now().UTC()).
		Count(&n).Error
	return n > 0, err
}
