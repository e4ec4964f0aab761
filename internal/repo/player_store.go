package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rinklog/internal/models"
)

type PlayerStore struct{ db *gorm.DB }

func NewPlayerStore(db *gorm.DB) *PlayerStore { return &PlayerStore{db: db} }

// List returns the team roster ordered by jersey number, then name.
func (s *PlayerStore) List(ctx context.Context, teamID string) ([]models.Player, error) {
	var out []models.Player
	err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("number ASC, name ASC").
		Find(&out).Error
	return out, err
}

type CreatePlayerInput struct {
	TeamID      string
	Name        string
	Number      *int
	ShootSide   *models.ShootSide
	ParentsName string
}

func (s *PlayerStore) Create(ctx context.Context, in CreatePlayerInput) (*models.Player, error) {
	now := time.Now().UTC()
	p := models.Player{
		ID:          uuid.NewString(),
		TeamID:      in.TeamID,
		Name:        in.Name,
		Number:      in.Number,
		ShootSide:   in.ShootSide,
		ParentsName: in.ParentsName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PlayerStore) Get(ctx context.Context, teamID, id string) (*models.Player, error) {
	var p models.Player
	err := s.db.WithContext(ctx).Where("id = ? AND team_id = ?", id, teamID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

// UpdatePlayerInput carries a partial update; nil fields stay untouched.
type UpdatePlayerInput struct {
	Name        *string
	Number      *int
	ShootSide   *models.ShootSide
	ParentsName *string
}

func (s *PlayerStore) Update(ctx context.Context, teamID, id string, in UpdatePlayerInput) (*models.Player, error) {
	p, err := s.Get(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Number != nil {
		p.Number = in.Number
	}
	if in.ShootSide != nil {
		p.ShootSide = in.ShootSide
	}
	if in.ParentsName != nil {
		p.ParentsName = *in.ParentsName
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a player unless lineup entries still reference them.
// The reference check and the delete run in one transaction so a lineup
// save cannot slip in between and orphan its entries.
func (s *PlayerStore) Delete(ctx context.Context, teamID, id string) error {
	if _, err := s.Get(ctx, teamID, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.LineupEntry{}).
			Where("player_id = ? AND team_id = ?", id, teamID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrPlayerInUse
		}
		return tx.Where("id = ? AND team_id = ?", id, teamID).
			Delete(&models.Player{}).Error
	})
}
