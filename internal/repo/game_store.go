package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rinklog/internal/models"
)

type GameStore struct{ db *gorm.DB }

func NewGameStore(db *gorm.DB) *GameStore { return &GameStore{db: db} }

// List returns the team's games, most recent first.
func (s *GameStore) List(ctx context.Context, teamID string) ([]models.Game, error) {
	var out []models.Game
	err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

type CreateGameInput struct {
	TeamID         string
	Date           time.Time
	Opponent       string
	Location       string
	League         string
	Result         models.GameResult
	GoalsFor       int
	GoalsAgainst   int
	PlayerOfGameID *string
	JerseyColor    string
	Notes          string
}

func (s *GameStore) Create(ctx context.Context, in CreateGameInput) (*models.Game, error) {
	now := time.Now().UTC()
	g := models.Game{
		ID:             uuid.NewString(),
		TeamID:         in.TeamID,
		Date:           in.Date,
		Opponent:       in.Opponent,
		Location:       in.Location,
		League:         in.League,
		Result:         in.Result,
		GoalsFor:       in.GoalsFor,
		GoalsAgainst:   in.GoalsAgainst,
		PlayerOfGameID: in.PlayerOfGameID,
		JerseyColor:    in.JerseyColor,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.db.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GameStore) Get(ctx context.Context, teamID, id string) (*models.Game, error) {
	var g models.Game
	err := s.db.WithContext(ctx).Where("id = ? AND team_id = ?", id, teamID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &g, err
}

// UpdateGameInput carries a partial update; nil fields stay untouched.
type UpdateGameInput struct {
	Date           *time.Time
	Opponent       *string
	Location       *string
	League         *string
	Result         *models.GameResult
	GoalsFor       *int
	GoalsAgainst   *int
	PlayerOfGameID *string
	JerseyColor    *string
	Notes          *string
}

func (s *GameStore) Update(ctx context.Context, teamID, id string, in UpdateGameInput) (*models.Game, error) {
	g, err := s.Get(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if in.Date != nil {
		g.Date = *in.Date
	}
	if in.Opponent != nil {
		g.Opponent = *in.Opponent
	}
	if in.Location != nil {
		g.Location = *in.Location
	}
	if in.League != nil {
		g.League = *in.League
	}
	if in.Result != nil {
		g.Result = *in.Result
	}
	if in.GoalsFor != nil {
		g.GoalsFor = *in.GoalsFor
	}
	if in.GoalsAgainst != nil {
		g.GoalsAgainst = *in.GoalsAgainst
	}
	if in.PlayerOfGameID != nil {
		g.PlayerOfGameID = in.PlayerOfGameID
	}
	if in.JerseyColor != nil {
		g.JerseyColor = *in.JerseyColor
	}
	if in.Notes != nil {
		g.Notes = *in.Notes
	}
	g.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a game together with its lineup entries in one transaction.
func (s *GameStore) Delete(ctx context.Context, teamID, id string) error {
	if _, err := s.Get(ctx, teamID, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ? AND team_id = ?", id, teamID).
			Delete(&models.LineupEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND team_id = ?", id, teamID).
			Delete(&models.Game{}).Error
	})
}
