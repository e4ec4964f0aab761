package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rinklog/internal/models"
)

type LineupStore struct{ db *gorm.DB }

func NewLineupStore(db *gorm.DB) *LineupStore { return &LineupStore{db: db} }

type LineupSheet struct {
	Game    models.Game          `json:"game"`
	Players []models.Player      `json:"players"`
	Entries []models.LineupEntry `json:"entries"`
}

// ForGame returns the game, the full roster and the saved entries,
// everything a lineup editor needs in one call.
func (s *LineupStore) ForGame(ctx context.Context, teamID, gameID string) (*LineupSheet, error) {
	var sheet LineupSheet

	err := s.db.WithContext(ctx).
		Where("id = ? AND team_id = ?", gameID, teamID).
		First(&sheet.Game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("number ASC, name ASC").
		Find(&sheet.Players).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Where("team_id = ? AND game_id = ?", teamID, gameID).
		Find(&sheet.Entries).Error; err != nil {
		return nil, err
	}
	return &sheet, nil
}

type LineupEntryInput struct {
	PlayerID  string
	Position  models.Position
	Line      *int
	Goals     int
	Assists   int
	Penalties int
	Shutout   bool
}

// Replace swaps the whole lineup of a game atomically: delete then insert
// inside one transaction, so readers never observe a half-saved sheet.
func (s *LineupStore) Replace(ctx context.Context, teamID, gameID string, entries []LineupEntryInput) ([]models.LineupEntry, error) {
	var g models.Game
	err := s.db.WithContext(ctx).Where("id = ? AND team_id = ?", gameID, teamID).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rows := make([]models.LineupEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.LineupEntry{
			ID:        uuid.NewString(),
			TeamID:    teamID,
			GameID:    gameID,
			PlayerID:  e.PlayerID,
			Position:  e.Position,
			Line:      e.Line,
			Goals:     e.Goals,
			Assists:   e.Assists,
			Penalties: e.Penalties,
			Shutout:   e.Shutout,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Every entry must reference a current roster player of this team;
		// checked inside the transaction so a concurrent player delete
		// cannot slip entries in for a player that is already gone.
		if len(rows) > 0 {
			ids := make([]string, 0, len(rows))
			for _, r := range rows {
				ids = append(ids, r.PlayerID)
			}
			var n int64
			if err := tx.Model(&models.Player{}).
				Where("team_id = ? AND id IN ?", teamID, ids).
				Count(&n).Error; err != nil {
				return err
			}
			if int(n) != len(ids) {
				return ErrNotFound
			}
		}
		if err := tx.Where("team_id = ? AND game_id = ?", teamID, gameID).
			Delete(&models.LineupEntry{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
