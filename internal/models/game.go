package models

import "time"

type GameResult string

const (
	ResultWin  GameResult = "WIN"
	ResultLoss GameResult = "LOSS"
	ResultTie  GameResult = "TIE"
)

func (r GameResult) Valid() bool { return r == ResultWin || r == ResultLoss || r == ResultTie }

// Position of a lineup entry. "G" entries drive shutout accounting.
type Position string

const (
	PosCenter    Position = "C"
	PosLeftWing  Position = "LW"
	PosRightWing Position = "RW"
	PosLeftD     Position = "LD"
	PosRightD    Position = "RD"
	PosGoalie    Position = "G"
	PosOther     Position = "OTHER"
)

func (p Position) Valid() bool {
	switch p {
	case PosCenter, PosLeftWing, PosRightWing, PosLeftD, PosRightD, PosGoalie, PosOther:
		return true
	}
	return false
}

type Game struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	TeamID         string     `gorm:"size:36;not null;index" json:"team_id"`
	Date           time.Time  `gorm:"not null;index" json:"date"`
	Opponent       string     `gorm:"size:255;not null" json:"opponent"`
	Location       string     `gorm:"size:255" json:"location,omitempty"`
	League         string     `gorm:"size:255" json:"league,omitempty"`
	Result         GameResult `gorm:"size:8;not null" json:"result"`
	GoalsFor       int        `gorm:"not null;default:0" json:"goals_for"`
	GoalsAgainst   int        `gorm:"not null;default:0" json:"goals_against"`
	PlayerOfGameID *string    `gorm:"size:36;index" json:"player_of_game_id,omitempty"`
	JerseyColor    string     `gorm:"size:64" json:"jersey_color,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LineupEntry records one player's line in one game.
// At most one row per (game, player).
type LineupEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TeamID    string    `gorm:"size:36;not null;index" json:"team_id"`
	GameID    string    `gorm:"size:36;not null;uniqueIndex:uniq_game_player,priority:1" json:"game_id"`
	PlayerID  string    `gorm:"size:36;not null;uniqueIndex:uniq_game_player,priority:2;index" json:"player_id"`
	Position  Position  `gorm:"size:8;not null" json:"position"`
	Line      *int      `json:"line,omitempty"`
	Goals     int       `gorm:"not null;default:0" json:"goals"`
	Assists   int       `gorm:"not null;default:0" json:"assists"`
	Penalties int       `gorm:"not null;default:0" json:"penalties"`
	Shutout   bool      `gorm:"not null;default:false" json:"shutout"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
