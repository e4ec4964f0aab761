package models

import "time"

// ShootSide is the side a player shoots from.
type ShootSide string

const (
	ShootLeft  ShootSide = "LEFT"
	ShootRight ShootSide = "RIGHT"
)

func (s ShootSide) Valid() bool { return s == ShootLeft || s == ShootRight }

type Player struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	TeamID      string     `gorm:"size:36;not null;index" json:"team_id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Number      *int       `json:"number,omitempty"`
	ShootSide   *ShootSide `gorm:"size:8" json:"shoot_side,omitempty"`
	ParentsName string     `gorm:"size:255" json:"parents_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
