package models

import "time"

// Derived statistics DTOs. Computed in repo.StatsStore, never persisted.

type TeamTotals struct {
	Games        int `json:"games"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	Ties         int `json:"ties"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	GoalDiff     int `json:"goal_diff"`
	Penalties    int `json:"penalties"`
	Shutouts     int `json:"shutouts"`
}

// LeagueRecord is the win/loss/tie breakdown within one league.
// Games without a league fall under "Unspecified".
type LeagueRecord struct {
	League string `json:"league"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
}

type TeamStats struct {
	TeamID  string         `json:"team_id"`
	Totals  TeamTotals     `json:"totals"`
	Leagues []LeagueRecord `json:"leagues"`
}

type PlayerTotals struct {
	Games        int `json:"games"`
	Goals        int `json:"goals"`
	Assists      int `json:"assists"`
	Points       int `json:"points"`
	Penalties    int `json:"penalties"`
	Shutouts     int `json:"shutouts"`
	PlayerOfGame int `json:"player_of_game"`
}

type PositionSplit struct {
	Position  Position `json:"position"`
	Games     int      `json:"games"`
	Goals     int      `json:"goals"`
	Assists   int      `json:"assists"`
	Points    int      `json:"points"`
	Penalties int      `json:"penalties"`
}

type PlayerStatsRow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Number      *int            `json:"number,omitempty"`
	ShootSide   *ShootSide      `json:"shoot_side,omitempty"`
	Totals      PlayerTotals    `json:"totals"`
	Positions   []Position      `json:"positions"`
	PerPosition []PositionSplit `json:"per_position"`
}

type GameLogEntry struct {
	GameID    string     `json:"game_id"`
	Date      time.Time  `json:"date"`
	Opponent  string     `json:"opponent"`
	League    string     `json:"league,omitempty"`
	Result    GameResult `json:"result"`
	Score     string     `json:"score"` // "goalsFor-goalsAgainst"
	Position  Position   `json:"position"`
	Line      *int       `json:"line,omitempty"`
	Goals     int        `json:"goals"`
	Assists   int        `json:"assists"`
	Points    int        `json:"points"`
	Penalties int        `json:"penalties"`
	Shutout   bool       `json:"shutout"`
}

type PlayerCard struct {
	TeamID      string          `json:"team_id"`
	Player      Player          `json:"player"`
	Totals      PlayerTotals    `json:"totals"`
	PerPosition []PositionSplit `json:"per_position"`
	GameLog     []GameLogEntry  `json:"game_log"`
}

// TrendPoint is one game in chronological order, for charting.
type TrendPoint struct {
	ID           string     `json:"id"`
	Date         time.Time  `json:"date"`
	Opponent     string     `json:"opponent"`
	League       string     `json:"league,omitempty"`
	GoalsFor     int        `json:"goals_for"`
	GoalsAgainst int        `json:"goals_against"`
	Result       GameResult `json:"result"`
}
