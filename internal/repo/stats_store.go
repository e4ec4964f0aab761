package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"rinklog/internal/models"
)

// unspecifiedLeague buckets games saved without a league.
const unspecifiedLeague = "Unspecified"

// StatsStore derives aggregate statistics from games and lineup entries.
// Read-only; everything is computed per request.
type StatsStore struct{ db *gorm.DB }

func NewStatsStore(db *gorm.DB) *StatsStore { return &StatsStore{db: db} }

func (s *StatsStore) penaltiesSum(ctx context.Context, teamID string) (int, error) {
	var n int
	err := s.db.WithContext(ctx).Model(&models.LineupEntry{}).
		Where("team_id = ?", teamID).
		Select("COALESCE(SUM(penalties), 0)").
		Scan(&n).Error
	return n, err
}

func (s *StatsStore) shutoutGames(ctx context.Context, teamID string) (int, error) {
	var n int
	err := s.db.WithContext(ctx).Model(&models.LineupEntry{}).
		Where("team_id = ? AND position = ? AND shutout = ?", teamID, models.PosGoalie, true).
		Select("COUNT(DISTINCT game_id)").
		Scan(&n).Error
	return n, err
}

// TeamStats computes the team record, goal totals and per-league breakdown.
func (s *StatsStore) TeamStats(ctx context.Context, teamID string) (*models.TeamStats, error) {
	var games []models.Game
	if err := s.db.WithContext(ctx).
		Select("result", "goals_for", "goals_against", "league").
		Where("team_id = ?", teamID).
		Find(&games).Error; err != nil {
		return nil, err
	}

	out := models.TeamStats{TeamID: teamID}
	leagueMap := map[string]*models.LeagueRecord{}
	for _, g := range games {
		out.Totals.Games++
		out.Totals.GoalsFor += g.GoalsFor
		out.Totals.GoalsAgainst += g.GoalsAgainst

		league := g.League
		if league == "" {
			league = unspecifiedLeague
		}
		rec := leagueMap[league]
		if rec == nil {
			rec = &models.LeagueRecord{League: league}
			leagueMap[league] = rec
		}
		rec.Games++

		switch g.Result {
		case models.ResultWin:
			out.Totals.Wins++
			rec.Wins++
		case models.ResultLoss:
			out.Totals.Losses++
			rec.Losses++
		default:
			out.Totals.Ties++
			rec.Ties++
		}
	}
	out.Totals.GoalDiff = out.Totals.GoalsFor - out.Totals.GoalsAgainst

	var err error
	if out.Totals.Penalties, err = s.penaltiesSum(ctx, teamID); err != nil {
		return nil, err
	}
	if out.Totals.Shutouts, err = s.shutoutGames(ctx, teamID); err != nil {
		return nil, err
	}

	out.Leagues = make([]models.LeagueRecord, 0, len(leagueMap))
	for _, rec := range leagueMap {
		out.Leagues = append(out.Leagues, *rec)
	}
	sort.Slice(out.Leagues, func(i, j int) bool {
		if out.Leagues[i].Games != out.Leagues[j].Games {
			return out.Leagues[i].Games > out.Leagues[j].Games
		}
		return out.Leagues[i].League < out.Leagues[j].League
	})
	return &out, nil
}

type playerAgg struct {
	PlayerID  string
	Games     int
	Goals     int
	Assists   int
	Penalties int
}

type positionAgg struct {
	PlayerID  string
	Position  models.Position
	Games     int
	Goals     int
	Assists   int
	Penalties int
}

type countRow struct {
	Key string
	N   int
}

// PlayerRows builds the whole-roster stat table: totals, positions played
// and per-position splits. Sorted by points desc, then goals desc.
func (s *StatsStore) PlayerRows(ctx context.Context, teamID string) ([]models.PlayerStatsRow, error) {
	var players []models.Player
	if err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("number ASC, name ASC").
		Find(&players).Error; err != nil {
		return nil, err
	}

	var totals []playerAgg
	if err := s.db.WithContext(ctx).Model(&models.LineupEntry{}).
		Select("player_id, COUNT(game_id) AS games, COALESCE(SUM(goals),0) AS goals, COALESCE(SUM(assists),0) AS assists, COALESCE(SUM(penalties),0) AS penalties").
		Where("team_id = ?", teamID).
		Group("player_id").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	totalsByPlayer := map[string]playerAgg{}
	for _, t := range totals {
		totalsByPlayer[t.PlayerID] = t
	}

	var shutouts []countRow
	if err := s.db.WithContext(ctx).Model(&models.LineupEntry{}).
		Select("player_id AS key, COUNT(DISTINCT game_id) AS n").
		Where("team_id = ? AND position = ? AND shutout = ?", teamID, models.PosGoalie, true).
		Group("player_id").
		Scan(&shutouts).Error; err != nil {
		return nil, err
	}
	shutoutsByPlayer := map[string]int{}
	for _, r := range shutouts {
		shutoutsByPlayer[r.Key] = r.N
	}

	var pog []countRow
	if err := s.db.WithContext(ctx).Model(&models.Game{}).
		Select("player_of_game_id AS key, COUNT(*) AS n").
		Where("team_id = ? AND player_of_game_id IS NOT NULL", teamID).
		Group("player_of_game_id").
		Scan(&pog).Error; err != nil {
		return nil, err
	}
	pogByPlayer := map[string]int{}
	for _, r := range pog {
		pogByPlayer[r.Key] = r.N
	}

	var perPos []positionAgg
	if err := s.db.WithContext(ctx).Model(&models.LineupEntry{}).
		Select("player_id, position, COUNT(game_id) AS games, COALESCE(SUM(goals),0) AS goals, COALESCE(SUM(assists),0) AS assists, COALESCE(SUM(penalties),0) AS penalties").
		Where("team_id = ?", teamID).
		Group("player_id, position").
		Scan(&perPos).Error; err != nil {
		return nil, err
	}
	perPosByPlayer := map[string][]models.PositionSplit{}
	for _, r := range perPos {
		perPosByPlayer[r.PlayerID] = append(perPosByPlayer[r.PlayerID], models.PositionSplit{
			Position:  r.Position,
			Games:     r.Games,
			Goals:     r.Goals,
			Assists:   r.Assists,
			Points:    r.Goals + r.Assists,
			Penalties: r.Penalties,
		})
	}

	rows := make([]models.PlayerStatsRow, 0, len(players))
	for _, p := range players {
		t := totalsByPlayer[p.ID]
		splits := perPosByPlayer[p.ID]
		sort.Slice(splits, func(i, j int) bool { return splits[i].Games > splits[j].Games })

		positions := make([]models.Position, 0, len(splits))
		for _, sp := range splits {
			positions = append(positions, sp.Position)
		}

		rows = append(rows, models.PlayerStatsRow{
			ID:        p.ID,
			Name:      p.Name,
			Number:    p.Number,
			ShootSide: p.ShootSide,
			Totals: models.PlayerTotals{
				Games:        t.Games,
				Goals:        t.Goals,
				Assists:      t.Assists,
				Points:       t.Goals + t.Assists,
				Penalties:    t.Penalties,
				Shutouts:     shutoutsByPlayer[p.ID],
				PlayerOfGame: pogByPlayer[p.ID],
			},
			Positions:   positions,
			PerPosition: splits,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Totals.Points != rows[j].Totals.Points {
			return rows[i].Totals.Points > rows[j].Totals.Points
		}
		return rows[i].Totals.Goals > rows[j].Totals.Goals
	})
	return rows, nil
}

// PlayerCard builds a single player's totals, splits and game log.
func (s *StatsStore) PlayerCard(ctx context.Context, teamID, playerID string) (*models.PlayerCard, error) {
	var p models.Player
	err := s.db.WithContext(ctx).Where("id = ? AND team_id = ?", playerID, teamID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var total playerAgg
	if err := s.db.WithContext(ctx).Model(&models.LineupEntry{}).
		Select("COUNT(game_id) AS games, COALESCE(SUM(goals),0) AS goals, COALESCE(SUM(assists),0) AS assists, COALESCE(SUM(penalties),0) AS penalties").
		Where("team_id = ? AND player_id = ?", teamID, playerID).
		Scan(&total).Error; err != nil {
		return nil, err
	}

	var perPos []positionAgg
	if err := s.db.WithContext(ctx).Model(&models.LineupEntry{}).
		Select("position, COUNT(game_id) AS games, COALESCE(SUM(goals),0) AS goals, COALESCE(SUM(assists),0) AS assists, COALESCE(SUM(penalties),0) AS penalties").
		Where("team_id = ? AND player_id = ?", teamID, playerID).
		Group("position").
		Scan(&perPos).Error; err != nil {
		return nil, err
	}
	splits := make([]models.PositionSplit, 0, len(perPos))
	for _, r := range perPos {
		splits = append(splits, models.PositionSplit{
			Position:  r.Position,
			Games:     r.Games,
			Goals:     r.Goals,
			Assists:   r.Assists,
			Points:    r.Goals + r.Assists,
			Penalties: r.Penalties,
		})
	}
	sort.Slice(splits, func(i, j int) bool { return splits[i].Games > splits[j].Games })

	var pogCount int64
	if err := s.db.WithContext(ctx).Model(&models.Game{}).
		Where("team_id = ? AND player_of_game_id = ?", teamID, playerID).
		Count(&pogCount).Error; err != nil {
		return nil, err
	}

	var shutouts int
	if err := s.db.WithContext(ctx).Model(&models.LineupEntry{}).
		Select("COUNT(DISTINCT game_id)").
		Where("team_id = ? AND player_id = ? AND position = ? AND shutout = ?",
			teamID, playerID, models.PosGoalie, true).
		Scan(&shutouts).Error; err != nil {
		return nil, err
	}

	var entries []models.LineupEntry
	if err := s.db.WithContext(ctx).
		Where("team_id = ? AND player_id = ?", teamID, playerID).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	gameIDs := make([]string, 0, len(entries))
	for _, e := range entries {
		gameIDs = append(gameIDs, e.GameID)
	}
	gamesByID := map[string]models.Game{}
	if len(gameIDs) > 0 {
		var games []models.Game
		if err := s.db.WithContext(ctx).
			Where("team_id = ? AND id IN ?", teamID, gameIDs).
			Find(&games).Error; err != nil {
			return nil, err
		}
		for _, g := range games {
			gamesByID[g.ID] = g
		}
	}
	log := make([]models.GameLogEntry, 0, len(entries))
	for _, e := range entries {
		g := gamesByID[e.GameID]
		log = append(log, models.GameLogEntry{
			GameID:    e.GameID,
			Date:      g.Date,
			Opponent:  g.Opponent,
			League:    g.League,
			Result:    g.Result,
			Score:     fmt.Sprintf("%d-%d", g.GoalsFor, g.GoalsAgainst),
			Position:  e.Position,
			Line:      e.Line,
			Goals:     e.Goals,
			Assists:   e.Assists,
			Points:    e.Goals + e.Assists,
			Penalties: e.Penalties,
			Shutout:   e.Shutout,
		})
	}
	sort.Slice(log, func(i, j int) bool { return log[i].Date.After(log[j].Date) })

	return &models.PlayerCard{
		TeamID: teamID,
		Player: p,
		Totals: models.PlayerTotals{
			Games:        total.Games,
			Goals:        total.Goals,
			Assists:      total.Assists,
			Points:       total.Goals + total.Assists,
			Penalties:    total.Penalties,
			Shutouts:     shutouts,
			PlayerOfGame: int(pogCount),
		},
		PerPosition: splits,
		GameLog:     log,
	}, nil
}

// Trends returns the per-game series in chronological order.
func (s *StatsStore) Trends(ctx context.Context, teamID string) ([]models.TrendPoint, error) {
	var games []models.Game
	if err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("date ASC").
		Find(&games).Error; err != nil {
		return nil, err
	}
	out := make([]models.TrendPoint, 0, len(games))
	for _, g := range games {
		out = append(out, models.TrendPoint{
			ID:           g.ID,
			Date:         g.Date,
			Opponent:     g.Opponent,
			League:       g.League,
			GoalsFor:     g.GoalsFor,
			GoalsAgainst: g.GoalsAgainst,
			Result:       g.Result,
		})
	}
	return out, nil
}
