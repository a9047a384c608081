package rankings

import (
	"context"
	"fmt"

	"github.com/sam-maryland/espn-power-rankings/internal/espn"
	"github.com/sirupsen/logrus"
)

// Request selects the league and ranking variant to compute
type Request struct {
	LeagueID       string
	IncludeAllPlay bool
	// OpponentPool overrides the all-play pool size; 0 derives it from the league
	OpponentPool int
}

// Report is a complete power ranking for one league
type Report struct {
	LeagueID     string      `json:"league_id"`
	LeagueSize   int         `json:"league_size"`
	MaxPointsFor float64     `json:"max_points_for"`
	AllPlay      bool        `json:"all_play"`
	OpponentPool int         `json:"opponent_pool,omitempty"`
	Standings    []Standing  `json:"standings"`
	AllPlayWins  AllPlayWins `json:"-"`
	APICallsUsed int         `json:"-"`
}

// Service loads league data from ESPN and ranks it
type Service struct {
	client espn.Client
	logger *logrus.Logger
}

// NewService creates a new ranking service
func NewService(client espn.Client, logger *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// PowerRankings fetches the snapshot (and the schedule when all-play is
// requested) and returns the ranked league. Any failure aborts the whole
// ranking; no partial result is returned.
func (s *Service) PowerRankings(ctx context.Context, req Request) (*Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"league_id": req.LeagueID,
		"all_play":  req.IncludeAllPlay,
	})

	league, err := s.client.GetLeague(ctx, req.LeagueID)
	if err != nil {
		log.WithError(err).Error("Failed to load season snapshot")
		return nil, fmt.Errorf("loading season snapshot: %w", err)
	}

	report := &Report{
		LeagueID:     req.LeagueID,
		LeagueSize:   league.LeagueSize,
		MaxPointsFor: MaxPointsFor(league),
		AllPlay:      req.IncludeAllPlay,
		APICallsUsed: 1,
	}

	var allPlay AllPlayWins
	if req.IncludeAllPlay {
		allPlay, err = s.AllPlayRecords(ctx, req.LeagueID)
		if err != nil {
			return nil, err
		}
		report.AllPlayWins = allPlay
		report.APICallsUsed++
	}

	engine := NewEngine(s.logger, Options{OpponentPool: req.OpponentPool})
	if req.IncludeAllPlay {
		report.OpponentPool = engine.OpponentPool(league)
	}

	standings, err := engine.Rank(league, allPlay)
	if err != nil {
		log.WithError(err).Error("Power ranking computation failed")
		return nil, fmt.Errorf("computing power rankings: %w", err)
	}
	report.Standings = standings

	log.WithField("teams", len(standings)).Info("Computed power rankings")
	return report, nil
}

// AllPlayRecords fetches the league schedule and tallies all-play wins
func (s *Service) AllPlayRecords(ctx context.Context, leagueID string) (AllPlayWins, error) {
	schedule, err := s.client.GetSchedule(ctx, leagueID)
	if err != nil {
		s.logger.WithError(err).WithField("league_id", leagueID).Error("Failed to load schedule history")
		return nil, fmt.Errorf("loading schedule history: %w", err)
	}

	wins := CalculateAllPlayWins(schedule)

	s.logger.WithFields(logrus.Fields{
		"league_id": leagueID,
		"weeks":     len(schedule.ScheduleItems),
		"teams":     len(wins),
	}).Debug("Calculated all-play wins")

	return wins, nil
}
