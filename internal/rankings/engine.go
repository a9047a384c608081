package rankings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sam-maryland/espn-power-rankings/internal/espn"
	"github.com/sirupsen/logrus"
)

// LegacyOpponentPool is the fixed all-play pool size older rankings assumed
// regardless of how many teams the league actually had.
const LegacyOpponentPool = 10

var (
	// ErrNoScoringData is returned when no team in the league has scored
	ErrNoScoringData = errors.New("no scoring data available: league max points for is zero")

	// ErrUnknownTeam is returned when a matchup references a team missing from the league
	ErrUnknownTeam = errors.New("schedule references a team that is not in the league")
)

// UnknownTeamError identifies the team id that could not be matched to the league
type UnknownTeamError struct {
	TeamID int
}

func (e *UnknownTeamError) Error() string {
	return fmt.Sprintf("%s: team id %d", ErrUnknownTeam.Error(), e.TeamID)
}

func (e *UnknownTeamError) Unwrap() error {
	return ErrUnknownTeam
}

// Options configures the ranking engine
type Options struct {
	// OpponentPool fixes the number of teams in the all-play pool.
	// Zero derives it from the league size.
	OpponentPool int
}

// Standing is one team's position in the power rankings with the weights behind it
type Standing struct {
	Rank                int       `json:"rank"`
	Team                espn.Team `json:"team"`
	WeeksPlayed         int       `json:"weeks_played"`
	WinPercentageWeight float64   `json:"win_percentage_weight"`
	PointsForWeight     float64   `json:"points_for_weight"`
	AllPlayWeight       float64   `json:"all_play_weight,omitempty"`
	Weight              float64   `json:"weight"`
}

// Engine computes composite power ranking weights and orders teams by them
type Engine struct {
	opts   Options
	logger *logrus.Logger
}

// NewEngine creates a new ranking engine
func NewEngine(logger *logrus.Logger, opts Options) *Engine {
	return &Engine{
		opts:   opts,
		logger: logger,
	}
}

// WeeksPlayed is the number of decided games in a record
func WeeksPlayed(record espn.Record) int {
	return record.OverallWins + record.OverallLosses
}

// StageMultiplier damps win percentage early in the season, when a single
// result swings it heavily. It saturates at 3.0 from week three on.
func StageMultiplier(weeksPlayed int) float64 {
	switch weeksPlayed {
	case 1:
		return 1.2
	case 2:
		return 2.4
	default:
		return 3.0
	}
}

// WinPercentageWeight scales a team's win percentage by the stage multiplier
func WinPercentageWeight(record espn.Record) float64 {
	return record.OverallPercentage * StageMultiplier(WeeksPlayed(record))
}

// MaxPointsFor returns the highest points for in the league, 0 if nobody has scored
func MaxPointsFor(league *espn.League) float64 {
	highest := 0.0
	for _, team := range league.Teams {
		if team.Record.PointsFor > highest {
			highest = team.Record.PointsFor
		}
	}
	return highest
}

// PointsForWeight normalizes points for against the league leader
func PointsForWeight(pointsFor, maxPointsFor float64) (float64, error) {
	if maxPointsFor == 0 {
		return 0, ErrNoScoringData
	}
	return pointsFor / maxPointsFor, nil
}

// PossibleAllPlayWins is weeksPlayed * (sum(0..=pool) - pool), which is
// weeksPlayed * pool*(pool-1)/2. A pool of 10 gives 45 per week.
func PossibleAllPlayWins(weeksPlayed, pool int) int {
	if pool < 2 || weeksPlayed <= 0 {
		return 0
	}
	return weeksPlayed * (pool * (pool - 1) / 2)
}

// AllPlayWeight is the share of possible all-play wins a team collected.
// Teams with no possible wins get 0.
func AllPlayWeight(wins, weeksPlayed, pool int) float64 {
	possible := PossibleAllPlayWins(weeksPlayed, pool)
	if possible == 0 {
		return 0
	}
	return float64(wins) / float64(possible)
}

// OpponentPool returns the all-play pool size used for the league
func (e *Engine) OpponentPool(league *espn.League) int {
	if e.opts.OpponentPool > 0 {
		return e.opts.OpponentPool
	}
	if league.LeagueSize > 0 {
		return league.LeagueSize
	}
	return len(league.Teams)
}

// Rank computes every team's composite weight and returns the teams ordered
// strongest first. A nil allPlay ranks on record and points for only.
// Teams with equal weights keep their snapshot order.
func (e *Engine) Rank(league *espn.League, allPlay AllPlayWins) ([]Standing, error) {
	if league == nil {
		return nil, errors.New("league is required")
	}

	maxPointsFor := MaxPointsFor(league)
	if maxPointsFor == 0 {
		e.logger.WithField("teams", len(league.Teams)).Error("No team has scored, cannot normalize points for")
		return nil, ErrNoScoringData
	}

	pool := 0
	if allPlay != nil {
		if err := checkTeams(league, allPlay); err != nil {
			return nil, err
		}

		pool = e.OpponentPool(league)
		if e.opts.OpponentPool == 0 && pool != LegacyOpponentPool {
			e.logger.WithFields(logrus.Fields{
				"opponent_pool": pool,
				"legacy_pool":   LegacyOpponentPool,
			}).Info("All-play denominator derived from league size instead of the legacy fixed pool")
		}
	}

	standings := make([]Standing, 0, len(league.Teams))
	for _, team := range league.Teams {
		weeks := WeeksPlayed(team.Record)

		pointsForWeight, err := PointsForWeight(team.Record.PointsFor, maxPointsFor)
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", team.TeamID, err)
		}

		standing := Standing{
			Team:                team,
			WeeksPlayed:         weeks,
			WinPercentageWeight: WinPercentageWeight(team.Record),
			PointsForWeight:     pointsForWeight,
		}

		if allPlay != nil {
			standing.Team.OverallWins = allPlay.Get(team.TeamID)
			standing.AllPlayWeight = AllPlayWeight(standing.Team.OverallWins, weeks, pool)
		}

		standing.Weight = standing.WinPercentageWeight + standing.PointsForWeight + standing.AllPlayWeight
		standings = append(standings, standing)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Weight > standings[j].Weight
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	e.logger.WithFields(logrus.Fields{
		"teams":          len(standings),
		"max_points_for": maxPointsFor,
		"all_play":       allPlay != nil,
	}).Debug("Computed power rankings")

	return standings, nil
}

// checkTeams rejects all-play entries for teams absent from the snapshot
func checkTeams(league *espn.League, allPlay AllPlayWins) error {
	known := make(map[int]bool, len(league.Teams))
	for _, team := range league.Teams {
		known[team.TeamID] = true
	}

	for _, id := range allPlay.TeamIDs() {
		if !known[id] {
			return &UnknownTeamError{TeamID: id}
		}
	}
	return nil
}
