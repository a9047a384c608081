package espn

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedPayload is wrapped by every validation failure on ESPN data
var ErrMalformedPayload = errors.New("malformed espn payload")

// Validate checks the snapshot before any ranking math runs on it
func (l *League) Validate() error {
	if len(l.Teams) == 0 {
		return fmt.Errorf("%w: league has no teams", ErrMalformedPayload)
	}

	seen := make(map[int]bool, len(l.Teams))
	for _, team := range l.Teams {
		if seen[team.TeamID] {
			return fmt.Errorf("%w: duplicate team id %d", ErrMalformedPayload, team.TeamID)
		}
		seen[team.TeamID] = true

		rec := team.Record
		if rec.OverallWins < 0 || rec.OverallLosses < 0 {
			return fmt.Errorf("%w: team %d has negative record %d-%d",
				ErrMalformedPayload, team.TeamID, rec.OverallWins, rec.OverallLosses)
		}
		if math.IsNaN(rec.OverallPercentage) || rec.OverallPercentage < 0 || rec.OverallPercentage > 1 {
			return fmt.Errorf("%w: team %d has win percentage %v outside [0,1]",
				ErrMalformedPayload, team.TeamID, rec.OverallPercentage)
		}
		if math.IsNaN(rec.PointsFor) || math.IsInf(rec.PointsFor, 0) || rec.PointsFor < 0 {
			return fmt.Errorf("%w: team %d has invalid points for %v",
				ErrMalformedPayload, team.TeamID, rec.PointsFor)
		}
	}

	return nil
}

// Validate checks that every decided matchup carries a score for both sides
func (s *Schedule) Validate() error {
	for weekIdx, week := range s.ScheduleItems {
		for matchupIdx, matchup := range week.Matchups {
			if !matchup.Decided() {
				continue
			}
			if len(matchup.AwayTeamScores) == 0 || len(matchup.HomeTeamScores) == 0 {
				return fmt.Errorf("%w: week %d matchup %d (%d @ %d) is decided but has no scores",
					ErrMalformedPayload, weekIdx+1, matchupIdx, matchup.AwayTeamID, matchup.HomeTeamID)
			}
		}
	}

	return nil
}
