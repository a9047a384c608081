package rankings

import (
	"sort"

	"github.com/sam-maryland/espn-power-rankings/internal/espn"
)

// AllPlayWins maps a team id to the number of wins it would have collected
// playing every other team each week instead of its scheduled opponent.
type AllPlayWins map[int]int

// Get returns the all-play wins for a team, 0 if the team never scored in a decided matchup
func (w AllPlayWins) Get(teamID int) int {
	return w[teamID]
}

// TeamIDs returns the team ids present in the map in ascending order
func (w AllPlayWins) TeamIDs() []int {
	ids := make([]int, 0, len(w))
	for id := range w {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// score is one team's result for one week
type score struct {
	teamID int
	value  float64
}

// weekScores collects both sides of every decided matchup
func weekScores(week espn.Week) []score {
	var scores []score
	for _, matchup := range week.Matchups {
		if !matchup.Decided() {
			continue
		}
		scores = append(scores,
			score{teamID: matchup.AwayTeamID, value: matchup.AwayScore()},
			score{teamID: matchup.HomeTeamID, value: matchup.HomeScore()},
		)
	}
	return scores
}

// CalculateAllPlayWins tallies all-play wins across every week of the schedule.
// Each week's scores are ranked highest first and the team in position i of n
// is credited n-(i+1) wins. Equal scores are credited by position in matchup order.
func CalculateAllPlayWins(schedule *espn.Schedule) AllPlayWins {
	wins := make(AllPlayWins)
	if schedule == nil {
		return wins
	}

	for _, week := range schedule.ScheduleItems {
		scores := weekScores(week)

		sort.SliceStable(scores, func(i, j int) bool {
			return scores[i].value > scores[j].value
		})

		for i, s := range scores {
			wins[s.teamID] += len(scores) - (i + 1)
		}
	}

	return wins
}
