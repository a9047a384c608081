package rankings

import (
	"fmt"
	"io"
)

// WriteRankings prints one "rank. location nickname" line per team.
// With verbose set, each line also carries the composite weight.
func WriteRankings(w io.Writer, standings []Standing, verbose bool) error {
	for _, s := range standings {
		var err error
		if verbose {
			_, err = fmt.Fprintf(w, "%d. %s %s (%.4f)\n", s.Rank, s.Team.TeamLocation, s.Team.TeamNickname, s.Weight)
		} else {
			_, err = fmt.Fprintf(w, "%d. %s %s\n", s.Rank, s.Team.TeamLocation, s.Team.TeamNickname)
		}
		if err != nil {
			return fmt.Errorf("writing rankings: %w", err)
		}
	}
	return nil
}
