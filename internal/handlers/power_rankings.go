package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/espn-power-rankings/internal/espn"
	"github.com/sam-maryland/espn-power-rankings/internal/rankings"
	"github.com/sirupsen/logrus"
)

// AllPlayEntry is one team's all-play tally
type AllPlayEntry struct {
	TeamID      int    `json:"team_id"`
	Name        string `json:"name"`
	AllPlayWins int    `json:"all_play_wins"`
}

// GetPowerRankingsTool returns the MCP tool definition for get_power_rankings
func (h *LeagueHandler) GetPowerRankingsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_power_rankings",
		Description: "Rank every team in an ESPN fantasy football league by a composite of win percentage, points for and all-play wins",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": map[string]interface{}{
					"type":        "string",
					"description": "The ESPN league ID",
					"required":    true,
				},
				"include_all_play": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the all-play weight, which needs the league schedule (defaults to the league's configured setting)",
					"required":    false,
				},
			},
		},
	}
}

// HandleGetPowerRankings handles the get_power_rankings tool call
func (h *LeagueHandler) HandleGetPowerRankings(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_power_rankings")

	leagueID, err := parseLeagueID(args)
	if err != nil {
		return nil, err
	}

	settings := h.config.GetLeagueSettings(leagueID)
	includeAllPlay := settings.AllPlayEnabled()
	if override, present, err := parseOptionalBool(args, "include_all_play"); err != nil {
		return nil, err
	} else if present {
		includeAllPlay = override
	}

	h.logger.WithFields(logrus.Fields{
		"league_id":     leagueID,
		"settings":      settings.Name,
		"all_play":      includeAllPlay,
		"opponent_pool": settings.OpponentPool,
	}).Debug("Resolved ranking settings")

	report, err := h.service.PowerRankings(ctx, rankings.Request{
		LeagueID:       leagueID,
		IncludeAllPlay: includeAllPlay,
		OpponentPool:   settings.OpponentPool,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to compute power rankings: %s", err.Error())), nil
	}

	summary := fmt.Sprintf("Power rankings for league %s (%d teams)", leagueID, len(report.Standings))
	if len(report.Standings) > 0 {
		leader := report.Standings[0]
		summary += fmt.Sprintf(", #1 %s with weight %.3f", leader.Team.DisplayName(), leader.Weight)
	}
	if report.AllPlay {
		summary += fmt.Sprintf(", all-play pool of %d", report.OpponentPool)
	} else {
		summary += ", record and points for only"
	}

	response := espn.APIResponse{
		Success: true,
		Data:    report,
		Summary: summary,
		Metadata: espn.Metadata{
			Timestamp:    time.Now(),
			Source:       "espn_api",
			APICallsUsed: report.APICallsUsed,
			LeagueID:     leagueID,
		},
	}

	return h.respond(response)
}

// GetAllPlayRecordsTool returns the MCP tool definition for get_all_play_records
func (h *LeagueHandler) GetAllPlayRecordsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_all_play_records",
		Description: "Get each team's all-play wins: the opponents it would have beaten had it played every team every week",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"league_id": map[string]interface{}{
					"type":        "string",
					"description": "The ESPN league ID",
					"required":    true,
				},
			},
		},
	}
}

// HandleGetAllPlayRecords handles the get_all_play_records tool call
func (h *LeagueHandler) HandleGetAllPlayRecords(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_all_play_records")

	leagueID, err := parseLeagueID(args)
	if err != nil {
		return nil, err
	}

	league, err := h.client.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WithError(err).WithField("league_id", leagueID).Error("Failed to get league teams")
		return errorResult(fmt.Sprintf("Failed to get league teams: %s", err.Error())), nil
	}

	wins, err := h.service.AllPlayRecords(ctx, leagueID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to get all-play records: %s", err.Error())), nil
	}

	entries, err := allPlayEntries(league, wins)
	if err != nil {
		h.logger.WithError(err).WithField("league_id", leagueID).Error("Schedule does not match league")
		return errorResult(fmt.Sprintf("Failed to get all-play records: %s", err.Error())), nil
	}

	response := espn.APIResponse{
		Success: true,
		Data:    entries,
		Summary: fmt.Sprintf("All-play records for league %s (%d teams)", leagueID, len(entries)),
		Metadata: espn.Metadata{
			Timestamp:    time.Now(),
			Source:       "espn_api",
			APICallsUsed: 2,
			LeagueID:     leagueID,
		},
	}

	return h.respond(response)
}

// allPlayEntries names every team's tally, most wins first. Teams that never
// played a decided matchup are listed with 0.
func allPlayEntries(league *espn.League, wins rankings.AllPlayWins) ([]AllPlayEntry, error) {
	known := make(map[int]bool, len(league.Teams))
	entries := make([]AllPlayEntry, 0, len(league.Teams))
	for _, team := range league.Teams {
		known[team.TeamID] = true
		entries = append(entries, AllPlayEntry{
			TeamID:      team.TeamID,
			Name:        team.DisplayName(),
			AllPlayWins: wins.Get(team.TeamID),
		})
	}

	for _, id := range wins.TeamIDs() {
		if !known[id] {
			return nil, &rankings.UnknownTeamError{TeamID: id}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AllPlayWins > entries[j].AllPlayWins
	})

	return entries, nil
}
