package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sam-maryland/espn-power-rankings/internal/config"
	"github.com/sam-maryland/espn-power-rankings/internal/espn"
	"github.com/sam-maryland/espn-power-rankings/internal/rankings"
	"github.com/sirupsen/logrus"
)

// LeagueTeamEntry is one team of the season snapshot as returned to MCP clients
type LeagueTeamEntry struct {
	TeamID           int     `json:"team_id"`
	Name             string  `json:"name"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	WinPercentage    float64 `json:"win_percentage"`
	PointsFor        float64 `json:"points_for"`
	GamesPlayed      int     `json:"games_played"`
	PointsForPerGame float64 `json:"points_for_per_game,omitempty"`
}

// LeagueHandler handles league-related MCP tools
type LeagueHandler struct {
	client  espn.Client
	logger  *logrus.Logger
	config  *config.Config
	service *rankings.Service
}

// NewLeagueHandler creates a new league handler. A nil cfg uses the built-in defaults.
func NewLeagueHandler(client espn.Client, logger *logrus.Logger, cfg *config.Config) *LeagueHandler {
	if cfg == nil {
		logger.Warn("No ranking settings supplied, using defaults")
		cfg = config.Default()
	}

	return &LeagueHandler{
		client:  client,
		logger:  logger,
		config:  cfg,
		service: rankings.NewService(client, logger),
	}
}

// GetLeagueTeamsTool returns the MCP tool definition for get_league_teams
func (h *LeagueHandler) GetLeagueTeamsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_league_teams",
		Description: "Get every team in an ESPN fantasy football league with its record and points for",
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

// HandleGetLeagueTeams handles the get_league_teams tool call
func (h *LeagueHandler) HandleGetLeagueTeams(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error) {
	h.logger.WithField("args", args).Info("Handling get_league_teams")

	leagueID, err := parseLeagueID(args)
	if err != nil {
		return nil, err
	}

	league, err := h.client.GetLeague(ctx, leagueID)
	if err != nil {
		h.logger.WithError(err).WithField("league_id", leagueID).Error("Failed to get league teams")
		return errorResult(fmt.Sprintf("Failed to get league teams: %s", err.Error())), nil
	}

	teams := make([]LeagueTeamEntry, 0, len(league.Teams))
	for _, team := range league.Teams {
		entry := LeagueTeamEntry{
			TeamID:        team.TeamID,
			Name:          team.DisplayName(),
			Wins:          team.Record.OverallWins,
			Losses:        team.Record.OverallLosses,
			WinPercentage: team.Record.OverallPercentage,
			PointsFor:     team.Record.PointsFor,
			GamesPlayed:   rankings.WeeksPlayed(team.Record),
		}
		if entry.GamesPlayed > 0 {
			entry.PointsForPerGame = team.Record.PointsFor / float64(entry.GamesPlayed)
		}
		teams = append(teams, entry)
	}

	response := espn.APIResponse{
		Success: true,
		Data:    teams,
		Summary: fmt.Sprintf("League %s has %d teams", leagueID, league.LeagueSize),
		Metadata: espn.Metadata{
			Timestamp:    time.Now(),
			Source:       "espn_api",
			APICallsUsed: 1,
			LeagueID:     leagueID,
		},
	}

	return h.respond(response)
}

// respond encodes an APIResponse as the tool's text content
func (h *LeagueHandler) respond(response espn.APIResponse) (*mcp.CallToolResult, error) {
	jsonResponse, err := formatJSONResponse(response)
	if err != nil {
		h.logger.WithError(err).Error("Failed to format response")
		return errorResult(fmt.Sprintf("Error formatting response: %s", err.Error())), nil
	}

	return textResult(jsonResponse), nil
}
