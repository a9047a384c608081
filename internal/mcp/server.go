package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sam-maryland/espn-power-rankings/internal/config"
	"github.com/sam-maryland/espn-power-rankings/internal/espn"
	"github.com/sam-maryland/espn-power-rankings/internal/handlers"
	"github.com/sirupsen/logrus"
)

const (
	ServerName    = "ESPN Fantasy Power Rankings"
	ServerVersion = "1.0.0"
)

// toolRouter dispatches tool calls to the league handler by name
type toolRouter struct {
	logger        *logrus.Logger
	leagueHandler *handlers.LeagueHandler
}

func newToolRouter(client espn.Client, logger *logrus.Logger, cfg *config.Config) *toolRouter {
	return &toolRouter{
		logger:        logger,
		leagueHandler: handlers.NewLeagueHandler(client, logger, cfg),
	}
}

func (r *toolRouter) listTools(ctx context.Context, cursor *string) (*mcp.ListToolsResult, error) {
	tools := []mcp.Tool{
		r.leagueHandler.GetPowerRankingsTool(),
		r.leagueHandler.GetAllPlayRecordsTool(),
		r.leagueHandler.GetLeagueTeamsTool(),
	}

	r.logger.WithField("tools_count", len(tools)).Info("Listing available tools")

	return &mcp.ListToolsResult{
		Tools: tools,
	}, nil
}

func (r *toolRouter) callTool(ctx context.Context, name string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	r.logger.WithFields(logrus.Fields{
		"tool":       name,
		"args":       arguments,
		"request_id": uuid.New().String(),
	}).Info("Tool called")

	// Route to specific tool handlers
	switch name {
	case "get_power_rankings":
		return r.leagueHandler.HandleGetPowerRankings(ctx, arguments)
	case "get_all_play_records":
		return r.leagueHandler.HandleGetAllPlayRecords(ctx, arguments)
	case "get_league_teams":
		return r.leagueHandler.HandleGetLeagueTeams(ctx, arguments)
	default:
		r.logger.WithField("tool", name).Warn("Unknown tool called")
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{
					Type: "text",
					Text: "Unknown tool: " + name,
				},
			},
			IsError: true,
		}, nil
	}
}

// NewPowerRankingsMCPServer builds the MCP server exposing the power ranking tools
func NewPowerRankingsMCPServer(client espn.Client, logger *logrus.Logger, cfg *config.Config) *server.DefaultServer {
	router := newToolRouter(client, logger, cfg)

	s := server.NewDefaultServer(ServerName, ServerVersion)
	if s == nil {
		logger.Error("Failed to create MCP server instance")
		return nil
	}

	logger.Info("MCP server instance created successfully")

	s.HandleListTools(router.listTools)
	s.HandleCallTool(router.callTool)

	logger.Info("All tools registered successfully")
	return s
}
