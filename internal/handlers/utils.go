package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// formatJSONResponse converts a response struct to a formatted JSON string
func formatJSONResponse(response interface{}) (string, error) {
	jsonBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(jsonBytes), nil
}

// parseLeagueID extracts league_id from tool arguments. ESPN league ids are
// unsigned integers sent as strings.
func parseLeagueID(args map[string]interface{}) (string, error) {
	raw, ok := args["league_id"].(string)
	if !ok {
		return "", fmt.Errorf("league_id is required and must be a string")
	}

	leagueID := strings.TrimSpace(raw)
	if leagueID == "" {
		return "", fmt.Errorf("league_id is required and must be a string")
	}
	if _, err := strconv.ParseUint(leagueID, 10, 64); err != nil {
		return "", fmt.Errorf("league_id must be an unsigned integer, got %q", raw)
	}

	return leagueID, nil
}

// parseOptionalBool reads a boolean argument, reporting whether it was supplied
func parseOptionalBool(args map[string]interface{}, name string) (value bool, present bool, err error) {
	raw, exists := args[name]
	if !exists || raw == nil {
		return false, false, nil
	}

	value, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("%s must be a boolean", name)
	}
	return value, true, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}
