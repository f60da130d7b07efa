package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"healthassistant/internal/models"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// WeeklyReportTool handles the weekly_report MCP tool.
type WeeklyReportTool struct {
	assistant Assistant
	location  *time.Location
	now       func() time.Time
}

func NewWeeklyReportTool(assistant Assistant, location *time.Location) *WeeklyReportTool {
	if location == nil {
		location = time.UTC
	}
	return &WeeklyReportTool{assistant: assistant, location: location, now: time.Now}
}

func (t *WeeklyReportTool) Definition() mcp.Tool {
	return mcp.NewTool("weekly_report",
		mcp.WithDescription("Aggregate a user's last seven days of diet, sleep and vitals records as JSON."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Chat user ID"),
		),
		mcp.WithString("to",
			mcp.Description("Last day of the window (YYYY-MM-DD); defaults to today"),
		),
	)
}

func (t *WeeklyReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	if userID == "" {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	to := t.now().In(t.location)
	if raw := req.GetString("to", ""); raw != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, raw, t.location)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date %q: use YYYY-MM-DD", raw)), nil
		}
		to = parsed
	}

	report, err := t.assistant.WeeklyReport(ctx, userID, to)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build report: %v", err)), nil
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}
