package mcptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// MessageTool handles the handle_message MCP tool.
type MessageTool struct {
	assistant Assistant
	location  *time.Location
	now       func() time.Time
}

func NewMessageTool(assistant Assistant, location *time.Location) *MessageTool {
	if location == nil {
		location = time.UTC
	}
	return &MessageTool{assistant: assistant, location: location, now: time.Now}
}

func (t *MessageTool) Definition() mcp.Tool {
	return mcp.NewTool("handle_message",
		mcp.WithDescription(
			"Send one chat message on behalf of a user. Meals, sleep, blood pressure, "+
				"glucose and profile details are recorded and the assistant's reply is returned.",
		),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Chat user ID"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Message text, e.g. 'had a bowl of beef noodles for lunch'"),
		),
		mcp.WithString("timestamp",
			mcp.Description("RFC 3339 time of the message; defaults to now"),
		),
	)
}

func (t *MessageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID := req.GetString("user_id", "")
	text := req.GetString("text", "")
	if userID == "" || text == "" {
		return mcp.NewToolResultError("user_id and text are required"), nil
	}

	ts := t.now().In(t.location)
	if raw := req.GetString("timestamp", ""); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid timestamp %q: use RFC 3339", raw)), nil
		}
		ts = parsed
	}

	reply, err := t.assistant.HandleMessage(ctx, userID, text, ts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to handle message: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s]", reply.Intent))
	if reply.Fallback {
		sb.WriteString(" (fallback)")
	}
	sb.WriteString("\n")
	sb.WriteString(reply.Text)
	if len(reply.QuickReplies) > 0 {
		sb.WriteString("\n\nQuick replies:")
		for _, q := range reply.QuickReplies {
			sb.WriteString(fmt.Sprintf("\n- %s: %s", q.Label, q.Text))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
