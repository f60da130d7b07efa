// Package mcptools exposes the assistant to MCP clients over stdio.
//
// Each tool is a struct with its dependency injected via constructor,
// a Definition() returning the mcp.Tool schema and a Handle() method.
package mcptools

import (
	"context"
	"healthassistant/internal/models"
	"time"

	"github.com/mark3labs/mcp-go/server"
)

const Version = "1.0.0"

// Assistant is the part of the pipeline the tools drive.
type Assistant interface {
	HandleMessage(ctx context.Context, userID, text string, ts time.Time) (*models.ReplyPayload, error)
	WeeklyReport(ctx context.Context, userID string, to time.Time) (*models.WeeklyReport, error)
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(assistant Assistant, location *time.Location) *server.MCPServer {
	s := server.NewMCPServer(
		"healthassistant",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	messageTool := NewMessageTool(assistant, location)
	s.AddTool(messageTool.Definition(), messageTool.Handle)

	reportTool := NewWeeklyReportTool(assistant, location)
	s.AddTool(reportTool.Definition(), reportTool.Handle)

	return s
}
