// Package mcptools exposes the offline segmenter as MCP tools, so agents can
// structure a transcript they already have without sending audio.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"voice-journal/pkg/domain"
	"voice-journal/pkg/language"
	"voice-journal/pkg/synth"
)

const (
	ServerName    = "voice-journal"
	ServerVersion = "0.1.0"
)

// Tools holds the tool handlers. Now defaults to time.Now.
type Tools struct {
	Now func() time.Time
}

// NewServer builds an MCP server with segment_journal and segment_tasks registered.
func NewServer(now func() time.Time) *server.MCPServer {
	s := server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false))
	(&Tools{Now: now}).Register(s)
	return s
}

// Register adds the tools to s.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("segment_journal",
		mcp.WithDescription("Split a transcript into a journal entry: title, content and summary."),
		mcp.WithString("transcript", mcp.Required(), mcp.Description("Plain transcript text")),
	), t.SegmentJournal)

	s.AddTool(mcp.NewTool("segment_tasks",
		mcp.WithDescription("Split a spoken plan into one-hour tasks starting at the current hour."),
		mcp.WithString("transcript", mcp.Required(), mcp.Description("Plain transcript text")),
		mcp.WithString("language", mcp.Description("Language code: en or id (default en)")),
		mcp.WithString("date", mcp.Description("Day to schedule on, YYYY-MM-DD or RFC 3339 (default today)")),
	), t.SegmentTasks)
}

// SegmentJournal handles segment_journal.
func (t *Tools) SegmentJournal(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	transcript, err := req.RequireString("transcript")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(synth.FallbackJournal(transcript))
}

// SegmentTasks handles segment_tasks.
func (t *Tools) SegmentTasks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	transcript, err := req.RequireString("transcript")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	current := now()

	anchor, err := domain.ParseDate(req.GetString("date", ""), current.Location())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	lang := language.Normalize(req.GetString("language", string(language.Default)))
	tasks := synth.FallbackTasks(transcript, lang, current, anchor)
	if len(tasks) == 0 {
		return mcp.NewToolResultError(synth.ErrNoContent.Error()), nil
	}
	return jsonResult(tasks)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
