package mcptools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"voice-journal/pkg/domain"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("expected tool content")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestSegmentJournal(t *testing.T) {
	tools := &Tools{}
	res, err := tools.SegmentJournal(context.Background(), callRequest("segment_journal", map[string]any{
		"transcript": "Woke up early. Went for a run. Felt great",
	}))
	if err != nil {
		t.Fatalf("SegmentJournal failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var j domain.Journal
	if err := json.Unmarshal([]byte(resultText(t, res)), &j); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if j.Title != "Woke up early" {
		t.Errorf("title: got %q", j.Title)
	}
	if j.Summary != "Woke up early. Felt great." {
		t.Errorf("summary: got %q", j.Summary)
	}
}

func TestSegmentJournal_MissingTranscript(t *testing.T) {
	tools := &Tools{}
	res, err := tools.SegmentJournal(context.Background(), callRequest("segment_journal", map[string]any{}))
	if err != nil {
		t.Fatalf("SegmentJournal returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing transcript")
	}
}

func TestSegmentTasks(t *testing.T) {
	now := time.Date(2026, 10, 14, 21, 15, 0, 0, time.UTC)
	tools := &Tools{Now: func() time.Time { return now }}

	res, err := tools.SegmentTasks(context.Background(), callRequest("segment_tasks", map[string]any{
		"transcript": "i need to call mom then buy milk and then write the report after that sleep",
		"date":       "2026-10-20",
	}))
	if err != nil {
		t.Fatalf("SegmentTasks failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var tasks []domain.Task
	if err := json.Unmarshal([]byte(resultText(t, res)), &tasks); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	// 21:00 leaves three hourly slots before midnight.
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Call mom" {
		t.Errorf("title: got %q", tasks[0].Title)
	}
	want := time.Date(2026, 10, 20, 21, 0, 0, 0, time.UTC)
	if !tasks[0].StartTime.Equal(want) {
		t.Errorf("start: got %v, want %v", tasks[0].StartTime, want)
	}
	if !tasks[2].EndTime.Equal(want.Add(3 * time.Hour)) {
		t.Errorf("last end: got %v", tasks[2].EndTime)
	}
}

func TestSegmentTasks_Errors(t *testing.T) {
	tools := &Tools{Now: func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }}

	tests := []map[string]any{
		{"transcript": "call mom", "date": "someday"},
		{"transcript": "   "},
		{"language": "en"},
	}
	for _, args := range tests {
		res, err := tools.SegmentTasks(context.Background(), callRequest("segment_tasks", args))
		if err != nil {
			t.Fatalf("SegmentTasks returned protocol error: %v", err)
		}
		if !res.IsError {
			t.Errorf("args %v: expected tool error", args)
		}
	}
}

func TestNewServer(t *testing.T) {
	if s := NewServer(nil); s == nil {
		t.Fatal("expected server")
	}
}
