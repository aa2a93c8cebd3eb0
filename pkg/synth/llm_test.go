package synth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"voice-journal/pkg/domain"
	"voice-journal/pkg/language"
	"voice-journal/pkg/openai"
)

// mockCompleter is a mock implementation of Completer for testing
type mockCompleter struct {
	response  string
	err       error
	last      openai.Request
	callCount int
}

func (m *mockCompleter) Complete(ctx context.Context, req openai.Request) (string, error) {
	m.callCount++
	m.last = req
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

var ref = time.Date(2026, time.October, 14, 8, 0, 0, 0, time.UTC)

func TestLLM_Journal(t *testing.T) {
	m := &mockCompleter{response: `{"title":"Rainy walk","content":"Walked the dog.","summary":"A walk.","keywords":["dog"," ","rain"],"timestamps":["morning"]}`}
	l := NewLLM(m)

	j, err := l.Journal(context.Background(), "walked the dog", language.English, ref)
	if err != nil {
		t.Fatalf("Journal: %v", err)
	}
	if j.Title != "Rainy walk" || j.Summary != "A walk." || j.Content != "Walked the dog." {
		t.Errorf("unexpected journal: %+v", j)
	}
	if len(j.Keywords) != 2 || j.Keywords[1] != "rain" {
		t.Errorf("Keywords = %q", j.Keywords)
	}
	if !m.last.JSON {
		t.Error("expected JSON mode request")
	}
	if !strings.Contains(m.last.User, "walked the dog") {
		t.Errorf("prompt does not embed transcript: %q", m.last.User)
	}
	if m.last.System != language.Lookup(language.English).JournalPrompt {
		t.Error("expected English journal prompt")
	}
}

func TestLLM_Journal_MissingFieldsDefault(t *testing.T) {
	m := &mockCompleter{response: "```json\n{\"title\":\"Only title\"}\n```"}
	j, err := NewLLM(m).Journal(context.Background(), "the transcript", language.Indonesian, ref)
	if err != nil {
		t.Fatalf("Journal: %v", err)
	}
	if j.Content != "the transcript" {
		t.Errorf("Content = %q, want transcript", j.Content)
	}
	if j.Summary != "" {
		t.Errorf("Summary = %q, want empty", j.Summary)
	}
	if m.last.System != language.Lookup(language.Indonesian).JournalPrompt {
		t.Error("expected Indonesian journal prompt")
	}
}

func TestLLM_Journal_MalformedJSON(t *testing.T) {
	m := &mockCompleter{response: "Sure! Here is your journal:"}
	_, err := NewLLM(m).Journal(context.Background(), "x", language.English, ref)
	if !errors.Is(err, ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}

func TestLLM_Tasks(t *testing.T) {
	m := &mockCompleter{response: `{"tasks":[
		{"title":"Call mom","startTime":"2026-10-15T09:00:00Z","endTime":"2026-10-15T09:30:00Z","priority":"HIGH","notes":"birthday"},
		{"title":"  ","startTime":"bad","endTime":"bad"},
		{"title":"Buy milk","startTime":"2026-10-15T10:00:00+07:00","endTime":"2026-10-15T11:00:00+07:00"}
	]}`}

	tasks, err := NewLLM(m).Tasks(context.Background(), "call mom tomorrow then buy milk", language.English, ref)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].Priority != domain.PriorityHigh || tasks[0].Notes != "birthday" {
		t.Errorf("first task = %+v", tasks[0])
	}
	if tasks[1].Priority != domain.PriorityMedium {
		t.Errorf("second task priority = %q, want medium", tasks[1].Priority)
	}
	if tasks[1].Duration() != time.Hour {
		t.Errorf("second task duration = %v", tasks[1].Duration())
	}
	if !strings.Contains(m.last.User, ref.Format(time.RFC3339)) {
		t.Errorf("prompt does not include reference date: %q", m.last.User)
	}
}

func TestLLM_Tasks_ZeroTasksIsNoContent(t *testing.T) {
	m := &mockCompleter{response: `{"tasks":[]}`}
	_, err := NewLLM(m).Tasks(context.Background(), "hmm", language.English, ref)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestLLM_Tasks_BadTimeIsSynthesisError(t *testing.T) {
	m := &mockCompleter{response: `{"tasks":[{"title":"Call mom","startTime":"tomorrow 9am","endTime":"2026-10-15T10:00:00Z"}]}`}
	_, err := NewLLM(m).Tasks(context.Background(), "call mom", language.English, ref)
	if !errors.Is(err, ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}

func TestLLM_Tasks_TransportErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	m := &mockCompleter{err: boom}
	_, err := NewLLM(m).Tasks(context.Background(), "call mom", language.English, ref)
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
