package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"voice-journal/pkg/domain"
	"voice-journal/pkg/language"
	"voice-journal/pkg/openai"
)

// Completer is the text-generation dependency. *openai.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req openai.Request) (string, error)
}

// LLM is the Synthesizer backed by a remote language model.
type LLM struct {
	client Completer
}

// NewLLM creates a language-model synthesizer.
func NewLLM(client Completer) *LLM {
	return &LLM{client: client}
}

const journalShape = `{"title": string, "content": string, "summary": string, "keywords": [string], "timestamps": [string]}`

const taskShape = `{"tasks": [{"title": string, "startTime": RFC3339 string, "endTime": RFC3339 string, "priority": "high"|"medium"|"low", "notes": string}]}`

type journalResponse struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Summary    string   `json:"summary"`
	Keywords   []string `json:"keywords"`
	Timestamps []string `json:"timestamps"`
}

type taskResponse struct {
	Tasks []struct {
		Title     string `json:"title"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Priority  string `json:"priority"`
		Notes     string `json:"notes"`
	} `json:"tasks"`
}

// Journal implements Synthesizer.
func (l *LLM) Journal(ctx context.Context, transcript string, lang language.Code, ref time.Time) (domain.Journal, error) {
	profile := language.Lookup(lang)
	user := fmt.Sprintf("Entry date: %s\n\nTranscript:\n%s\n\nRespond with JSON of exactly this shape:\n%s",
		ref.Format(time.RFC3339), transcript, journalShape)

	raw, err := l.client.Complete(ctx, openai.Request{System: profile.JournalPrompt, User: user, JSON: true})
	if err != nil {
		return domain.Journal{}, err
	}

	var resp journalResponse
	if err := json.Unmarshal([]byte(stripFences(raw)), &resp); err != nil {
		return domain.Journal{}, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	j := domain.Journal{
		Title:      strings.TrimSpace(resp.Title),
		Content:    resp.Content,
		Summary:    strings.TrimSpace(resp.Summary),
		Keywords:   nonEmpty(resp.Keywords),
		Timestamps: nonEmpty(resp.Timestamps),
	}
	if strings.TrimSpace(j.Content) == "" {
		j.Content = transcript
	}
	return j, nil
}

// Tasks implements Synthesizer. A task whose times do not parse makes the whole
// response malformed; tasks without a title are skipped.
func (l *LLM) Tasks(ctx context.Context, transcript string, lang language.Code, ref time.Time) ([]domain.Task, error) {
	profile := language.Lookup(lang)
	user := fmt.Sprintf("Reference date and time: %s (%s)\n\nTranscript:\n%s\n\nRespond with JSON of exactly this shape:\n%s",
		ref.Format(time.RFC3339), ref.Weekday(), transcript, taskShape)

	raw, err := l.client.Complete(ctx, openai.Request{System: profile.TaskPrompt, User: user, JSON: true})
	if err != nil {
		return nil, err
	}

	var resp taskResponse
	if err := json.Unmarshal([]byte(stripFences(raw)), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}

	tasks := make([]domain.Task, 0, len(resp.Tasks))
	for i, t := range resp.Tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, strings.TrimSpace(t.StartTime))
		if err != nil {
			return nil, fmt.Errorf("%w: task %d startTime: %v", ErrSynthesis, i, err)
		}
		end, err := time.Parse(time.RFC3339, strings.TrimSpace(t.EndTime))
		if err != nil {
			return nil, fmt.Errorf("%w: task %d endTime: %v", ErrSynthesis, i, err)
		}
		tasks = append(tasks, domain.Task{
			Title:     title,
			StartTime: start,
			EndTime:   end,
			Priority:  domain.ParsePriority(t.Priority),
			Notes:     strings.TrimSpace(t.Notes),
		})
	}

	if len(tasks) == 0 {
		return nil, ErrNoContent
	}
	return tasks, nil
}

// stripFences removes a ```json ... ``` wrapper some models add even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
