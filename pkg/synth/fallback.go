package synth

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"voice-journal/pkg/domain"
	"voice-journal/pkg/language"
)

// journalDelimiter separates sentences for the fallback journal.
const journalDelimiter = ". "

var (
	modalPrefix = regexp.MustCompile(`(?i)^(?:i need to|i have to|i must|i want to|i will)`)
	punctPrefix = regexp.MustCompile(`^[,.]\s*`)
)

// Fallback is the offline Synthesizer. It never calls out and never fails on
// input shape; an empty transcript just yields empty output.
type Fallback struct {
	now func() time.Time
}

// NewFallback creates a fallback synthesizer. now defaults to time.Now.
func NewFallback(now func() time.Time) *Fallback {
	if now == nil {
		now = time.Now
	}
	return &Fallback{now: now}
}

// Journal implements Synthesizer.
func (f *Fallback) Journal(_ context.Context, transcript string, _ language.Code, _ time.Time) (domain.Journal, error) {
	return FallbackJournal(transcript), nil
}

// Tasks implements Synthesizer. An empty schedule is reported as ErrNoContent.
func (f *Fallback) Tasks(_ context.Context, transcript string, lang language.Code, ref time.Time) ([]domain.Task, error) {
	tasks := FallbackTasks(transcript, lang, f.now(), ref)
	if len(tasks) == 0 {
		return nil, ErrNoContent
	}
	return tasks, nil
}

// FallbackJournal splits the transcript into sentences on ". ".
// The first sentence becomes the title, the transcript itself the content, and
// the first and last sentence together the summary.
func FallbackJournal(transcript string) domain.Journal {
	sentences := strings.Split(transcript, journalDelimiter)
	first := sentences[0]

	summary := strings.TrimSpace(first)
	if len(sentences) > 1 {
		summary = first + journalDelimiter + sentences[len(sentences)-1] + "."
	}

	return domain.Journal{
		Title:   strings.TrimSpace(first),
		Content: transcript,
		Summary: summary,
	}
}

// FallbackTasks splits a spoken plan on sequencing words and lays the pieces
// out in consecutive one-hour blocks starting at the current hour of now, on the
// calendar day of anchor (now's day when anchor is zero). Blocks never run past
// midnight, so at most 24-now.Hour() tasks are returned.
func FallbackTasks(transcript string, lang language.Code, now, anchor time.Time) []domain.Task {
	segments := SplitTasks(transcript, lang)

	currentHour := now.Hour()
	limit := 24 - currentHour
	if limit > len(segments) {
		limit = len(segments)
	}
	if limit <= 0 {
		return []domain.Task{}
	}

	if anchor.IsZero() {
		anchor = now
	}
	anchor = anchor.In(now.Location())
	year, month, day := anchor.Date()

	tasks := make([]domain.Task, 0, limit)
	for i, segment := range segments[:limit] {
		start := time.Date(year, month, day, currentHour+i, 0, 0, 0, now.Location())
		tasks = append(tasks, domain.Task{
			Title:     TaskTitle(segment),
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Priority:  domain.PriorityMedium,
		})
	}
	return tasks
}

// SplitTasks splits transcript on the language's sequencing words and drops
// empty pieces.
func SplitTasks(transcript string, lang language.Code) []string {
	profile := language.Lookup(lang)

	var out []string
	for _, piece := range profile.TaskDelimiter.Split(transcript, -1) {
		piece = strings.TrimSpace(piece)
		if piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

// TaskTitle strips a leading "I need to"-style phrase and capitalizes the rest.
func TaskTitle(segment string) string {
	title := modalPrefix.ReplaceAllString(segment, "")
	title = punctPrefix.ReplaceAllString(title, "")
	return capitalize(strings.TrimSpace(title))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
