package domain

import (
	"strings"
	"time"
)

// Priority ranks a task. The zero value is not valid; use ParsePriority.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority maps free-form input onto a Priority, defaulting to medium.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Task is a time-blocked to-do item: it has an explicit start and end
// rather than a bare deadline.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Priority  Priority  `json:"priority"`
	Notes     string    `json:"notes"`
	AudioURL  string    `json:"audioUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// Duration returns the length of the time block.
func (t Task) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}
