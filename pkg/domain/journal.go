package domain

import "time"

// Journal is a journal entry derived from a single transcript.
// It is immutable once created.
type Journal struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Summary string `json:"summary"`

	// Keywords and Timestamps are optional; the LLM path fills them, the fallback does not.
	Keywords   []string `json:"keywords"`
	Timestamps []string `json:"timestamps"`

	// AudioURL references the stored recording. Audio storage is not implemented yet,
	// so this is normally empty.
	AudioURL string `json:"audioUrl"`

	CreatedAt time.Time `json:"createdAt"`
}
