// Package synth turns transcripts into journal entries and time-blocked tasks,
// either through a language model or a deterministic segmenter.
package synth

import (
	"context"
	"errors"
	"time"

	"voice-journal/pkg/domain"
	"voice-journal/pkg/language"
)

var (
	// ErrSynthesis means the generation response could not be understood.
	ErrSynthesis = errors.New("malformed synthesis response")

	// ErrNoContent means the transcript was understood but nothing usable came out of it.
	ErrNoContent = errors.New("no content could be generated from the transcription")
)

// Synthesizer structures a transcript. ref anchors relative dates ("tomorrow")
// and is the day tasks are scheduled on.
type Synthesizer interface {
	Journal(ctx context.Context, transcript string, lang language.Code, ref time.Time) (domain.Journal, error)
	Tasks(ctx context.Context, transcript string, lang language.Code, ref time.Time) ([]domain.Task, error)
}
