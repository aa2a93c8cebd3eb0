package synth

import (
	"context"
	"log"
	"time"

	"voice-journal/pkg/domain"
	"voice-journal/pkg/language"
)

// Chain tries Primary first and falls back to Fallback on any Primary error.
// With a nil Primary it is just Fallback.
type Chain struct {
	Primary  Synthesizer
	Fallback Synthesizer
}

// NewChain builds a Chain. primary may be nil when no language model is configured.
func NewChain(primary, fallback Synthesizer) *Chain {
	return &Chain{Primary: primary, Fallback: fallback}
}

// Journal implements Synthesizer.
func (c *Chain) Journal(ctx context.Context, transcript string, lang language.Code, ref time.Time) (domain.Journal, error) {
	if c.Primary != nil {
		j, err := c.Primary.Journal(ctx, transcript, lang, ref)
		if err == nil {
			return j, nil
		}
		log.Printf("Synth: language model journal failed, using fallback segmenter: %v", err)
	}
	return c.Fallback.Journal(ctx, transcript, lang, ref)
}

// Tasks implements Synthesizer.
func (c *Chain) Tasks(ctx context.Context, transcript string, lang language.Code, ref time.Time) ([]domain.Task, error) {
	if c.Primary != nil {
		tasks, err := c.Primary.Tasks(ctx, transcript, lang, ref)
		if err == nil && len(tasks) > 0 {
			return tasks, nil
		}
		if err == nil {
			err = ErrNoContent
		}
		log.Printf("Synth: language model tasks failed, using fallback segmenter: %v", err)
	}

	tasks, err := c.Fallback.Tasks(ctx, transcript, lang, ref)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, ErrNoContent
	}
	return tasks, nil
}
