// Package service implements the voice journal flows: transcribe a recording,
// then turn the transcript into a journal entry or a day of time-blocked tasks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"voice-journal/pkg/db"
	"voice-journal/pkg/domain"
	"voice-journal/pkg/language"
	"voice-journal/pkg/synth"
	"voice-journal/pkg/worker"
)

var (
	ErrMissingInput    = errors.New("no audio file provided")
	ErrEmptyAudio      = errors.New("audio file is empty")
	ErrEmptyTranscript = errors.New("transcription is empty")
	ErrPersistence     = errors.New("failed to save record")
	ErrInvalidDate     = domain.ErrInvalidDate
)

// Transcriber converts audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, payload domain.AudioPayload, lang language.Code) (string, error)
}

// Config wires the collaborators of a Service.
type Config struct {
	Transcriber Transcriber
	Synthesizer synth.Synthesizer
	Store       db.Store

	// Workers bounds concurrent task persistence. Defaults to worker.DefaultWorkerCount.
	Workers int

	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the transcription, journal and task flows.
type Service struct {
	transcriber Transcriber
	synthesizer synth.Synthesizer
	store       db.Store
	workers     *worker.Manager
	now         func() time.Time
}

// New creates a new service.
func New(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		transcriber: cfg.Transcriber,
		synthesizer: cfg.Synthesizer,
		store:       cfg.Store,
		workers:     worker.NewManager(cfg.Workers),
		now:         now,
	}
}

// Transcribe validates the payload and returns the trimmed transcript.
func (s *Service) Transcribe(ctx context.Context, payload *domain.AudioPayload, lang language.Code) (string, error) {
	if payload == nil || !payload.IsAudio() {
		return "", ErrMissingInput
	}
	if payload.Size() == 0 {
		return "", ErrEmptyAudio
	}

	log.Printf("Service: transcribing %s (%s, %d bytes, language=%s)",
		payload.Filename, payload.MIMEType, payload.Size(), lang)

	text, err := s.transcriber.Transcribe(ctx, *payload, lang)
	if err != nil {
		log.Printf("Service: transcription failed: %v", err)
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}

// CreateJournal transcribes the recording and stores it as a journal entry.
// A zero target means now.
func (s *Service) CreateJournal(ctx context.Context, payload *domain.AudioPayload, lang language.Code, target time.Time) (domain.Journal, error) {
	transcript, err := s.Transcribe(ctx, payload, lang)
	if err != nil {
		return domain.Journal{}, err
	}

	journal, err := s.synthesizer.Journal(ctx, transcript, lang, s.reference(target))
	if err != nil {
		log.Printf("Service: journal synthesis failed: %v", err)
		return domain.Journal{}, err
	}

	if err := s.store.CreateJournal(ctx, &journal); err != nil {
		log.Printf("Service: failed to save journal: %v", err)
		return domain.Journal{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	log.Printf("Service: saved journal %s (%q)", journal.ID, journal.Title)
	return journal, nil
}

// CreateTasks transcribes the recording, schedules the tasks it mentions on the
// target day and stores them. Tasks are returned in schedule order.
func (s *Service) CreateTasks(ctx context.Context, payload *domain.AudioPayload, lang language.Code, target time.Time) ([]domain.Task, error) {
	transcript, err := s.Transcribe(ctx, payload, lang)
	if err != nil {
		return nil, err
	}

	tasks, err := s.synthesizer.Tasks(ctx, transcript, lang, s.reference(target))
	if err != nil {
		log.Printf("Service: task synthesis failed: %v", err)
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, synth.ErrNoContent
	}

	err = s.workers.Process(ctx, len(tasks), func(ctx context.Context, i int) error {
		return s.store.CreateTask(ctx, &tasks[i])
	})
	if err != nil {
		log.Printf("Service: failed to save tasks: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	log.Printf("Service: saved %d tasks", len(tasks))
	return tasks, nil
}

// ListJournals returns stored journal entries, newest first.
func (s *Service) ListJournals(ctx context.Context, limit int) ([]domain.Journal, error) {
	journals, err := s.store.ListJournals(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return journals, nil
}

// ListTasks returns stored tasks, latest start first.
func (s *Service) ListTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	tasks, err := s.store.ListTasks(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return tasks, nil
}

func (s *Service) reference(target time.Time) time.Time {
	if target.IsZero() {
		return s.now()
	}
	return target
}
