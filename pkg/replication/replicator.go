// Package replication copies journal entries and tasks between storage backends.
package replication

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"voice-journal/pkg/db"
	"voice-journal/pkg/domain"
	"voice-journal/pkg/worker"
)

// DefaultMaxRecords bounds how many records of each kind are read per run.
const DefaultMaxRecords = 100000

// Config wires the replication dependencies.
type Config struct {
	Source db.Store
	Target db.Store

	// Workers is the number of parallel inserts into Target.
	Workers int
	// MaxRecords caps records read per kind. Defaults to DefaultMaxRecords.
	MaxRecords int
}

// Result counts what a run did.
type Result struct {
	JournalsRead     int
	JournalsInserted int
	TasksRead        int
	TasksInserted    int
}

// Replicator copies every record from Source to Target, keeping IDs and
// creation times. Records whose ID already exists in Target are skipped, so
// running it twice is safe.
type Replicator struct {
	source  db.Store
	target  db.Store
	workers *worker.Manager
	max     int
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("source store is required")
	}
	if cfg.Target == nil {
		return nil, fmt.Errorf("target store is required")
	}
	max := cfg.MaxRecords
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &Replicator{
		source:  cfg.Source,
		target:  cfg.Target,
		workers: worker.NewManager(cfg.Workers),
		max:     max,
	}, nil
}

// Run replicates journals and then tasks.
func (r *Replicator) Run(ctx context.Context) (Result, error) {
	var res Result

	read, inserted, err := r.replicateJournals(ctx)
	res.JournalsRead, res.JournalsInserted = read, inserted
	if err != nil {
		return res, err
	}

	read, inserted, err = r.replicateTasks(ctx)
	res.TasksRead, res.TasksInserted = read, inserted
	if err != nil {
		return res, err
	}

	log.Printf("Replication complete: journals %d/%d inserted, tasks %d/%d inserted",
		res.JournalsInserted, res.JournalsRead, res.TasksInserted, res.TasksRead)
	return res, nil
}

func (r *Replicator) replicateJournals(ctx context.Context) (int, int, error) {
	journals, err := r.source.ListJournals(ctx, r.max)
	if err != nil {
		return 0, 0, fmt.Errorf("read source journals: %w", err)
	}
	existing, err := r.target.ListJournals(ctx, r.max)
	if err != nil {
		return len(journals), 0, fmt.Errorf("read target journals: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, j := range existing {
		seen[j.ID] = true
	}
	toInsert := make([]domain.Journal, 0, len(journals))
	for _, j := range journals {
		if !seen[j.ID] {
			toInsert = append(toInsert, j)
		}
	}
	log.Printf("Loaded %d journals from source, %d already in target", len(journals), len(journals)-len(toInsert))

	var inserted atomic.Int64
	err = r.workers.Process(ctx, len(toInsert), func(ctx context.Context, i int) error {
		if err := r.target.CreateJournal(ctx, &toInsert[i]); err != nil {
			return fmt.Errorf("insert journal id=%q: %w", toInsert[i].ID, err)
		}
		inserted.Add(1)
		return nil
	})
	return len(journals), int(inserted.Load()), err
}

func (r *Replicator) replicateTasks(ctx context.Context) (int, int, error) {
	tasks, err := r.source.ListTasks(ctx, r.max)
	if err != nil {
		return 0, 0, fmt.Errorf("read source tasks: %w", err)
	}
	existing, err := r.target.ListTasks(ctx, r.max)
	if err != nil {
		return len(tasks), 0, fmt.Errorf("read target tasks: %w", err)
	}

	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.ID] = true
	}
	toInsert := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !seen[t.ID] {
			toInsert = append(toInsert, t)
		}
	}
	log.Printf("Loaded %d tasks from source, %d already in target", len(tasks), len(tasks)-len(toInsert))

	var inserted atomic.Int64
	err = r.workers.Process(ctx, len(toInsert), func(ctx context.Context, i int) error {
		if err := r.target.CreateTask(ctx, &toInsert[i]); err != nil {
			return fmt.Errorf("insert task id=%q: %w", toInsert[i].ID, err)
		}
		inserted.Add(1)
		return nil
	})
	return len(tasks), int(inserted.Load()), err
}
