package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"voice-journal/pkg/domain"
)

// DefaultListLimit is used when a List call passes limit <= 0.
const DefaultListLimit = 50

// Store persists journal entries and tasks. Create assigns the ID and, when
// unset, CreatedAt on the passed record.
type Store interface {
	CreateJournal(ctx context.Context, j *domain.Journal) error
	CreateTask(ctx context.Context, t *domain.Task) error
	ListJournals(ctx context.Context, limit int) ([]domain.Journal, error)
	ListTasks(ctx context.Context, limit int) ([]domain.Task, error)
	Close(ctx context.Context) error
}

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverSupabase = "supabase"
	DriverMongo    = "mongo"
)

// Config selects and configures a Store backend.
type Config struct {
	Driver string

	// SQLitePath is a file path or ":memory:".
	SQLitePath string

	Postgres PostgresConfig
	Supabase SupabaseConfig

	MongoURI string
	MongoDB  string
}

// ResolveDriver normalises a driver name; empty means sqlite.
func ResolveDriver(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DriverSQLite
	}
	return name
}

// Open connects to the configured backend and makes sure its schema exists.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch ResolveDriver(cfg.Driver) {
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)

	case DriverPostgres:
		c := NewPostgresClient(cfg.Postgres)
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
		if err := c.EnsureSchema(ctx); err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
		return c, nil

	case DriverSupabase:
		c := NewSupabaseClient(cfg.Supabase)
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
		if err := c.EnsureSchema(ctx); err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
		return c, nil

	case DriverMongo:
		c := NewClient(cfg.MongoURI, cfg.MongoDB)
		if err := c.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func prepareJournal(j *domain.Journal) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
}

func prepareTask(t *domain.Task) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// joinList stores string lists as a single comma-separated column.
func joinList(items []string) string {
	return strings.Join(items, ",")
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
