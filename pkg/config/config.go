// Package config reads service settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"voice-journal/pkg/db"
	"voice-journal/pkg/openai"
	"voice-journal/pkg/transcription"
)

// Config is the full runtime configuration of the server.
type Config struct {
	ListenAddr string
	PublicURL  string

	Transcription transcription.Config
	// OpenAI is used only when OpenAI.APIKey is set; otherwise tasks and
	// journals come from the deterministic segmenter.
	OpenAI openai.Config

	Database       db.Config
	PersistWorkers int
}

// FromEnv builds a Config from environment variables, falling back to defaults.
func FromEnv() Config {
	return Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		PublicURL:  os.Getenv("PUBLIC_URL"),
		Transcription: transcription.Config{
			BaseURL: getenv("ASSEMBLYAI_BASE_URL", transcription.DefaultBaseURL),
			APIKey:  os.Getenv("ASSEMBLYAI_API_KEY"),
		},
		OpenAI: openai.Config{
			BaseURL: getenv("OPENAI_BASE_URL", openai.DefaultBaseURL),
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   getenv("OPENAI_MODEL", openai.DefaultModel),
		},
		Database: db.Config{
			Driver:     db.ResolveDriver(os.Getenv("DB_DRIVER")),
			SQLitePath: getenv("SQLITE_PATH", db.DefaultSQLitePath),
			Postgres:   db.PostgresConfig{DSN: os.Getenv("DATABASE_URL")},
			Supabase: db.SupabaseConfig{
				ConnectionString: os.Getenv("SUPABASE_DB_URL"),
				SupabaseURL:      os.Getenv("SUPABASE_URL"),
				SupabaseKey:      os.Getenv("SUPABASE_KEY"),
				Password:         os.Getenv("SUPABASE_DB_PASSWORD"),
			},
			MongoURI: getenv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:  getenv("MONGO_DB", "voicejournal"),
		},
		PersistWorkers: getenvInt("PERSIST_WORKERS", 4),
	}
}

// HasLanguageModel reports whether an OpenAI key is configured.
func (c Config) HasLanguageModel() bool {
	return strings.TrimSpace(c.OpenAI.APIKey) != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
